package acquire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeuristicContent_BusinessWireSlug(t *testing.T) {
	t.Parallel()

	text, title, recognized := heuristicContent(
		"https://www.businesswire.com/news/home/20240101/en/Acme-Raises-50-Million-Series-B")

	require.True(t, recognized)
	require.Equal(t, "Acme Raises 50 Million Series B", title)
	require.Contains(t, text, "Acme Raises 50 Million Series B")
	require.Contains(t, text, "press release")
}

func TestHeuristicContent_PRNewswireStripsTrailingID(t *testing.T) {
	t.Parallel()

	_, title, recognized := heuristicContent(
		"https://www.prnewswire.com/news-releases/acme-closes-seed-round-302123456.html")

	require.True(t, recognized)
	require.Equal(t, "Acme Closes Seed Round", title)
}

func TestHeuristicContent_PRWebStripsTrailingIDWithoutExtension(t *testing.T) {
	t.Parallel()

	_, title, recognized := heuristicContent(
		"https://www.prweb.com/releases/acme-closes-seed-round-302123456")

	require.True(t, recognized)
	require.Equal(t, "Acme Closes Seed Round", title)
}

func TestHeuristicContent_PercentDecoding(t *testing.T) {
	t.Parallel()

	_, title, recognized := heuristicContent(
		"https://www.globenewswire.com/news-release/2024/05/01/123/0/en/Acme%20Raises%20Funds.html")

	require.True(t, recognized)
	require.Equal(t, "Acme Raises Funds", title)
}

func TestHeuristicContent_UnrecognizedDomainUsesLastSegment(t *testing.T) {
	t.Parallel()

	text, title, recognized := heuristicContent(
		"https://blog.example.com/posts/startup-announces-funding")

	require.False(t, recognized)
	require.Equal(t, "Startup Announces Funding", title)
	require.NotEmpty(t, text)
}

func TestHeuristicContent_EmptyPathYieldsNothing(t *testing.T) {
	t.Parallel()

	text, title, _ := heuristicContent("https://example.com/")

	require.Empty(t, title)
	require.Empty(t, text)
}

func TestTitleFromSlug(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		slug string
		want string
	}{
		{name: "hyphens", slug: "Acme-Raises-50-Million-Series-B", want: "Acme Raises 50 Million Series B"},
		{name: "underscores", slug: "acme_raises_funds", want: "Acme Raises Funds"},
		{name: "extension stripped", slug: "acme-raises-funds.html", want: "Acme Raises Funds"},
		{name: "currency token", slug: "acme-raises-usd-50m", want: "Acme Raises $50m"},
		{name: "empty", slug: "", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, titleFromSlug(tc.slug))
		})
	}
}
