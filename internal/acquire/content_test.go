package acquire

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const articleBody = `Acme Inc, a developer tooling startup, today announced it has raised
$12 million in Series A funding led by Acme Ventures. The round included participation
from several angel investors. The company plans to use the proceeds to expand its
engineering team and accelerate product development across its cloud platform.`

func wireHTML(container string) string {
	return `<html><head>
<title>Acme Raises $12M</title>
<meta name="description" content="Acme Inc announces Series A funding.">
</head><body>
<nav>Home | News | About</nav>
<script>window.track()</script>
<div class="` + container + `"><p>` + articleBody + `</p></div>
<footer>Copyright Acme</footer>
</body></html>`
}

func TestExtractContent_SiteSpecificSelectorWins(t *testing.T) {
	t.Parallel()

	text, title, err := extractContent([]byte(wireHTML("bw-release-story")), 200)
	require.NoError(t, err)

	require.Equal(t, "Acme Raises $12M", title)
	require.Contains(t, text, "raised")
	require.Contains(t, text, "$12 million")
	// Synthesized header comes first.
	require.True(t, strings.HasPrefix(text, "Acme Raises $12M"))
	require.Contains(t, text, "Acme Inc announces Series A funding.")
	// Stripped elements never leak into the content.
	require.NotContains(t, text, "window.track")
	require.NotContains(t, text, "Home | News")
	require.NotContains(t, text, "Copyright Acme")
}

func TestExtractContent_FallsBackToBodyText(t *testing.T) {
	t.Parallel()

	html := `<html><head><title>Short</title></head><body><div class="unknown">` +
		articleBody + `</div></body></html>`

	text, title, err := extractContent([]byte(html), 200)
	require.NoError(t, err)
	require.Equal(t, "Short", title)
	require.Contains(t, text, "raised")
}

func TestExtractContent_ThinSelectorSkipped(t *testing.T) {
	t.Parallel()

	// The article container is under the threshold, so selection moves on
	// and ends at the body fallback.
	html := `<html><body><article>too short</article><p>` + articleBody + `</p></body></html>`

	text, _, err := extractContent([]byte(html), 200)
	require.NoError(t, err)
	require.Contains(t, text, "Acme Ventures")
}

func TestCollapseWhitespace(t *testing.T) {
	t.Parallel()

	in := "a   b\t c\n\n\n\n d  \n e"
	require.Equal(t, "a b c\n\nd\ne", collapseWhitespace(in))
}
