package acquire

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fundwire/extractor/internal/funding"
)

type fakeFetcher struct {
	page  page
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (page, error) {
	f.calls++
	if f.err != nil {
		return page{}, f.err
	}
	p := f.page
	p.URL = url
	return p, nil
}

type fakeRenderer struct {
	page  page
	err   error
	calls int
}

func (r *fakeRenderer) Render(_ context.Context, url string) (page, error) {
	r.calls++
	if r.err != nil {
		return page{}, r.err
	}
	p := r.page
	p.URL = url
	return p, nil
}

func TestAcquirer_DirectFetchSucceeds(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{page: page{Body: []byte(wireHTML("bw-release-story")), StatusCode: 200}}
	a := New(Config{}, fetcher, nil, zap.NewNop())

	content, err := a.Acquire(context.Background(), "https://www.businesswire.com/news/home/1/en/x")
	require.NoError(t, err)
	require.Equal(t, funding.MethodDirectFetch, content.Method)
	require.Equal(t, "Acme Raises $12M", content.Title)
	require.Contains(t, content.Text, "$12 million")
}

func TestAcquirer_FallbackLaw_RecognizedWireDomain(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{
		err: funding.NewFetchError(funding.FetchAuthDenied,
			"https://www.businesswire.com/news/home/20240101/en/Acme-Raises-50-Million-Series-B",
			"Access denied (403)"),
	}
	a := New(Config{}, fetcher, nil, zap.NewNop())

	content, err := a.Acquire(context.Background(),
		"https://www.businesswire.com/news/home/20240101/en/Acme-Raises-50-Million-Series-B")
	require.NoError(t, err)
	require.Equal(t, funding.MethodURLHeuristic, content.Method)
	require.Equal(t, "Acme Raises 50 Million Series B", content.Title)
	require.NotEmpty(t, content.Text)
}

func TestAcquirer_CombinedFailureKeepsDirectReason(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{
		err: funding.NewFetchError(funding.FetchNotFound, "https://example.com/", "Article not found (404)"),
	}
	a := New(Config{}, fetcher, nil, zap.NewNop())

	_, err := a.Acquire(context.Background(), "https://example.com/")
	require.Error(t, err)

	fe, ok := funding.AsFetchError(err)
	require.True(t, ok)
	require.Equal(t, funding.FetchNotFound, fe.Kind)
	require.Equal(t, "Article not found (404)", fe.Message)
	require.Contains(t, err.Error(), "url heuristic produced no title")
}

func TestAcquirer_ShortContentFallsBack(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{page: page{Body: []byte("<html><body>hi</body></html>"), StatusCode: 200}}
	a := New(Config{}, fetcher, nil, zap.NewNop())

	content, err := a.Acquire(context.Background(),
		"https://www.prnewswire.com/news-releases/acme-closes-seed-round-302123456.html")
	require.NoError(t, err)
	require.Equal(t, funding.MethodURLHeuristic, content.Method)
	require.Equal(t, "Acme Closes Seed Round", content.Title)
}

func TestAcquirer_RenderPromotion(t *testing.T) {
	t.Parallel()

	// Static HTML is an app shell; the rendered DOM carries the article.
	shell := `<html><body><div id="root" data-reactroot></div></body></html>`
	fetcher := &fakeFetcher{page: page{Body: []byte(shell), StatusCode: 200}}
	renderer := &fakeRenderer{page: page{Body: []byte(wireHTML("article-body")), StatusCode: 200}}
	a := New(Config{}, fetcher, renderer, zap.NewNop())

	content, err := a.Acquire(context.Background(), "https://news.example.com/acme-raises")
	require.NoError(t, err)
	require.Equal(t, funding.MethodRendered, content.Method)
	require.Equal(t, 1, renderer.calls)
	require.Contains(t, content.Text, "$12 million")
}

func TestAcquirer_RenderFailureStillFallsBack(t *testing.T) {
	t.Parallel()

	shell := `<html><body><div data-reactroot></div></body></html>`
	fetcher := &fakeFetcher{page: page{Body: []byte(shell), StatusCode: 200}}
	renderer := &fakeRenderer{err: ErrRendererDisabled}
	a := New(Config{}, fetcher, renderer, zap.NewNop())

	content, err := a.Acquire(context.Background(), "https://news.example.com/acme-raises-funds")
	require.NoError(t, err)
	require.Equal(t, funding.MethodURLHeuristic, content.Method)
	require.Equal(t, "Acme Raises Funds", content.Title)
}
