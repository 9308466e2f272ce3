package acquire

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fundwire/extractor/internal/funding"
)

// Fetcher retrieves a single page over plain HTTP.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (page, error)
}

// Renderer retrieves a page through a JavaScript-capable browser.
type Renderer interface {
	Render(ctx context.Context, url string) (page, error)
}

// Acquirer runs the acquisition fallback chain. The direct fetch is the
// primary strategy; when it fails (or yields too little text and a renderer
// is available), acquisition degrades through render promotion to the URL
// heuristic before giving up.
type Acquirer struct {
	fetcher  Fetcher
	renderer Renderer
	detector *RenderDetector
	cfg      Config
	logger   *zap.Logger
}

// New constructs an Acquirer. renderer may be nil when headless rendering
// is disabled.
func New(cfg Config, fetcher Fetcher, renderer Renderer, logger *zap.Logger) *Acquirer {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Acquirer{
		fetcher:  fetcher,
		renderer: renderer,
		detector: NewRenderDetector(cfg.RenderMinHTMLBytes, nil),
		cfg:      cfg,
		logger:   logger,
	}
}

// Acquire fetches and normalizes press-release text for url. It fails only
// when every strategy in the chain is exhausted.
func (a *Acquirer) Acquire(ctx context.Context, url string) (funding.AcquiredContent, error) {
	content, directErr := a.acquireDirect(ctx, url)
	if directErr == nil {
		return content, nil
	}
	a.logger.Warn("direct acquisition failed, trying url heuristic",
		zap.String("url", url), zap.Error(directErr))

	text, title, recognized := heuristicContent(url)
	if title != "" {
		a.logger.Info("url heuristic produced content",
			zap.String("url", url),
			zap.String("title", title),
			zap.Bool("recognized_wire", recognized))
		return funding.AcquiredContent{
			Text:   text,
			Method: funding.MethodURLHeuristic,
			Title:  title,
		}, nil
	}

	return funding.AcquiredContent{}, combineFailure(url, directErr)
}

// acquireDirect runs the fetch and, when warranted, the render promotion.
func (a *Acquirer) acquireDirect(ctx context.Context, url string) (funding.AcquiredContent, error) {
	pg, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return funding.AcquiredContent{}, err
	}

	text, title, parseErr := extractContent(pg.Body, a.cfg.SelectorMinChars)
	if parseErr == nil && len(text) >= a.cfg.MinContentChars {
		return funding.AcquiredContent{
			Text:   text,
			Method: funding.MethodDirectFetch,
			Title:  title,
		}, nil
	}

	if a.renderer != nil && a.detector.NeedsRender(pg.Body) {
		if content, renderErr := a.acquireRendered(ctx, url); renderErr == nil {
			return content, nil
		} else {
			a.logger.Warn("render promotion failed",
				zap.String("url", url), zap.Error(renderErr))
		}
	}

	if parseErr != nil {
		return funding.AcquiredContent{}, &funding.FetchError{
			Kind:    funding.FetchEmptyContent,
			URL:     url,
			Message: "Page could not be parsed",
			Err:     parseErr,
		}
	}
	return funding.AcquiredContent{}, funding.NewFetchError(
		funding.FetchEmptyContent, url, "Content too short to analyze")
}

func (a *Acquirer) acquireRendered(ctx context.Context, url string) (funding.AcquiredContent, error) {
	pg, err := a.renderer.Render(ctx, url)
	if err != nil {
		return funding.AcquiredContent{}, err
	}
	text, title, parseErr := extractContent(pg.Body, a.cfg.SelectorMinChars)
	if parseErr != nil {
		return funding.AcquiredContent{}, parseErr
	}
	if len(text) < a.cfg.MinContentChars {
		return funding.AcquiredContent{}, errors.New("rendered content too short")
	}
	return funding.AcquiredContent{
		Text:   text,
		Method: funding.MethodRendered,
		Title:  title,
	}, nil
}

// combineFailure escalates a direct-fetch failure once the URL heuristic
// has also come up empty. The direct failure's kind and reason survive so
// the orchestrator sees the root cause.
func combineFailure(url string, directErr error) *funding.FetchError {
	if fe, ok := funding.AsFetchError(directErr); ok {
		return &funding.FetchError{
			Kind:    fe.Kind,
			URL:     url,
			Message: fe.Message,
			Err:     errors.New("url heuristic produced no title"),
		}
	}
	return &funding.FetchError{
		Kind:    funding.FetchNetworkUnreachable,
		URL:     url,
		Message: directErr.Error(),
		Err:     errors.New("url heuristic produced no title"),
	}
}
