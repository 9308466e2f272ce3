package acquire

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/fundwire/extractor/internal/funding"
)

// browserHeaders mimic a desktop browser; several wire services reject
// requests without them.
var browserHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
	"Cache-Control":   "no-cache",
	"Pragma":          "no-cache",
	"Sec-Fetch-Dest":  "document",
	"Sec-Fetch-Mode":  "navigate",
	"Sec-Fetch-Site":  "none",
}

// page is the raw result of one HTTP fetch.
type page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Body       []byte
}

// CollyFetcher issues direct GETs through a tuned Colly collector.
type CollyFetcher struct {
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// NewCollyFetcher constructs a configured Colly-based fetcher.
func NewCollyFetcher(cfg Config, logger *zap.Logger) (*CollyFetcher, error) {
	base := colly.NewCollector(
		colly.Async(true),
		colly.UserAgent(cfg.UserAgent),
		colly.IgnoreRobotsTxt(),
	)
	base.AllowURLRevisit = true
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.FetchTimeout,
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(cfg.FetchTimeout)
	base.SetRedirectHandler(func(req *http.Request, via []*http.Request) error {
		if len(via) >= cfg.MaxRedirects {
			return fmt.Errorf("stopped after %d redirects", cfg.MaxRedirects)
		}
		return nil
	})

	return &CollyFetcher{
		baseCollector: base,
		logger:        logger,
	}, nil
}

// Fetch retrieves a page, mapping transport failures and non-2xx statuses
// onto the fetch error taxonomy.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) (page, error) {
	collector := f.baseCollector.Clone()
	collector.OnRequest(func(r *colly.Request) {
		for k, v := range browserHeaders {
			r.Headers.Set(k, v)
		}
	})

	resultCh := make(chan fetchResult, 1)
	var once sync.Once
	send := func(res fetchResult) {
		once.Do(func() {
			resultCh <- res
		})
	}

	collector.OnResponse(func(r *colly.Response) {
		send(fetchResult{page: page{
			URL:        rawURL,
			FinalURL:   r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       append([]byte{}, r.Body...),
		}})
	})

	collector.OnError(func(r *colly.Response, err error) {
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		if err == nil {
			err = errors.New("unknown colly error")
		}
		send(fetchResult{err: f.classify(rawURL, status, err)})
	})

	if err := collector.Visit(rawURL); err != nil {
		return page{}, f.classify(rawURL, 0, err)
	}
	collector.Wait()

	select {
	case res := <-resultCh:
		if err := ctx.Err(); err != nil {
			return page{}, &funding.FetchError{
				Kind:    funding.FetchTimeout,
				URL:     rawURL,
				Message: "fetch canceled",
				Err:     err,
			}
		}
		if res.err != nil {
			return page{}, res.err
		}
		if fe := f.classifyStatus(rawURL, res.page.StatusCode); fe != nil {
			return res.page, fe
		}
		return res.page, nil
	default:
		return page{}, funding.NewFetchError(funding.FetchNetworkUnreachable, rawURL, "fetch produced no result")
	}
}

// classify maps a transport-level failure onto a FetchError.
func (f *CollyFetcher) classify(rawURL string, status int, err error) *funding.FetchError {
	if status > 0 {
		if fe := f.classifyStatus(rawURL, status); fe != nil {
			fe.Err = err
			return fe
		}
	}
	kind := funding.FetchNetworkUnreachable
	msg := "request failed"
	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout(),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, os.ErrDeadlineExceeded):
		kind = funding.FetchTimeout
		msg = "request timed out"
	case strings.Contains(err.Error(), "redirects"):
		kind = funding.FetchBadRequest
		msg = "too many redirects"
	}
	return &funding.FetchError{Kind: kind, URL: rawURL, Message: msg, Err: err}
}

// classifyStatus maps an HTTP status onto the taxonomy, nil for success.
// Statuses >= 500 are escalated unclassified so the orchestrator can retry.
func (f *CollyFetcher) classifyStatus(rawURL string, status int) *funding.FetchError {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound, status == http.StatusGone:
		return funding.NewFetchError(funding.FetchNotFound, rawURL,
			fmt.Sprintf("Article not found (%d)", status))
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return funding.NewFetchError(funding.FetchAuthDenied, rawURL,
			fmt.Sprintf("Access denied (%d)", status))
	case status == http.StatusTooManyRequests:
		return funding.NewFetchError(funding.FetchRateLimited, rawURL,
			"Rate limited (429)")
	case status >= 500:
		return funding.NewFetchError(funding.FetchNetworkUnreachable, rawURL,
			fmt.Sprintf("Server error (%d)", status))
	case status >= 400:
		return funding.NewFetchError(funding.FetchBadRequest, rawURL,
			fmt.Sprintf("Request rejected (%d)", status))
	default:
		return funding.NewFetchError(funding.FetchBadRequest, rawURL,
			fmt.Sprintf("Unexpected status (%d)", status))
	}
}

type fetchResult struct {
	page page
	err  *funding.FetchError
}
