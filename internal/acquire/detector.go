package acquire

import (
	"bytes"
	"strings"
)

// renderSignals are markers of client-side rendering frameworks. A press
// page containing one of these usually serves an empty shell to plain HTTP
// clients.
var renderSignals = []string{
	"__NEXT_DATA__",
	"data-reactroot",
	"ng-app",
	"window.__APOLLO_STATE__",
}

// RenderDetector decides whether a fetched page warrants a headless render.
type RenderDetector struct {
	minHTMLBytes int
	keywords     [][]byte
}

// NewRenderDetector constructs a detector with the configured threshold.
// Passing no keywords installs the default render signals.
func NewRenderDetector(minBytes int, keywords []string) *RenderDetector {
	if len(keywords) == 0 {
		keywords = renderSignals
	}
	lower := make([][]byte, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		lower = append(lower, bytes.ToLower([]byte(kw)))
	}
	return &RenderDetector{
		minHTMLBytes: minBytes,
		keywords:     lower,
	}
}

// NeedsRender inspects the static HTML for signals that the article body is
// assembled client-side.
func (d *RenderDetector) NeedsRender(body []byte) bool {
	if d == nil {
		return false
	}
	if d.minHTMLBytes > 0 && len(body) < d.minHTMLBytes {
		return true
	}
	if len(body) == 0 || len(d.keywords) == 0 {
		return false
	}
	lowerBody := bytes.ToLower(body)
	for _, kw := range d.keywords {
		if bytes.Contains(lowerBody, kw) {
			return true
		}
	}
	return false
}
