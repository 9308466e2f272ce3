// Package acquire implements press-release content acquisition with a
// layered fallback chain: direct fetch, optional headless render, and a
// URL-derived heuristic of last resort.
package acquire

import "time"

// Config captures every knob that influences acquisition. It is decoupled
// from Viper so the acquirer can be constructed and tested independently.
type Config struct {
	UserAgent        string
	FetchTimeout     time.Duration
	MaxRedirects     int
	MinContentChars  int
	SelectorMinChars int

	RenderEnabled        bool
	RenderTimeout        time.Duration
	RenderMaxConcurrency int
	RenderDomainQPS      float64
	RenderMinHTMLBytes   int
}

// withDefaults fills unset fields with production defaults.
func (c Config) withDefaults() Config {
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 30 * time.Second
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = 5
	}
	if c.MinContentChars <= 0 {
		c.MinContentChars = 100
	}
	if c.SelectorMinChars <= 0 {
		c.SelectorMinChars = 200
	}
	if c.RenderTimeout <= 0 {
		c.RenderTimeout = 15 * time.Second
	}
	if c.RenderDomainQPS <= 0 {
		c.RenderDomainQPS = 0.5
	}
	if c.RenderMinHTMLBytes <= 0 {
		c.RenderMinHTMLBytes = 2000
	}
	return c
}
