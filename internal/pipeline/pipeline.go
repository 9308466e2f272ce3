// Package pipeline composes acquisition, extraction, contact resolution,
// and assembly under a bounded retry loop.
package pipeline

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fundwire/extractor/internal/funding"
	"github.com/fundwire/extractor/internal/metrics"
)

// Config controls retry behavior.
type Config struct {
	// MaxAttempts is the total number of full-sequence attempts.
	MaxAttempts int
	// RetryDelay is the fixed pause between attempts.
	RetryDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 3 * time.Second
	}
	return c
}

// Pipeline is the outward-facing entry point of the extraction core. Run
// never fails: exhaustion after the final attempt yields a complete
// sentinel record instead of an error.
type Pipeline struct {
	acquirer  funding.Acquirer
	extractor funding.Extractor
	resolver  funding.Resolver
	archive   funding.BlobStore
	clock     funding.Clock
	cfg       Config
	logger    *zap.Logger
}

// New constructs a Pipeline. archive may be nil to skip raw-content
// archival.
func New(
	acquirer funding.Acquirer,
	extractor funding.Extractor,
	resolver funding.Resolver,
	archive funding.BlobStore,
	clock funding.Clock,
	cfg Config,
	logger *zap.Logger,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = utcClock{}
	}
	return &Pipeline{
		acquirer:  acquirer,
		extractor: extractor,
		resolver:  resolver,
		archive:   archive,
		clock:     clock,
		cfg:       cfg.withDefaults(),
		logger:    logger,
	}
}

// Run executes the full sequence for url, re-running it from the start on
// any acquisition or extraction failure, up to the attempt budget. There
// is no partial resume.
func (p *Pipeline) Run(ctx context.Context, url string) funding.Record {
	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := p.wait(ctx); err != nil {
				lastErr = err
				break
			}
		}

		record, err := p.runOnce(ctx, url, attempt)
		if err == nil {
			metrics.ObserveExtraction("success", attempt)
			return record
		}
		lastErr = err
		p.logger.Warn("pipeline attempt failed",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", p.cfg.MaxAttempts),
			zap.Error(err))
	}

	metrics.ObserveExtraction("failed", p.cfg.MaxAttempts)
	p.logger.Error("pipeline exhausted",
		zap.String("url", url), zap.Error(lastErr))
	return TerminalRecord(errorMessage(lastErr))
}

func (p *Pipeline) runOnce(ctx context.Context, url string, attempt int) (funding.Record, error) {
	content, err := p.acquirer.Acquire(ctx, url)
	if err != nil {
		metrics.ObserveStageFailure("acquire")
		return funding.Record{}, fmt.Errorf("acquire: %w", err)
	}
	metrics.ObserveAcquisition(string(content.Method))
	p.archiveContent(ctx, url, attempt, content)

	fields, err := p.extractor.Extract(ctx, content.Text, url)
	if err != nil {
		metrics.ObserveStageFailure("extract")
		return funding.Record{}, fmt.Errorf("extract: %w", err)
	}

	// The resolver never fails; unresolved roles come back empty.
	contacts := p.resolver.Resolve(ctx, fields.CompanyName)

	return Assemble(fields, contacts), nil
}

// archiveContent stores the acquired text for later re-extraction audits.
// Best effort: archive failures never disturb the pipeline.
func (p *Pipeline) archiveContent(ctx context.Context, url string, attempt int, content funding.AcquiredContent) {
	if p.archive == nil {
		return
	}
	path := archivePath(url, p.clock.Now(), attempt)
	uri, err := p.archive.PutObject(ctx, path, "text/plain; charset=utf-8", []byte(content.Text))
	if err != nil {
		p.logger.Warn("content archive failed",
			zap.String("url", url), zap.Error(err))
		return
	}
	p.logger.Debug("content archived",
		zap.String("url", url),
		zap.String("uri", uri),
		zap.String("method", string(content.Method)))
}

// wait pauses between attempts without spinning, respecting cancellation.
func (p *Pipeline) wait(ctx context.Context) error {
	timer := time.NewTimer(p.cfg.RetryDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("retry wait canceled: %w", ctx.Err())
	}
}

// errorMessage extracts the human-readable reason carried by the typed
// stage errors, falling back to the raw error text.
func errorMessage(err error) string {
	if err == nil {
		return "unknown failure"
	}
	if fe, ok := funding.AsFetchError(err); ok {
		return fe.Message
	}
	if le, ok := funding.AsLLMError(err); ok {
		return le.Message
	}
	return err.Error()
}

type utcClock struct{}

func (utcClock) Now() time.Time { return time.Now().UTC() }

func archivePath(url string, at time.Time, attempt int) string {
	sum := sha1.Sum([]byte(url))
	return fmt.Sprintf("%s/%s-a%d.txt",
		hex.EncodeToString(sum[:])[:16],
		at.UTC().Format("20060102T150405"),
		attempt)
}
