// Package extract turns acquired press-release text into structured
// funding fields via a single text-generation call.
package extract

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fundwire/extractor/internal/funding"
)

// Extractor builds the extraction prompt and parses the generation output.
// It issues exactly one generation call per invocation; retrying is the
// orchestrator's job.
type Extractor struct {
	generator funding.Generator
	logger    *zap.Logger
}

// New constructs an Extractor over the given generation capability.
func New(generator funding.Generator, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		generator: generator,
		logger:    logger,
	}
}

// Extract sends the text to the generation service and parses the fixed
// schema from its response.
func (e *Extractor) Extract(ctx context.Context, text, url string) (funding.Fields, error) {
	prompt := buildPrompt(text, url)

	raw, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return funding.Fields{}, &funding.LLMError{
			Kind:    funding.LLMInvalidResponse,
			Message: "generation call failed",
			Err:     err,
		}
	}
	if strings.TrimSpace(raw) == "" {
		return funding.Fields{}, &funding.LLMError{
			Kind:    funding.LLMInvalidResponse,
			Message: "generation service returned an empty response",
		}
	}

	fields, err := parseFields(raw)
	if err != nil {
		return funding.Fields{}, err
	}

	e.logger.Debug("extraction parsed",
		zap.String("url", url),
		zap.String("company", fields.CompanyName),
		zap.Int("confidence", fields.Confidence))
	return fields, nil
}
