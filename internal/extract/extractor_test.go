package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fundwire/extractor/internal/funding"
)

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

const validResponse = `{"companyName":"Acme Inc","leadInvestor":"Acme Ventures","followOnInvestors":["Beta Capital"],"amountRaised":"$12M","classification":"SaaS","isScam":false,"confidence":85}`

func TestExtractor_ValidResponse(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{response: validResponse}
	e := New(gen, zap.NewNop())

	fields, err := e.Extract(context.Background(), "Acme raised money.", "https://example.com/acme")
	require.NoError(t, err)
	require.Equal(t, "Acme Inc", fields.CompanyName)
	require.Equal(t, "Acme Ventures", fields.LeadInvestor)
	require.Equal(t, []string{"Beta Capital"}, fields.FollowOnInvestors)
	require.Equal(t, "$12M", fields.AmountRaised)
	require.Equal(t, funding.ClassSaaS, fields.Classification)
	require.False(t, fields.IsScam)
	require.Equal(t, 85, fields.Confidence)
}

func TestExtractor_SingleGenerationCall(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{response: "garbage, not json"}
	e := New(gen, zap.NewNop())

	_, err := e.Extract(context.Background(), "text", "https://example.com")
	require.Error(t, err)
	require.Len(t, gen.prompts, 1)
}

func TestExtractor_ParseFailureCarriesRaw(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{response: "I could not find any funding data."}
	e := New(gen, zap.NewNop())

	_, err := e.Extract(context.Background(), "text", "https://example.com")
	le, ok := funding.AsLLMError(err)
	require.True(t, ok)
	require.Equal(t, funding.LLMParseFailure, le.Kind)
	require.Equal(t, "I could not find any funding data.", le.Raw)
}

func TestExtractor_GenerationErrorIsInvalidResponse(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{err: errors.New("upstream 503")}
	e := New(gen, zap.NewNop())

	_, err := e.Extract(context.Background(), "text", "https://example.com")
	le, ok := funding.AsLLMError(err)
	require.True(t, ok)
	require.Equal(t, funding.LLMInvalidResponse, le.Kind)
}

func TestExtractor_FencedJSONAccepted(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{response: "```json\n" + validResponse + "\n```"}
	e := New(gen, zap.NewNop())

	fields, err := e.Extract(context.Background(), "text", "https://example.com")
	require.NoError(t, err)
	require.Equal(t, "Acme Inc", fields.CompanyName)
}

func TestExtractor_RepairableJSONAccepted(t *testing.T) {
	t.Parallel()

	// Single quotes and a trailing comma: invalid strict JSON, repairable.
	gen := &fakeGenerator{response: `{'companyName': 'Acme Inc', 'confidence': 85,}`}
	e := New(gen, zap.NewNop())

	fields, err := e.Extract(context.Background(), "text", "https://example.com")
	require.NoError(t, err)
	require.Equal(t, "Acme Inc", fields.CompanyName)
	require.Equal(t, 85, fields.Confidence)
}

func TestExtractor_PromptEmbedsURLAndTruncates(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{response: validResponse}
	e := New(gen, zap.NewNop())

	long := strings.Repeat("funding news ", 1200) // well past the budget
	_, err := e.Extract(context.Background(), long, "https://example.com/acme")
	require.NoError(t, err)

	prompt := gen.prompts[0]
	require.Contains(t, prompt, "https://example.com/acme")
	require.Contains(t, prompt, truncationMarker)
	require.Less(t, len(prompt), len(long))
}

func TestSanitize_Defaults(t *testing.T) {
	t.Parallel()

	fields, err := parseFields(`{"followOnInvestors":"not a list","classification":"SaaS Company","isScam":"yes","confidence":"high"}`)
	require.NoError(t, err)

	require.Empty(t, fields.CompanyName)
	require.Empty(t, fields.LeadInvestor)
	require.Empty(t, fields.FollowOnInvestors)
	require.Equal(t, funding.ClassOther, fields.Classification)
	require.False(t, fields.IsScam)
	require.Zero(t, fields.Confidence)
}

func TestSanitize_ConfidenceClamped(t *testing.T) {
	t.Parallel()

	fields, err := parseFields(`{"confidence":150}`)
	require.NoError(t, err)
	require.Equal(t, 100, fields.Confidence)

	fields, err = parseFields(`{"confidence":-3}`)
	require.NoError(t, err)
	require.Zero(t, fields.Confidence)
}
