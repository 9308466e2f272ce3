package extract

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/fundwire/extractor/internal/funding"
)

// rawSchema mirrors the generation schema with loose field types; every
// value is coerced during sanitization.
type rawSchema struct {
	CompanyName       any `json:"companyName"`
	LeadInvestor      any `json:"leadInvestor"`
	FollowOnInvestors any `json:"followOnInvestors"`
	AmountRaised      any `json:"amountRaised"`
	Classification    any `json:"classification"`
	IsScam            any `json:"isScam"`
	Confidence        any `json:"confidence"`
}

// parseFields parses the generation output into sanitized fields. The raw
// text travels with any parse failure for diagnostics.
func parseFields(raw string) (funding.Fields, error) {
	candidate := isolateJSON(raw)
	if candidate == "" {
		return funding.Fields{}, &funding.LLMError{
			Kind:    funding.LLMParseFailure,
			Message: "generation response contained no JSON object",
			Raw:     raw,
		}
	}

	var schema rawSchema
	if err := json.Unmarshal([]byte(candidate), &schema); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(candidate)
		if repairErr != nil {
			return funding.Fields{}, &funding.LLMError{
				Kind:    funding.LLMParseFailure,
				Message: "generation response was not valid JSON",
				Raw:     raw,
				Err:     err,
			}
		}
		if err := json.Unmarshal([]byte(repaired), &schema); err != nil {
			return funding.Fields{}, &funding.LLMError{
				Kind:    funding.LLMParseFailure,
				Message: "generation response was not valid JSON",
				Raw:     raw,
				Err:     err,
			}
		}
	}

	return sanitize(schema), nil
}

// isolateJSON trims markdown fences and anything outside the outermost
// object braces. Generation services routinely wrap the object in prose.
func isolateJSON(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// sanitize coerces the loose schema onto typed fields. Absent values stay
// empty here; display sentinels belong to the assembler.
func sanitize(s rawSchema) funding.Fields {
	return funding.Fields{
		CompanyName:       asString(s.CompanyName),
		LeadInvestor:      asString(s.LeadInvestor),
		FollowOnInvestors: asStringList(s.FollowOnInvestors),
		AmountRaised:      asString(s.AmountRaised),
		Classification:    funding.ParseClassification(asString(s.Classification)),
		IsScam:            asBool(s.IsScam),
		Confidence:        asConfidence(s.Confidence),
	}
}

func asString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func asStringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := asString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	default:
		return false
	}
}

// asConfidence coerces to an integer clamped to [0,100], defaulting to 0.
func asConfidence(v any) int {
	var n int
	switch c := v.(type) {
	case float64:
		n = int(c)
	case string:
		var f float64
		if err := json.Unmarshal([]byte(strings.TrimSpace(c)), &f); err != nil {
			return 0
		}
		n = int(f)
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
