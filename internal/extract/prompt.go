package extract

import (
	"fmt"
	"strings"
)

// maxPromptChars caps how much acquired text gets embedded in the prompt.
const maxPromptChars = 8000

const truncationMarker = "\n[content truncated]"

const promptTemplate = `You are a financial news analyst. Extract structured data about a funding announcement from the press release below.

Source URL: %s

Press release:
"""
%s
"""

Return exactly one JSON object and nothing else, matching this schema:
{"companyName": string, "leadInvestor": string, "followOnInvestors": [string, ...], "amountRaised": string, "classification": string, "isScam": boolean, "confidence": number}

Rules:
- companyName is the company that raised the funds, never one of its investors.
- If the text is too ambiguous to name the company, derive the company name from the URL.
- Normalize amountRaised to the form "$<number><M|B>", e.g. "$12M" or "$1.2B".
- leadInvestor is the investor leading the round; followOnInvestors lists participating investors only, not the lead.
- classification must be one of: Web3, AI, AI SaaS, SaaS, Software, Fintech, Biotech, CleanTech, Investment Firm, Other.
- Set isScam to true only when the announcement is clearly fraudulent.
- confidence is an integer from 0 to 100 rating the extraction overall.`

// buildPrompt assembles the deterministic extraction prompt, truncating the
// text at the character budget with an explicit marker.
func buildPrompt(text, url string) string {
	text = strings.TrimSpace(text)
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars] + truncationMarker
	}
	return fmt.Sprintf(promptTemplate, url, text)
}
