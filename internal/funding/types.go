// Package funding defines core types shared across subsystems.
package funding

import (
	"strings"
	"time"
)

// Display sentinels written at the serialization boundary. Internal stages
// use empty strings for absent values; only Record carries sentinels.
const (
	SentinelNotFound         = "NOT FOUND"
	SentinelExtractionFailed = "EXTRACTION FAILED"
	SentinelEmailNotFound    = "EMAIL NOT FOUND"
	ClassificationUnknown    = "UNKNOWN"
)

// ScamMarker is the value written to the scam column when a record is
// flagged as fraudulent. The column is blank otherwise.
const ScamMarker = "POSSIBLE SCAM"

// Classification is the closed set of company categories the extractor
// may assign.
type Classification string

// Classification values.
const (
	ClassWeb3           Classification = "Web3"
	ClassAI             Classification = "AI"
	ClassAISaaS         Classification = "AI SaaS"
	ClassSaaS           Classification = "SaaS"
	ClassSoftware       Classification = "Software"
	ClassFintech        Classification = "Fintech"
	ClassBiotech        Classification = "Biotech"
	ClassCleanTech      Classification = "CleanTech"
	ClassInvestmentFirm Classification = "Investment Firm"
	ClassOther          Classification = "Other"
)

var classifications = map[Classification]struct{}{
	ClassWeb3:           {},
	ClassAI:             {},
	ClassAISaaS:         {},
	ClassSaaS:           {},
	ClassSoftware:       {},
	ClassFintech:        {},
	ClassBiotech:        {},
	ClassCleanTech:      {},
	ClassInvestmentFirm: {},
	ClassOther:          {},
}

// ParseClassification maps a raw string onto the closed enum, defaulting
// to ClassOther for anything outside it.
func ParseClassification(raw string) Classification {
	c := Classification(strings.TrimSpace(raw))
	if _, ok := classifications[c]; ok {
		return c
	}
	return ClassOther
}

// Valid reports whether c is a member of the closed enum.
func (c Classification) Valid() bool {
	_, ok := classifications[c]
	return ok
}

// AcquisitionMethod tags how the content for a URL was obtained.
type AcquisitionMethod string

// Acquisition method values.
const (
	MethodDirectFetch  AcquisitionMethod = "direct-fetch"
	MethodRendered     AcquisitionMethod = "rendered"
	MethodURLHeuristic AcquisitionMethod = "url-heuristic"
)

// AcquiredContent is the normalized output of the acquisition stage.
type AcquiredContent struct {
	Text   string
	Method AcquisitionMethod
	Title  string
}

// Fields is the intermediate structured output of the extraction stage.
// Absent string fields are empty; the assembler substitutes sentinels.
type Fields struct {
	CompanyName       string
	LeadInvestor      string
	FollowOnInvestors []string
	AmountRaised      string
	Classification    Classification
	IsScam            bool
	Confidence        int
}

// ExecutiveCandidate is one person returned by the people directory.
type ExecutiveCandidate struct {
	FirstName  string
	LastName   string
	Title      string
	MatchScore int
}

// Contacts holds the resolver's output. Empty string means the role could
// not be resolved to a verified email.
type Contacts struct {
	CEOEmail string
	CMOEmail string
}

// Record is the final output of one pipeline run. It is created once per
// submitted URL, is immutable after creation, and carries display
// sentinels for every absent field.
type Record struct {
	CompanyName       string   `json:"company_name"`
	CEOEmail          string   `json:"ceo_email"`
	CMOEmail          string   `json:"cmo_email"`
	LeadInvestor      string   `json:"lead_investor"`
	FollowOnInvestors []string `json:"follow_on_investors"`
	AmountRaised      string   `json:"amount_raised"`
	Classification    string   `json:"classification"`
	IsScam            bool     `json:"is_scam"`
	Confidence        int      `json:"confidence"`
	ExtractionErrors  []string `json:"extraction_errors"`
}

// Failed reports whether the record is a terminal-failure sentinel.
func (r Record) Failed() bool {
	return len(r.ExtractionErrors) > 0
}

// Row renders the record in the persistence column order: company, CEO
// email, CMO email, lead investor, follow-on investors, amount,
// classification, scam marker, timestamp.
func (r Record) Row(at time.Time) []string {
	scam := ""
	if r.IsScam {
		scam = ScamMarker
	}
	return []string{
		r.CompanyName,
		r.CEOEmail,
		r.CMOEmail,
		r.LeadInvestor,
		strings.Join(r.FollowOnInvestors, ", "),
		r.AmountRaised,
		r.Classification,
		scam,
		at.UTC().Format(time.RFC3339),
	}
}

// Submission tracks one accepted URL through the fire-and-forget boundary.
type Submission struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Submitted time.Time `json:"submitted_at"`
}

// CompletionEvent is published after a record has been appended to the sink.
type CompletionEvent struct {
	SubmissionID string    `json:"submission_id"`
	URL          string    `json:"url"`
	CompanyName  string    `json:"company_name"`
	Failed       bool      `json:"failed"`
	CompletedAt  time.Time `json:"completed_at"`
}
