package pipeline

import "github.com/fundwire/extractor/internal/funding"

// Assemble merges extracted fields and resolved contacts into the final
// record. Pure function: display sentinels are substituted for absent
// values here and nowhere upstream.
func Assemble(fields funding.Fields, contacts funding.Contacts) funding.Record {
	followOn := make([]string, len(fields.FollowOnInvestors))
	copy(followOn, fields.FollowOnInvestors)

	return funding.Record{
		CompanyName:       orSentinel(fields.CompanyName, funding.SentinelNotFound),
		CEOEmail:          orSentinel(contacts.CEOEmail, funding.SentinelEmailNotFound),
		CMOEmail:          orSentinel(contacts.CMOEmail, funding.SentinelEmailNotFound),
		LeadInvestor:      orSentinel(fields.LeadInvestor, funding.SentinelNotFound),
		FollowOnInvestors: followOn,
		AmountRaised:      orSentinel(fields.AmountRaised, funding.SentinelNotFound),
		Classification:    string(fields.Classification),
		IsScam:            fields.IsScam,
		Confidence:        fields.Confidence,
		ExtractionErrors:  []string{},
	}
}

// TerminalRecord is the sentinel record returned after every attempt has
// failed. lastError becomes the sole extraction diagnostic.
func TerminalRecord(lastError string) funding.Record {
	return funding.Record{
		CompanyName:       funding.SentinelExtractionFailed,
		CEOEmail:          funding.SentinelEmailNotFound,
		CMOEmail:          funding.SentinelEmailNotFound,
		LeadInvestor:      funding.SentinelExtractionFailed,
		FollowOnInvestors: []string{},
		AmountRaised:      funding.SentinelExtractionFailed,
		Classification:    funding.ClassificationUnknown,
		IsScam:            false,
		Confidence:        0,
		ExtractionErrors:  []string{lastError},
	}
}

func orSentinel(value, sentinel string) string {
	if value == "" {
		return sentinel
	}
	return value
}
