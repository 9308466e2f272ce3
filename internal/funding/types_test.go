package funding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want Classification
	}{
		{raw: "AI", want: ClassAI},
		{raw: "AI SaaS", want: ClassAISaaS},
		{raw: " Fintech ", want: ClassFintech},
		{raw: "Investment Firm", want: ClassInvestmentFirm},
		{raw: "SaaS Company", want: ClassOther},
		{raw: "ai", want: ClassOther},
		{raw: "", want: ClassOther},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ParseClassification(tc.raw), "raw %q", tc.raw)
	}
}

func TestClassificationValid(t *testing.T) {
	t.Parallel()

	require.True(t, ClassWeb3.Valid())
	require.True(t, ClassOther.Valid())
	require.False(t, Classification("Crypto").Valid())
}

func TestRecordRowOrder(t *testing.T) {
	t.Parallel()

	rec := Record{
		CompanyName:       "Acme Robotics",
		CEOEmail:          "jane@acme.dev",
		CMOEmail:          SentinelEmailNotFound,
		LeadInvestor:      "Sequoia Capital",
		FollowOnInvestors: []string{"a16z", "Index Ventures"},
		AmountRaised:      "$50 million",
		Classification:    "AI",
		IsScam:            false,
		Confidence:        90,
	}
	at := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)

	row := rec.Row(at)
	require.Equal(t, []string{
		"Acme Robotics",
		"jane@acme.dev",
		SentinelEmailNotFound,
		"Sequoia Capital",
		"a16z, Index Ventures",
		"$50 million",
		"AI",
		"",
		"2025-03-10T12:30:00Z",
	}, row)
}

func TestRecordRowScamMarker(t *testing.T) {
	t.Parallel()

	rec := Record{CompanyName: "Shady Coin", IsScam: true}
	row := rec.Row(time.Now())
	require.Equal(t, ScamMarker, row[7])
}

func TestRecordRowTimestampUTC(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	at := time.Date(2025, 3, 10, 8, 30, 0, 0, loc)

	row := Record{}.Row(at)
	require.Equal(t, "2025-03-10T12:30:00Z", row[8])
}

func TestRecordFailed(t *testing.T) {
	t.Parallel()

	require.False(t, Record{CompanyName: "Acme"}.Failed())
	require.True(t, Record{ExtractionErrors: []string{"Article not found (404)"}}.Failed())
}
