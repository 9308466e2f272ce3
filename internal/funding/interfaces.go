package funding

import (
	"context"
	"time"
)

// Acquirer fetches and normalizes press-release text for a URL.
type Acquirer interface {
	Acquire(ctx context.Context, url string) (AcquiredContent, error)
}

// Extractor turns acquired text into structured funding fields.
type Extractor interface {
	Extract(ctx context.Context, text, url string) (Fields, error)
}

// Resolver looks up executive contact emails for a company name. It never
// fails; unresolvable roles come back empty.
type Resolver interface {
	Resolve(ctx context.Context, companyName string) Contacts
}

// Generator is the text-generation capability behind the extractor.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Directory is the people search-and-enrichment capability behind the
// resolver.
type Directory interface {
	SearchByOrgAndTitles(ctx context.Context, org string, titles []string) ([]ExecutiveCandidate, error)
	// Enrich returns a verified email, or "" when the service has none.
	Enrich(ctx context.Context, firstName, lastName, org string) (string, error)
}

// RowSink appends one record row to the persistence collaborator.
type RowSink interface {
	Append(ctx context.Context, rec Record, at time.Time) error
}

// BlobStore archives raw artifacts and returns a URI.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

// Publisher pushes completion events to Pub/Sub (or similar).
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces submission IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}
