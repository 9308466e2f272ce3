// Package memory provides an in-memory record sink for local development
// and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fundwire/extractor/internal/funding"
)

// Row is one appended record with its timestamp.
type Row struct {
	Record funding.Record
	At     time.Time
}

// Sink collects appended rows in memory.
type Sink struct {
	mu   sync.Mutex
	rows []Row
}

// New constructs an empty Sink.
func New() *Sink {
	return &Sink{}
}

// Append stores the record.
func (s *Sink) Append(_ context.Context, rec funding.Record, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, Row{Record: rec, At: at})
	return nil
}

// Rows returns a copy of everything appended so far.
func (s *Sink) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}
