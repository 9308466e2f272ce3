// Package csvfile implements a local CSV record sink for development runs.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fundwire/extractor/internal/funding"
)

var header = []string{
	"company", "ceo_email", "cmo_email", "lead_investor",
	"follow_on_investors", "amount", "classification", "scam", "timestamp",
}

// Sink appends record rows to a CSV file, writing the header on creation.
type Sink struct {
	mu   sync.Mutex
	path string
}

// New creates the file (and its directory) if needed and writes the header
// for a fresh file.
func New(path string) (*Sink, error) {
	if path == "" {
		return nil, fmt.Errorf("csv sink path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create sink directory: %w", err)
		}
	}
	info, err := os.Stat(path)
	fresh := err != nil || info.Size() == 0
	s := &Sink{path: path}
	if fresh {
		if err := s.writeRow(header); err != nil {
			return nil, fmt.Errorf("write csv header: %w", err)
		}
	}
	return s, nil
}

// Append writes one record row in the canonical column order.
func (s *Sink) Append(_ context.Context, rec funding.Record, at time.Time) error {
	return s.writeRow(rec.Row(at))
}

func (s *Sink) writeRow(row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return fmt.Errorf("open csv sink: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		_ = f.Close()
		return fmt.Errorf("write csv row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush csv row: %w", err)
	}
	return f.Close()
}
