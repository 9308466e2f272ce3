// Package postgres provides a Postgres-backed record sink.
package postgres

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fundwire/extractor/internal/funding"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the Postgres connection pool used for record rows.
type Config struct {
	DSN             string        `mapstructure:"dsn"`
	Table           string        `mapstructure:"table"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// Sink appends one row per extracted record into Postgres.
type Sink struct {
	pool  execCloser
	table string
}

// New creates a Postgres-backed Sink using the provided config.
func New(ctx context.Context, cfg Config) (*Sink, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("sink.postgres.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "funding_records"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Sink{pool: pool, table: table}, nil
}

// NewWithPool constructs a Sink from an existing pool (primarily for testing).
func NewWithPool(pool execCloser, table string) (*Sink, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "funding_records"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Sink{pool: pool, table: table}, nil
}

// Close releases the underlying pool resources.
func (s *Sink) Close() {
	s.pool.Close()
}

// Append inserts the record in the canonical column order.
func (s *Sink) Append(ctx context.Context, rec funding.Record, at time.Time) error {
	scam := ""
	if rec.IsScam {
		scam = funding.ScamMarker
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (
			company_name, ceo_email, cmo_email, lead_investor,
			follow_on_investors, amount_raised, classification,
			scam_marker, confidence, extraction_errors, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, s.table)

	_, err := s.pool.Exec(ctx, query,
		rec.CompanyName,
		rec.CEOEmail,
		rec.CMOEmail,
		rec.LeadInvestor,
		strings.Join(rec.FollowOnInvestors, ", "),
		rec.AmountRaised,
		rec.Classification,
		scam,
		rec.Confidence,
		strings.Join(rec.ExtractionErrors, "; "),
		at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert funding record: %w", err)
	}
	return nil
}
