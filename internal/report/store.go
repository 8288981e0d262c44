// Package report delivers completed comparison reports to the external
// storage and reporting collaborators: a PostgreSQL run-history store, a
// Kafka topic for downstream consumers, and a Redis cache keyed by
// dataset identity.
package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/internal/comparator"
	pkgerrors "github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/resilience"
)

// Store persists comparison reports in PostgreSQL.
type Store struct {
	db     *postgres.Client
	logger *slog.Logger
}

// NewStore creates a run-history store.
func NewStore(db *postgres.Client) *Store {
	return &Store{
		db:     db,
		logger: logger.WithComponent("report-store"),
	}
}

// EnsureSchema creates the comparison_runs table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS comparison_runs (
			id               BIGSERIAL PRIMARY KEY,
			dataset_checksum TEXT NOT NULL,
			gap_codec        TEXT NOT NULL,
			frequency_codec  TEXT NOT NULL,
			report           JSONB NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("creating comparison_runs table: %w", err)
	}
	return nil
}

// Save persists a report, retrying transient failures.
func (s *Store) Save(ctx context.Context, r *comparator.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	err = resilience.Retry(ctx, "report-store-save", resilience.RetryConfig{}, func() error {
		_, execErr := s.db.DB.ExecContext(ctx,
			`INSERT INTO comparison_runs (dataset_checksum, gap_codec, frequency_codec, report, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			r.DatasetChecksum, r.Gaps.Codec, r.Frequencies.Codec, data, r.CreatedAt,
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("saving comparison run: %w", err)
	}

	s.logger.Info("comparison run saved",
		"dataset_checksum", r.DatasetChecksum,
		"gap_codec", r.Gaps.Codec,
		"frequency_codec", r.Frequencies.Codec,
		"total_bits", r.TotalBits,
	)
	return nil
}

// Latest loads the most recent run. Returns ErrRunNotFound when the
// history is empty.
func (s *Store) Latest(ctx context.Context) (*comparator.Report, error) {
	var data []byte
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT report FROM comparison_runs ORDER BY created_at DESC LIMIT 1`,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, pkgerrors.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest run: %w", err)
	}

	var r comparator.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshaling run: %w", err)
	}
	return &r, nil
}

// List returns the last N runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]comparator.Report, error) {
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT report FROM comparison_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var reports []comparator.Report
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		var r comparator.Report
		if err := json.Unmarshal(data, &r); err != nil {
			s.logger.Warn("skipping corrupt run row", "error", err)
			continue
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// PruneOlderThan removes runs older than the cutoff and returns the
// number deleted.
func (s *Store) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.DB.ExecContext(ctx,
		`DELETE FROM comparison_runs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
