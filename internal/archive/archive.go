// Package archive persists generated reports in SQLite so they can be listed
// and re-rendered later.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/common"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/report"
)

// ErrInvalidReport is returned when a report cannot be archived.
var ErrInvalidReport = errors.New("invalid report")

// Entry is the listing view of an archived report.
type Entry struct {
	GeneratedAt   time.Time
	PeriodStart   time.Time
	PeriodEnd     time.Time
	ID            string
	RequestID     string
	UserID        string
	Title         string
	Format        string
	Timeframe     string
	SectionCount  int
	FallbackCount int
}

// Store is a SQLite-backed report archive.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the archive at path and applies migrations. Use
// ":memory:" for a throwaway archive.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: archive path is empty", common.ErrMissingConfig)
	}

	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	// A single connection keeps ":memory:" databases alive and avoids writer contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping archive: %w", err)
	}

	s := &Store{db: db}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save archives r, replacing any report with the same ID.
func (s *Store) Save(ctx context.Context, r *report.Report) error {
	if r == nil {
		return fmt.Errorf("%w: nil report", ErrInvalidReport)
	}
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidReport)
	}
	if strings.TrimSpace(r.UserID) == "" {
		return fmt.Errorf("%w: missing user", ErrInvalidReport)
	}

	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (
			id, request_id, user_id, title, format, timeframe,
			period_start, period_end, generated_at, body,
			section_count, fallback_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			request_id = excluded.request_id,
			user_id = excluded.user_id,
			title = excluded.title,
			format = excluded.format,
			timeframe = excluded.timeframe,
			period_start = excluded.period_start,
			period_end = excluded.period_end,
			generated_at = excluded.generated_at,
			body = excluded.body,
			section_count = excluded.section_count,
			fallback_count = excluded.fallback_count`,
		r.ID, r.RequestID, r.UserID, r.Title, r.Format, r.Period.Timeframe,
		r.Period.StartDate.UTC(), r.Period.EndDate.UTC(), r.Generated.UTC(), string(body),
		len(r.Sections), r.FallbackCount(),
	)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", r.ID, err)
	}
	return nil
}

// Get returns the archived report with the given ID, or common.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*report.Report, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM reports WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report %s: %w", id, err)
	}

	var r report.Report
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	return &r, nil
}

// ListByUser returns the user's archived reports, newest first. limit <= 0
// returns all of them.
func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error) {
	query := `
		SELECT id, request_id, user_id, title, format, timeframe,
			period_start, period_end, generated_at, section_count, fallback_count
		FROM reports
		WHERE user_id = ?
		ORDER BY generated_at DESC, id`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.RequestID, &e.UserID, &e.Title, &e.Format, &e.Timeframe,
			&e.PeriodStart, &e.PeriodEnd, &e.GeneratedAt, &e.SectionCount, &e.FallbackCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return entries, nil
}

// Delete removes an archived report. Deleting a missing report returns common.ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete report %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("report %s: %w", id, common.ErrNotFound)
	}
	return nil
}
