package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ganbold/flaming-cliffs/backend/internal/domain"
)

// VisitorStatsRepo persists the per-day visitor_stats cache rows.
//
// The table is a derived cache of the aggregation engine's daily output,
// never a source of truth: writers follow read-modify-write and a lost
// update between two concurrent creates touching the same day is tolerated.
// The rollup job reconciles the table from registrations.
type VisitorStatsRepo interface {
	// GetOrCreateDay returns the row for the given calendar day, lazily
	// inserting an all-zero row the first time the day is touched.
	GetOrCreateDay(ctx context.Context, day time.Time) (domain.VisitorStats, error)

	// UpsertDay writes the full row for stats.Date, inserting or
	// overwriting. The totals invariants are recomputed on write so a row
	// can never be stored with totals out of sync with its buckets.
	UpsertDay(ctx context.Context, stats domain.VisitorStats) (domain.VisitorStats, error)
}

// pgVisitorStatsRepo is the Postgres implementation of VisitorStatsRepo.
type pgVisitorStatsRepo struct {
	db db
}

// NewVisitorStatsRepo constructs a VisitorStatsRepo backed by the provided db
// connection.
func NewVisitorStatsRepo(db db) VisitorStatsRepo {
	return &pgVisitorStatsRepo{db: db}
}

const visitorStatsColumns = `
	date, domestic_visitors, international_visitors, total_visitors,
	domestic_revenue, international_revenue, total_revenue,
	hourly_breakdown, created_at, updated_at`

// GetOrCreateDay lazily creates the day row. The DO UPDATE no-op on conflict
// makes RETURNING yield the row in both the insert and the already-exists
// case.
func (r *pgVisitorStatsRepo) GetOrCreateDay(ctx context.Context, day time.Time) (domain.VisitorStats, error) {
	const q = `
		INSERT INTO visitor_stats (date)
		VALUES (@date)
		ON CONFLICT (date) DO UPDATE SET date = EXCLUDED.date
		RETURNING` + visitorStatsColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"date": day})
	result, err := scanVisitorStats(row)
	if err != nil {
		return domain.VisitorStats{}, fmt.Errorf("repo.VisitorStatsRepo.GetOrCreateDay: %w", err)
	}
	return result, nil
}

// UpsertDay writes the full row, recomputing the total columns from the
// domestic/international buckets.
func (r *pgVisitorStatsRepo) UpsertDay(ctx context.Context, stats domain.VisitorStats) (domain.VisitorStats, error) {
	const q = `
		INSERT INTO visitor_stats (
			date, domestic_visitors, international_visitors, total_visitors,
			domestic_revenue, international_revenue, total_revenue, hourly_breakdown)
		VALUES (
			@date, @domestic_visitors, @international_visitors,
			@domestic_visitors + @international_visitors,
			@domestic_revenue, @international_revenue,
			@domestic_revenue + @international_revenue,
			@hourly_breakdown)
		ON CONFLICT (date) DO UPDATE SET
			domestic_visitors      = EXCLUDED.domestic_visitors,
			international_visitors = EXCLUDED.international_visitors,
			total_visitors         = EXCLUDED.total_visitors,
			domestic_revenue       = EXCLUDED.domestic_revenue,
			international_revenue  = EXCLUDED.international_revenue,
			total_revenue          = EXCLUDED.total_revenue,
			hourly_breakdown       = EXCLUDED.hourly_breakdown,
			updated_at             = now()
		RETURNING` + visitorStatsColumns

	hourly, err := json.Marshal(normalizedHourly(stats.HourlyBreakdown))
	if err != nil {
		return domain.VisitorStats{}, fmt.Errorf("repo.VisitorStatsRepo.UpsertDay: marshal hourly_breakdown: %w", err)
	}

	args := pgx.NamedArgs{
		"date":                   stats.Date,
		"domestic_visitors":      stats.DomesticVisitors,
		"international_visitors": stats.InternationalVisitors,
		"domestic_revenue":       stats.DomesticRevenue,
		"international_revenue":  stats.InternationalRevenue,
		"hourly_breakdown":       hourly,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanVisitorStats(row)
	if err != nil {
		return domain.VisitorStats{}, fmt.Errorf("repo.VisitorStatsRepo.UpsertDay: %w", err)
	}
	return result, nil
}

// normalizedHourly never lets a nil slice reach the jsonb column; the column
// holds [] rather than null for days without hourly data.
func normalizedHourly(entries []domain.HourlyEntry) []domain.HourlyEntry {
	if entries == nil {
		return []domain.HourlyEntry{}
	}
	return entries
}

// scanVisitorStats maps a single database row into a domain.VisitorStats.
func scanVisitorStats(s scanner) (domain.VisitorStats, error) {
	var (
		stats  domain.VisitorStats
		hourly []byte
	)

	err := s.Scan(
		&stats.Date, &stats.DomesticVisitors, &stats.InternationalVisitors, &stats.TotalVisitors,
		&stats.DomesticRevenue, &stats.InternationalRevenue, &stats.TotalRevenue,
		&hourly, &stats.CreatedAt, &stats.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.VisitorStats{}, domain.ErrNotFound
		}
		return domain.VisitorStats{}, err
	}

	if len(hourly) > 0 {
		if err := json.Unmarshal(hourly, &stats.HourlyBreakdown); err != nil {
			return domain.VisitorStats{}, fmt.Errorf("decode hourly_breakdown: %w", err)
		}
	}
	return stats, nil
}
