package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ganbold/flaming-cliffs/backend/internal/domain"
	"github.com/ganbold/flaming-cliffs/backend/internal/repo"
	"github.com/ganbold/flaming-cliffs/backend/internal/stats"
)

// RollupService reconciles the visitor_stats cache table from the
// registrations source of truth. The per-request increments are additive and
// unguarded, so two concurrent creates can lose one update; the nightly
// rollup recomputes recent days wholesale and repairs any drift.
type RollupService struct {
	regs repo.RegistrationRepo
	days repo.VisitorStatsRepo
	loc  *time.Location
}

// NewRollupService constructs a RollupService.
func NewRollupService(regs repo.RegistrationRepo, days repo.VisitorStatsRepo, loc *time.Location) *RollupService {
	return &RollupService{regs: regs, days: days, loc: loc}
}

// Reconcile recomputes and upserts the visitor_stats rows for the trailing
// lookback calendar days, today included. Each day is rebuilt independently;
// a failure on one day is logged and the rest still run.
func (s *RollupService) Reconcile(ctx context.Context, lookback int) error {
	if lookback < 1 {
		lookback = 1
	}
	now := time.Now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	var failed int
	for i := lookback - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		if err := s.reconcileDay(ctx, day); err != nil {
			failed++
			slog.Error("visitor stats rollup failed for day", "date", day.Format("2006-01-02"), "error", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("service.RollupService.Reconcile: %d of %d days failed", failed, lookback)
	}
	return nil
}

// reconcileDay rebuilds a single day's row from that day's active
// registrations.
func (s *RollupService) reconcileDay(ctx context.Context, day time.Time) error {
	window := domain.Window{Start: day, End: day.AddDate(0, 0, 1)}
	regs, err := s.regs.ListActive(ctx, window)
	if err != nil {
		return err
	}

	row := domain.VisitorStats{
		Date: time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
	}
	hourly := make(map[int]int)
	for _, r := range regs {
		if stats.IsDomestic(r) {
			row.DomesticVisitors += r.TouristCount
			row.DomesticRevenue += r.TotalAmount
		} else {
			row.InternationalVisitors += r.TouristCount
			row.InternationalRevenue += r.TotalAmount
		}
		if h := r.RegistrationDate.In(s.loc).Hour(); h >= stats.OpeningHour && h <= stats.ClosingHour {
			hourly[h] += r.TouristCount
		}
	}
	for h := stats.OpeningHour; h <= stats.ClosingHour; h++ {
		if hourly[h] > 0 {
			row.HourlyBreakdown = append(row.HourlyBreakdown, domain.HourlyEntry{Hour: h, Visitors: hourly[h]})
		}
	}

	_, err = s.days.UpsertDay(ctx, row)
	return err
}
