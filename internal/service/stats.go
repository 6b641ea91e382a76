package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ganbold/flaming-cliffs/backend/internal/cache"
	"github.com/ganbold/flaming-cliffs/backend/internal/domain"
	"github.com/ganbold/flaming-cliffs/backend/internal/repo"
	"github.com/ganbold/flaming-cliffs/backend/internal/stats"
)

// StatsService orchestrates the statistics endpoints: it resolves the named
// period to a window, pulls the matching active registrations, and hands
// them to the aggregation engine. Everything is computed from registrations;
// the visitor_stats table only backs the today-row endpoint.
//
// Period handling: an unrecognized period never fails a request — each
// report falls back to its documented default, matching the dashboard's views.
type StatsService struct {
	regs  repo.RegistrationRepo
	days  repo.VisitorStatsRepo
	cache cache.Cache
	ttl   time.Duration
	loc   *time.Location
}

// NewStatsService constructs the StatsService. Pass cache.Noop{} when no
// Redis is configured.
func NewStatsService(regs repo.RegistrationRepo, days repo.VisitorStatsRepo, c cache.Cache, ttl time.Duration, loc *time.Location) *StatsService {
	return &StatsService{regs: regs, days: days, cache: c, ttl: ttl, loc: loc}
}

// Summary returns the plain sums for the period (default: today).
func (s *StatsService) Summary(ctx context.Context, period string) (stats.Summary, error) {
	p := periodOr(period, domain.PeriodToday)

	var out stats.Summary
	if s.fromCache(ctx, "statistics:"+string(p), &out) {
		return out, nil
	}

	regs, err := s.active(ctx, p)
	if err != nil {
		return stats.Summary{}, fmt.Errorf("service.StatsService.Summary: %w", err)
	}
	out = stats.Summarize(regs)
	s.toCache(ctx, "statistics:"+string(p), out)
	return out, nil
}

// Countries returns the per-country breakdown with codes (default: all).
func (s *StatsService) Countries(ctx context.Context, period string) ([]stats.CountryStat, error) {
	p := periodOr(period, domain.PeriodAll)

	var out []stats.CountryStat
	if s.fromCache(ctx, "country-stats:"+string(p), &out) {
		return out, nil
	}

	regs, err := s.active(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("service.StatsService.Countries: %w", err)
	}
	out = stats.CountryBreakdown(regs)
	s.toCache(ctx, "country-stats:"+string(p), out)
	return out, nil
}

// DriverGuide returns staff totals (default: all).
func (s *StatsService) DriverGuide(ctx context.Context, period string) (stats.DriverGuideStats, error) {
	regs, err := s.active(ctx, periodOr(period, domain.PeriodAll))
	if err != nil {
		return stats.DriverGuideStats{}, fmt.Errorf("service.StatsService.DriverGuide: %w", err)
	}
	return stats.DriverGuideTotals(regs), nil
}

// Operators returns the top-10 tour-operator ranking (default: all).
func (s *StatsService) Operators(ctx context.Context, period string) ([]stats.OperatorStat, error) {
	p := periodOr(period, domain.PeriodAll)

	var out []stats.OperatorStat
	if s.fromCache(ctx, "tour-operator-stats:"+string(p), &out) {
		return out, nil
	}

	regs, err := s.active(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("service.StatsService.Operators: %w", err)
	}
	out = stats.OperatorRanking(regs)
	s.toCache(ctx, "tour-operator-stats:"+string(p), out)
	return out, nil
}

// Visitors returns the visitor summary with min/max/avg daily visitors over
// the period's zero-filled daily series (default: week).
func (s *StatsService) Visitors(ctx context.Context, period string) (stats.VisitorSummary, error) {
	p := periodOr(period, domain.PeriodWeek)
	window := p.Resolve(time.Now(), s.loc)

	regs, err := s.regs.ListActive(ctx, window)
	if err != nil {
		return stats.VisitorSummary{}, fmt.Errorf("service.StatsService.Visitors: %w", err)
	}
	days := stats.DailySeries(regs, window, s.loc)
	return stats.Visitors(regs, days), nil
}

// Hourly returns the 17-entry hourly series (default: week).
func (s *StatsService) Hourly(ctx context.Context, period string) ([]stats.HourStat, error) {
	regs, err := s.active(ctx, periodOr(period, domain.PeriodWeek))
	if err != nil {
		return nil, fmt.Errorf("service.StatsService.Hourly: %w", err)
	}
	return stats.HourlySeries(regs, s.loc), nil
}

// Trends returns the monthly trend series over a trailing window of the
// given number of months (default and cap-free: 12 when not positive).
func (s *StatsService) Trends(ctx context.Context, months int) ([]stats.MonthTrend, error) {
	if months <= 0 {
		months = 12
	}
	now := time.Now()
	window := domain.Window{Start: now.In(s.loc).AddDate(0, -months, 0), End: now}

	regs, err := s.regs.ListActive(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("service.StatsService.Trends: %w", err)
	}
	return stats.MonthlyTrends(regs, months, now, s.loc), nil
}

// Daily returns the zero-filled series for the trailing 7 calendar days,
// today included.
func (s *StatsService) Daily(ctx context.Context) ([]stats.DayStat, error) {
	now := time.Now().In(s.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, -6)
	window := domain.Window{Start: start, End: now}

	regs, err := s.regs.ListActive(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("service.StatsService.Daily: %w", err)
	}
	return stats.DailySeries(regs, window, s.loc), nil
}

// Today returns (lazily creating) today's visitor_stats row.
func (s *StatsService) Today(ctx context.Context) (domain.VisitorStats, error) {
	now := time.Now().In(s.loc)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	row, err := s.days.GetOrCreateDay(ctx, day)
	if err != nil {
		return domain.VisitorStats{}, fmt.Errorf("service.StatsService.Today: %w", err)
	}
	return row, nil
}

// Export returns the active registrations for a period (default: all),
// newest first, for the spreadsheet and PDF exporters.
func (s *StatsService) Export(ctx context.Context, period string) ([]domain.Registration, stats.Summary, error) {
	regs, err := s.active(ctx, periodOr(period, domain.PeriodAll))
	if err != nil {
		return nil, stats.Summary{}, fmt.Errorf("service.StatsService.Export: %w", err)
	}
	return regs, stats.Summarize(regs), nil
}

// active resolves the period against now and fetches the matching active
// registrations.
func (s *StatsService) active(ctx context.Context, p domain.Period) ([]domain.Registration, error) {
	return s.regs.ListActive(ctx, p.Resolve(time.Now(), s.loc))
}

// periodOr parses a period query value, substituting fallback for anything
// unrecognized. Note the empty string parses as "all" by design; endpoints
// whose default is not "all" pass their own fallback only for garbage input.
func periodOr(value string, fallback domain.Period) domain.Period {
	if value == "" {
		return fallback
	}
	p, err := domain.ParsePeriod(value)
	if err != nil {
		return fallback
	}
	return p
}

// fromCache attempts a cache read; failures count as misses and are logged
// at debug level only.
func (s *StatsService) fromCache(ctx context.Context, key string, dest any) bool {
	ok, err := s.cache.GetJSON(ctx, key, dest)
	if err != nil {
		slog.Debug("stats cache read failed", "key", key, "error", err)
		return false
	}
	return ok
}

// toCache stores a computed report; failures are logged and ignored.
func (s *StatsService) toCache(ctx context.Context, key string, v any) {
	if err := s.cache.SetJSON(ctx, key, v, s.ttl); err != nil {
		slog.Debug("stats cache write failed", "key", key, "error", err)
	}
}
