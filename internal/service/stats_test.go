package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganbold/flaming-cliffs/backend/internal/cache"
	"github.com/ganbold/flaming-cliffs/backend/internal/domain"
	"github.com/ganbold/flaming-cliffs/backend/internal/service"
	"github.com/ganbold/flaming-cliffs/backend/internal/stats"
)

// spyCache records cache traffic on top of an in-memory map.
type spyCache struct {
	store map[string][]byte
	gets  []string
	sets  []string
}

func newSpyCache() *spyCache {
	return &spyCache{store: make(map[string][]byte)}
}

func (c *spyCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	c.gets = append(c.gets, key)
	raw, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *spyCache) SetJSON(_ context.Context, key string, v any, _ time.Duration) error {
	c.sets = append(c.sets, key)
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = raw
	return nil
}

var _ cache.Cache = (*spyCache)(nil)

// fixedRepo returns the same registrations for every ListActive call and
// records the windows it was asked for.
func fixedRepo(regs []domain.Registration) *mockRegistrationRepo {
	return &mockRegistrationRepo{
		listActive: func(_ context.Context, _ domain.Window) ([]domain.Registration, error) {
			return regs, nil
		},
	}
}

func sampleRegs(loc *time.Location) []domain.Registration {
	now := time.Now().In(loc)
	at := time.Date(now.Year(), now.Month(), now.Day(), 11, 0, 0, 0, loc)
	return []domain.Registration{
		{
			TourOperator:      "Juulchin",
			RegistrationDate:  at,
			TouristCount:      4,
			TouristsByCountry: []domain.CountryGroup{{Country: "Japan", Count: 4}},
			Countries:         []string{"Japan"},
			GuideCount:        1,
			DriverCount:       1,
			TotalAmount:       80000,
			Status:            domain.StatusActive,
		},
		{
			TourOperator:      "Nomads",
			RegistrationDate:  at.Add(time.Hour),
			TouristCount:      2,
			TouristsByCountry: []domain.CountryGroup{{Country: "Mongolia", Count: 2}},
			Countries:         []string{"Mongolia"},
			TotalAmount:       40000,
			Status:            domain.StatusActive,
		},
	}
}

func newStatsService(regs *mockRegistrationRepo, c cache.Cache) *service.StatsService {
	return service.NewStatsService(regs, nil, c, time.Minute, time.UTC)
}

func TestStatsService_Summary(t *testing.T) {
	svc := newStatsService(fixedRepo(sampleRegs(time.UTC)), cache.Noop{})

	got, err := svc.Summary(context.Background(), "today")

	require.NoError(t, err)
	assert.Equal(t, stats.Summary{
		TotalRegistrations: 2,
		TotalTourists:      6,
		TotalRevenue:       120000,
		TotalGuides:        1,
		TotalDrivers:       1,
	}, got)
}

func TestStatsService_Summary_CachesByPeriod(t *testing.T) {
	c := newSpyCache()
	calls := 0
	regs := &mockRegistrationRepo{
		listActive: func(context.Context, domain.Window) ([]domain.Registration, error) {
			calls++
			return sampleRegs(time.UTC), nil
		},
	}
	svc := newStatsService(regs, c)

	first, err := svc.Summary(context.Background(), "week")
	require.NoError(t, err)
	second, err := svc.Summary(context.Background(), "week")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second read must come from the cache")
	assert.Contains(t, c.sets, "statistics:week")
}

func TestStatsService_Summary_UnknownPeriodFallsBackToToday(t *testing.T) {
	c := newSpyCache()
	svc := newStatsService(fixedRepo(nil), c)

	_, err := svc.Summary(context.Background(), "fortnight")

	require.NoError(t, err)
	assert.Contains(t, c.gets, "statistics:today")
}

func TestStatsService_Countries(t *testing.T) {
	svc := newStatsService(fixedRepo(sampleRegs(time.UTC)), cache.Noop{})

	got, err := svc.Countries(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, []stats.CountryStat{
		{Country: "Japan", Code: "jp", Value: 4},
		{Country: "Mongolia", Code: "mn", Value: 2},
	}, got)
}

func TestStatsService_Operators(t *testing.T) {
	svc := newStatsService(fixedRepo(sampleRegs(time.UTC)), cache.Noop{})

	got, err := svc.Operators(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, stats.OperatorStat{Operator: "Juulchin", Count: 4}, got[0])
}

func TestStatsService_Visitors(t *testing.T) {
	svc := newStatsService(fixedRepo(sampleRegs(time.UTC)), cache.Noop{})

	got, err := svc.Visitors(context.Background(), "week")

	require.NoError(t, err)
	assert.Equal(t, 6, got.TotalVisitors)
	assert.Equal(t, 2, got.DomesticVisitors)
	assert.Equal(t, 4, got.InternationalVisitors)
	assert.Equal(t, 6, got.MaxDailyVisitors, "both registrations land on today")
	assert.Zero(t, got.MinDailyVisitors, "week window includes empty days")
}

func TestStatsService_Hourly_AlwaysSeventeenEntries(t *testing.T) {
	svc := newStatsService(fixedRepo(nil), cache.Noop{})

	got, err := svc.Hourly(context.Background(), "week")

	require.NoError(t, err)
	require.Len(t, got, 17)
	assert.Equal(t, 7, got[0].Hour)
	assert.Equal(t, 23, got[16].Hour)
}

func TestStatsService_Daily_SevenEntries(t *testing.T) {
	svc := newStatsService(fixedRepo(sampleRegs(time.UTC)), cache.Noop{})

	got, err := svc.Daily(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 7, "trailing seven days, today included")
	assert.Equal(t, 6, got[6].TotalVisitors, "today is the last entry")
	assert.Zero(t, got[0].TotalVisitors)
}

func TestStatsService_Today(t *testing.T) {
	want := domain.VisitorStats{TotalVisitors: 12}
	days := &mockVisitorStatsRepo{
		getOrCreateDay: func(_ context.Context, day time.Time) (domain.VisitorStats, error) {
			assert.Equal(t, time.UTC, day.Location())
			return want, nil
		},
	}
	svc := service.NewStatsService(fixedRepo(nil), days, cache.Noop{}, time.Minute, time.UTC)

	got, err := svc.Today(context.Background())

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStatsService_Export(t *testing.T) {
	svc := newStatsService(fixedRepo(sampleRegs(time.UTC)), cache.Noop{})

	regs, summary, err := svc.Export(context.Background(), "")

	require.NoError(t, err)
	assert.Len(t, regs, 2)
	assert.Equal(t, 6, summary.TotalTourists)
}
