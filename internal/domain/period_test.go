package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganbold/flaming-cliffs/backend/internal/domain"
)

// ulaanbaatar is the reporting timezone used throughout period tests.
// UTC+8, no daylight saving.
func ulaanbaatar(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Ulaanbaatar")
	require.NoError(t, err)
	return loc
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Period
		wantErr bool
	}{
		{"today", domain.PeriodToday, false},
		{"week", domain.PeriodWeek, false},
		{"month", domain.PeriodMonth, false},
		{"year", domain.PeriodYear, false},
		{"all", domain.PeriodAll, false},
		{"", domain.PeriodAll, false},
		{"quarter", "", true},
		{"Today", "", true}, // case-sensitive
	}

	for _, tt := range tests {
		t.Run("input="+tt.in, func(t *testing.T) {
			got, err := domain.ParsePeriod(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriod_Resolve_Today(t *testing.T) {
	loc := ulaanbaatar(t)
	// 14:30 local time on June 15th.
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, loc)

	w := domain.PeriodToday.Resolve(now, loc)

	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, loc), w.Start)
	assert.Equal(t, now, w.End)
	assert.False(t, w.Unbounded())
}

func TestPeriod_Resolve_TodayRespectsReportingZone(t *testing.T) {
	loc := ulaanbaatar(t)
	// 20:00 UTC on June 14th is already 04:00 on June 15th in Ulaanbaatar,
	// so "today" must start at local midnight of the 15th.
	now := time.Date(2025, 6, 14, 20, 0, 0, 0, time.UTC)

	w := domain.PeriodToday.Resolve(now, loc)

	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, loc), w.Start)
}

func TestPeriod_Resolve_Week(t *testing.T) {
	loc := ulaanbaatar(t)
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, loc)

	w := domain.PeriodWeek.Resolve(now, loc)

	// Day-aligned: midnight seven calendar days back, not now minus 168h.
	assert.Equal(t, time.Date(2025, 6, 8, 0, 0, 0, 0, loc), w.Start)
	assert.Equal(t, now, w.End)
}

func TestPeriod_Resolve_MonthAndYear(t *testing.T) {
	loc := ulaanbaatar(t)
	now := time.Date(2025, 3, 31, 10, 0, 0, 0, loc)

	month := domain.PeriodMonth.Resolve(now, loc)
	// AddDate month arithmetic: March 31 minus one month normalizes to March 3.
	assert.Equal(t, now.AddDate(0, -1, 0), month.Start)

	year := domain.PeriodYear.Resolve(now, loc)
	assert.Equal(t, time.Date(2024, 3, 31, 10, 0, 0, 0, loc), year.Start)
}

func TestPeriod_Resolve_All(t *testing.T) {
	loc := ulaanbaatar(t)
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, loc)

	w := domain.PeriodAll.Resolve(now, loc)

	assert.True(t, w.Unbounded())
	assert.Equal(t, now, w.End)
}

func TestWindow_Contains(t *testing.T) {
	loc := ulaanbaatar(t)
	start := time.Date(2025, 6, 8, 0, 0, 0, 0, loc)
	end := time.Date(2025, 6, 15, 0, 0, 0, 0, loc)
	w := domain.Window{Start: start, End: end}

	assert.True(t, w.Contains(start), "start is inclusive")
	assert.False(t, w.Contains(end), "end is exclusive")
	assert.True(t, w.Contains(start.Add(time.Hour)))
	assert.False(t, w.Contains(start.Add(-time.Nanosecond)))

	unbounded := domain.Window{End: end}
	assert.True(t, unbounded.Contains(time.Date(1990, 1, 1, 0, 0, 0, 0, loc)))
	assert.False(t, unbounded.Contains(end))
}
