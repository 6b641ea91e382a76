package stats

import (
	"math"
	"sort"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/ganbold/flaming-cliffs/backend/internal/domain"
)

// Opening hours of the site. The hourly series always covers this range.
const (
	OpeningHour = 7
	ClosingHour = 23
)

// DayStat is one zero-fillable entry of the daily visitor series.
type DayStat struct {
	Date                  openapi_types.Date `json:"date"`
	TotalVisitors         int                `json:"totalVisitors"`
	DomesticVisitors      int                `json:"domesticVisitors"`
	InternationalVisitors int                `json:"internationalVisitors"`
	Revenue               float64            `json:"revenue"`
}

// HourStat is one entry of the 17-entry hourly series (hours 7-23).
type HourStat struct {
	Hour          int `json:"hour"`
	TotalVisitors int `json:"totalVisitors"`
	AvgVisitors   int `json:"avgVisitors"`
}

// MonthTrend is one (year, month) bucket of the monthly trend series.
type MonthTrend struct {
	Year             int     `json:"year"`
	Month            int     `json:"month"`
	TotalVisitors    int     `json:"totalVisitors"`
	TotalRevenue     float64 `json:"totalRevenue"`
	AvgDailyVisitors int     `json:"avgDailyVisitors"`
}

// VisitorSummary extends the plain totals with domestic/international split
// and min/max/avg over the daily series.
type VisitorSummary struct {
	TotalVisitors         int     `json:"totalVisitors"`
	DomesticVisitors      int     `json:"domesticVisitors"`
	InternationalVisitors int     `json:"internationalVisitors"`
	TotalRevenue          float64 `json:"totalRevenue"`
	DomesticRevenue       float64 `json:"domesticRevenue"`
	InternationalRevenue  float64 `json:"internationalRevenue"`
	AvgDailyVisitors      int     `json:"avgDailyVisitors"`
	MaxDailyVisitors      int     `json:"maxDailyVisitors"`
	MinDailyVisitors      int     `json:"minDailyVisitors"`
}

// DailySeries produces one entry per calendar day spanned by the window,
// inclusive of both ends, in chronological order. Days without any active
// registration are present with zero values.
//
// For an unbounded window the series is anchored at the earliest
// registration's day; with no registrations at all it degrades to a single
// zero entry for the window's end day.
func DailySeries(regs []domain.Registration, window domain.Window, loc *time.Location) []DayStat {
	endDay := dayOf(window.End, loc)

	var startDay time.Time
	switch {
	case !window.Unbounded():
		startDay = dayOf(window.Start, loc)
	case len(regs) > 0:
		startDay = dayOf(regs[0].RegistrationDate, loc)
		for _, r := range regs[1:] {
			if d := dayOf(r.RegistrationDate, loc); d.Before(startDay) {
				startDay = d
			}
		}
	default:
		startDay = endDay
	}
	if startDay.After(endDay) {
		startDay = endDay
	}

	index := make(map[string]int)
	var series []DayStat
	for d := startDay; !d.After(endDay); d = d.AddDate(0, 0, 1) {
		index[dayKey(d)] = len(series)
		series = append(series, DayStat{Date: openapi_types.Date{Time: d}})
	}

	for _, r := range regs {
		i, ok := index[dayKey(r.RegistrationDate.In(loc))]
		if !ok {
			continue
		}
		series[i].TotalVisitors += r.TouristCount
		series[i].Revenue += r.TotalAmount
		if IsDomestic(r) {
			series[i].DomesticVisitors += r.TouristCount
		} else {
			series[i].InternationalVisitors += r.TouristCount
		}
	}
	return series
}

// Visitors computes the visitor summary for the set: totals split by
// domestic/international plus min/max/avg daily visitors over the daily
// series. An empty day series reports zeros throughout.
func Visitors(regs []domain.Registration, days []DayStat) VisitorSummary {
	var s VisitorSummary
	for _, r := range regs {
		s.TotalVisitors += r.TouristCount
		s.TotalRevenue += r.TotalAmount
		if IsDomestic(r) {
			s.DomesticVisitors += r.TouristCount
			s.DomesticRevenue += r.TotalAmount
		} else {
			s.InternationalVisitors += r.TouristCount
			s.InternationalRevenue += r.TotalAmount
		}
	}

	if len(days) == 0 {
		return s
	}
	total := 0
	s.MinDailyVisitors = days[0].TotalVisitors
	for _, d := range days {
		total += d.TotalVisitors
		if d.TotalVisitors > s.MaxDailyVisitors {
			s.MaxDailyVisitors = d.TotalVisitors
		}
		if d.TotalVisitors < s.MinDailyVisitors {
			s.MinDailyVisitors = d.TotalVisitors
		}
	}
	s.AvgDailyVisitors = roundDiv(total, len(days))
	return s
}

// HourlySeries sums tourist counts per hour-of-day across the matched days
// and averages over the number of days that carried at least one active
// registration. The result always has exactly 17 entries (hours 7-23);
// hours with no data are zero. Registrations stamped outside opening hours
// are ignored.
func HourlySeries(regs []domain.Registration, loc *time.Location) []HourStat {
	totals := make(map[int]int)
	days := make(map[string]bool)
	for _, r := range regs {
		local := r.RegistrationDate.In(loc)
		days[dayKey(local)] = true
		h := local.Hour()
		if h < OpeningHour || h > ClosingHour {
			continue
		}
		totals[h] += r.TouristCount
	}

	series := make([]HourStat, 0, ClosingHour-OpeningHour+1)
	for h := OpeningHour; h <= ClosingHour; h++ {
		entry := HourStat{Hour: h, TotalVisitors: totals[h]}
		if len(days) > 0 {
			entry.AvgVisitors = roundDiv(totals[h], len(days))
		}
		series = append(series, entry)
	}
	return series
}

// MonthlyTrends groups registrations of the trailing months-month window by
// (year, month) and reports visitor and revenue sums plus the rounded
// average daily visitors within each month. Months without data are
// omitted; output is sorted chronologically ascending.
func MonthlyTrends(regs []domain.Registration, months int, now time.Time, loc *time.Location) []MonthTrend {
	if months <= 0 {
		months = 12
	}
	start := now.In(loc).AddDate(0, -months, 0)

	type bucket struct {
		visitors int
		revenue  float64
		days     map[string]bool
	}
	buckets := make(map[int]*bucket)
	for _, r := range regs {
		local := r.RegistrationDate.In(loc)
		if local.Before(start) || local.After(now.In(loc)) {
			continue
		}
		key := local.Year()*100 + int(local.Month())
		b := buckets[key]
		if b == nil {
			b = &bucket{days: make(map[string]bool)}
			buckets[key] = b
		}
		b.visitors += r.TouristCount
		b.revenue += r.TotalAmount
		b.days[dayKey(local)] = true
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]MonthTrend, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		out = append(out, MonthTrend{
			Year:             k / 100,
			Month:            k % 100,
			TotalVisitors:    b.visitors,
			TotalRevenue:     b.revenue,
			AvgDailyVisitors: roundDiv(b.visitors, len(b.days)),
		})
	}
	return out
}

// dayOf truncates t to midnight of its calendar day in loc.
func dayOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// dayKey is a map key identifying a calendar day in loc-local time.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// roundDiv divides a by b rounding to the nearest integer; b == 0 yields 0.
func roundDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return int(math.Round(float64(a) / float64(b)))
}
