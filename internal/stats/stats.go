// Package stats is the aggregation engine: pure functions that reduce a set
// of active registrations into the report structures served by the dashboard
// endpoints and consumed by the exporters.
//
// Every function is deterministic with respect to its input slice. Callers
// are responsible for filtering to active records and to the requested
// window before calling in; the engine never touches the database.
package stats

import (
	"sort"
	"strings"

	"github.com/ganbold/flaming-cliffs/backend/internal/domain"
)

// Summary holds the plain sums over a filtered registration set.
type Summary struct {
	TotalRegistrations int     `json:"totalRegistrations"`
	TotalTourists      int     `json:"totalTourists"`
	TotalRevenue       float64 `json:"totalRevenue"`
	TotalGuides        int     `json:"totalGuides"`
	TotalDrivers       int     `json:"totalDrivers"`
}

// CountryStat is one row of the per-country breakdown.
type CountryStat struct {
	Country string `json:"country"`
	Code    string `json:"code"`
	Value   int    `json:"value"`
}

// OperatorStat is one row of the tour-operator ranking.
type OperatorStat struct {
	Operator string `json:"operator"`
	Count    int    `json:"count"`
}

// DriverGuideStats holds staff totals for the donut chart.
type DriverGuideStats struct {
	Drivers int `json:"drivers"`
	Guides  int `json:"guides"`
	Total   int `json:"total"`
}

// domesticNames is the fixed set of country spellings that classify a
// registration as domestic. A whole registration goes to one bucket: if any
// of its countries matches, the entire group's tourists and revenue count as
// domestic.
var domesticNames = map[string]bool{
	"Mongolia": true,
	"Монгол":   true,
	"MN":       true,
}

// Summarize returns the summary totals for the set. An empty set yields the
// zero Summary, never an error.
func Summarize(regs []domain.Registration) Summary {
	var s Summary
	for _, r := range regs {
		s.TotalRegistrations++
		s.TotalTourists += r.TouristCount
		s.TotalRevenue += r.TotalAmount
		s.TotalGuides += r.GuideCount
		s.TotalDrivers += r.DriverCount
	}
	return s
}

// CountryBreakdown explodes each registration's TouristsByCountry into
// (country, count) pairs and sums per distinct country. Rows are sorted by
// descending value; ties are broken by lexicographically smaller country
// name so the output is deterministic regardless of input order.
func CountryBreakdown(regs []domain.Registration) []CountryStat {
	totals := make(map[string]int)
	for _, r := range regs {
		for _, g := range r.TouristsByCountry {
			name := strings.TrimSpace(g.Country)
			if name == "" {
				continue
			}
			totals[name] += g.Count
		}
	}

	out := make([]CountryStat, 0, len(totals))
	for country, value := range totals {
		out = append(out, CountryStat{
			Country: country,
			Code:    CountryCode(country),
			Value:   value,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Country < out[j].Country
	})
	return out
}

// OperatorRanking sums TouristCount per distinct tour operator and returns
// the top 10 by descending count. Ties are broken by lexicographically
// smaller operator name. Operators with an empty name are reported as
// "Unknown".
func OperatorRanking(regs []domain.Registration) []OperatorStat {
	totals := make(map[string]int)
	for _, r := range regs {
		op := r.TourOperator
		if op == "" {
			op = "Unknown"
		}
		totals[op] += r.TouristCount
	}

	out := make([]OperatorStat, 0, len(totals))
	for op, count := range totals {
		out = append(out, OperatorStat{Operator: op, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Operator < out[j].Operator
	})
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

// DriverGuideTotals sums driver and guide headcounts separately.
func DriverGuideTotals(regs []domain.Registration) DriverGuideStats {
	var s DriverGuideStats
	for _, r := range regs {
		s.Drivers += r.DriverCount
		s.Guides += r.GuideCount
	}
	s.Total = s.Drivers + s.Guides
	return s
}

// IsDomestic classifies an entire registration as domestic when its country
// set intersects the fixed Mongolia name set. This is a whole-group
// classification, not a per-tourist split.
func IsDomestic(r domain.Registration) bool {
	for _, c := range r.Countries {
		if domesticNames[c] {
			return true
		}
	}
	return false
}
