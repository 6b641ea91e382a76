package domain

import "time"

// HourlyEntry is one hour's visitor count inside a VisitorStats row.
// Hours run 7 to 23 inclusive (the site's opening hours); at most one entry
// per hour.
type HourlyEntry struct {
	Hour     int `json:"hour"`
	Visitors int `json:"visitors"`
}

// VisitorStats is one calendar day's aggregated visitor numbers.
//
// It is a derived read-through cache of the aggregation engine's daily
// output, not a second source of truth: rows are lazily created the first
// time a day is touched, incremented additively on every registration, and
// periodically reconciled from the registrations table by the rollup job.
// Every statistics endpoint can be answered without this table.
//
// Invariant maintained on every write:
// TotalVisitors = DomesticVisitors + InternationalVisitors, and likewise
// for revenue.
type VisitorStats struct {
	Date                  time.Time     `json:"date"`
	DomesticVisitors      int           `json:"domesticVisitors"`
	InternationalVisitors int           `json:"internationalVisitors"`
	TotalVisitors         int           `json:"totalVisitors"`
	DomesticRevenue       float64       `json:"domesticRevenue"`
	InternationalRevenue  float64       `json:"internationalRevenue"`
	TotalRevenue          float64       `json:"totalRevenue"`
	HourlyBreakdown       []HourlyEntry `json:"hourlyBreakdown"`
	CreatedAt             time.Time     `json:"createdAt"`
	UpdatedAt             time.Time     `json:"updatedAt"`
}
