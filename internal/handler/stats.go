package handler

import (
	"net/http"
	"strconv"

	"github.com/ganbold/flaming-cliffs/backend/internal/stats"
)

// summaryResponse is the /api/statistics body: the engine summary plus the
// period it was computed for, echoed back for the dashboard header.
type summaryResponse struct {
	stats.Summary
	Period string `json:"period"`
}

// getStatistics handles GET /api/statistics (default period: today).
func (s *Server) getStatistics(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "today"
	}

	summary, err := s.stats.Summary(r.Context(), period)
	if err != nil {
		respondError(w, r, err, "statistics not found")
		return
	}
	respondJSON(w, http.StatusOK, summaryResponse{Summary: summary, Period: period})
}

// getCountryStats handles GET /api/country-stats (default period: all).
func (s *Server) getCountryStats(w http.ResponseWriter, r *http.Request) {
	rows, err := s.stats.Countries(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		respondError(w, r, err, "country stats not found")
		return
	}
	if rows == nil {
		rows = []stats.CountryStat{}
	}
	respondJSON(w, http.StatusOK, rows)
}

// getDriverGuideStats handles GET /api/driver-guide-stats (default: all).
func (s *Server) getDriverGuideStats(w http.ResponseWriter, r *http.Request) {
	totals, err := s.stats.DriverGuide(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		respondError(w, r, err, "driver/guide stats not found")
		return
	}
	respondJSON(w, http.StatusOK, totals)
}

// getTourOperatorStats handles GET /api/tour-operator-stats (default: all).
// At most 10 rows come back, best first.
func (s *Server) getTourOperatorStats(w http.ResponseWriter, r *http.Request) {
	rows, err := s.stats.Operators(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		respondError(w, r, err, "tour operator stats not found")
		return
	}
	if rows == nil {
		rows = []stats.OperatorStat{}
	}
	respondJSON(w, http.StatusOK, rows)
}

// getVisitorStats handles GET /api/visitor-stats (default period: week).
func (s *Server) getVisitorStats(w http.ResponseWriter, r *http.Request) {
	summary, err := s.stats.Visitors(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		respondError(w, r, err, "visitor stats not found")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// getVisitorStatsToday handles GET /api/visitor-stats/today.
// The day row is lazily created, so this never 404s.
func (s *Server) getVisitorStatsToday(w http.ResponseWriter, r *http.Request) {
	row, err := s.stats.Today(r.Context())
	if err != nil {
		respondError(w, r, err, "visitor stats not found")
		return
	}
	respondJSON(w, http.StatusOK, row)
}

// getHourlyStats handles GET /api/visitor-stats/hourly (default: week).
// The series always has 17 entries, hours 7 through 23.
func (s *Server) getHourlyStats(w http.ResponseWriter, r *http.Request) {
	series, err := s.stats.Hourly(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		respondError(w, r, err, "hourly stats not found")
		return
	}
	respondJSON(w, http.StatusOK, series)
}

// getTrends handles GET /api/visitor-stats/trends?months=N (default 12).
func (s *Server) getTrends(w http.ResponseWriter, r *http.Request) {
	months, err := strconv.Atoi(r.URL.Query().Get("months"))
	if err != nil || months < 1 {
		months = 12
	}

	trends, err := s.stats.Trends(r.Context(), months)
	if err != nil {
		respondError(w, r, err, "trends not found")
		return
	}
	if trends == nil {
		trends = []stats.MonthTrend{}
	}
	respondJSON(w, http.StatusOK, trends)
}

// getDailyStats handles GET /api/daily-visitor-stats: the zero-filled series
// for the trailing 7 calendar days.
func (s *Server) getDailyStats(w http.ResponseWriter, r *http.Request) {
	days, err := s.stats.Daily(r.Context())
	if err != nil {
		respondError(w, r, err, "daily stats not found")
		return
	}
	respondJSON(w, http.StatusOK, days)
}
