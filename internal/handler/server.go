// Package handler implements the HTTP handlers for the visitor-registration
// API. All handlers are methods on Server; they decode requests, call the
// service interfaces, and encode JSON responses. Methods are split into
// domain-specific files (registration.go, stats.go, export.go) but all share
// the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ganbold/flaming-cliffs/backend/internal/domain"
	"github.com/ganbold/flaming-cliffs/backend/internal/service"
	"github.com/ganbold/flaming-cliffs/backend/internal/stats"
)

// RegistrationServicer defines the lifecycle operations the registration
// handlers depend on. Defining the interface here (in the consumer package)
// follows the Go convention: "accept interfaces, return concrete types". It
// lets handler tests inject a mock without touching the database or service
// layer.
type RegistrationServicer interface {
	Create(ctx context.Context, input service.RegistrationInput) (domain.Registration, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Registration, error)
	List(ctx context.Context, period string) ([]domain.Registration, error)
	Update(ctx context.Context, id uuid.UUID, input service.RegistrationInput) (domain.Registration, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

// StatsServicer defines the report operations the statistics and export
// handlers depend on.
type StatsServicer interface {
	Summary(ctx context.Context, period string) (stats.Summary, error)
	Countries(ctx context.Context, period string) ([]stats.CountryStat, error)
	DriverGuide(ctx context.Context, period string) (stats.DriverGuideStats, error)
	Operators(ctx context.Context, period string) ([]stats.OperatorStat, error)
	Visitors(ctx context.Context, period string) (stats.VisitorSummary, error)
	Hourly(ctx context.Context, period string) ([]stats.HourStat, error)
	Trends(ctx context.Context, months int) ([]stats.MonthTrend, error)
	Daily(ctx context.Context) ([]stats.DayStat, error)
	Today(ctx context.Context) (domain.VisitorStats, error)
	Export(ctx context.Context, period string) ([]domain.Registration, stats.Summary, error)
}

// Server holds the handler dependencies. Wire it in main.go via Routes.
type Server struct {
	registrations RegistrationServicer
	stats         StatsServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(registrations RegistrationServicer, statsSvc StatsServicer) *Server {
	return &Server{registrations: registrations, stats: statsSvc}
}

// Routes returns the API router. Everything the web clients call lives under
// /api; health and the embedded OpenAPI document sit at the root.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/registrations", s.listRegistrations)
		r.Post("/registrations", s.createRegistration)
		r.Get("/registrations/{id}", s.getRegistration)
		r.Put("/registrations/{id}", s.updateRegistration)
		r.Delete("/registrations/{id}", s.cancelRegistration)

		r.Get("/statistics", s.getStatistics)
		r.Get("/country-stats", s.getCountryStats)
		r.Get("/driver-guide-stats", s.getDriverGuideStats)
		r.Get("/tour-operator-stats", s.getTourOperatorStats)
		r.Get("/visitor-stats", s.getVisitorStats)
		r.Get("/visitor-stats/today", s.getVisitorStatsToday)
		r.Get("/visitor-stats/hourly", s.getHourlyStats)
		r.Get("/visitor-stats/trends", s.getTrends)
		r.Get("/daily-visitor-stats", s.getDailyStats)

		r.Get("/export/excel", s.exportExcel)
		r.Get("/export/pdf", s.exportPDF)
	})

	r.Get("/healthz", s.getHealth)
	r.Get("/openapi.yaml", s.getOpenAPI)

	return r
}

// parseID extracts and parses the {id} URL parameter.
func parseID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}
