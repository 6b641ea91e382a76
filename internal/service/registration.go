// Package service contains the business logic for the visitor-registration
// API. Services validate inputs, enforce business rules, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ganbold/flaming-cliffs/backend/internal/domain"
	"github.com/ganbold/flaming-cliffs/backend/internal/repo"
	"github.com/ganbold/flaming-cliffs/backend/internal/stats"
)

// TouristInput is one individually-named tourist in the enhanced submission
// shape. Only the country matters for aggregation; the name is kept in the
// registration notes by the front-desk UI, not here.
type TouristInput struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// RegistrationInput is the submission payload. Three shapes are accepted for
// the group composition, checked in this order:
//
//  1. TouristsByCountry — explicit (country, count) pairs
//  2. Tourists — individually-named tourists, grouped by country, 1 each
//  3. TouristCount + Countries — legacy pair; the count is split evenly
//     across the listed countries with the remainder distributed one per
//     country from the front, so the stored sum always equals the declared
//     total
type RegistrationInput struct {
	TourOperator      string                `json:"tourOperator"`
	RegistrationDate  *time.Time            `json:"registrationDate"`
	TouristsByCountry []domain.CountryGroup `json:"touristsByCountry"`
	Tourists          []TouristInput        `json:"tourists"`
	TouristCount      int                   `json:"touristCount"`
	Countries         []string              `json:"countries"`
	GuideCount        int                   `json:"guideCount"`
	DriverCount       int                   `json:"driverCount"`
	TotalAmount       float64               `json:"totalAmount"`
	Currency          string                `json:"currency"`
	VehicleNumber     string                `json:"vehicleNumber"`
	VehicleType       string                `json:"vehicleType"`
	GuideName         string                `json:"guideName"`
	Notes             string                `json:"notes"`
}

// RegistrationService implements the registration lifecycle.
type RegistrationService struct {
	regs repo.RegistrationRepo
	days repo.VisitorStatsRepo
	loc  *time.Location
}

// NewRegistrationService constructs a RegistrationService. days may be nil
// when the daily visitor_stats cache is not in use; lifecycle operations
// then skip the cache increment entirely.
func NewRegistrationService(regs repo.RegistrationRepo, days repo.VisitorStatsRepo, loc *time.Location) *RegistrationService {
	return &RegistrationService{regs: regs, days: days, loc: loc}
}

// Create validates and persists a new registration, then additively updates
// today's visitor_stats row. The cache update is best-effort: a failure is
// logged, never surfaced, since the row can always be rebuilt from
// registrations.
func (s *RegistrationService) Create(ctx context.Context, input RegistrationInput) (domain.Registration, error) {
	reg, err := s.normalize(input)
	if err != nil {
		return domain.Registration{}, err
	}

	created, err := s.regs.Create(ctx, reg)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("service.RegistrationService.Create: %w", err)
	}

	s.recordVisit(ctx, created)
	return created, nil
}

// GetByID returns a single registration by ID, any status.
func (s *RegistrationService) GetByID(ctx context.Context, id uuid.UUID) (domain.Registration, error) {
	reg, err := s.regs.GetByID(ctx, id)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("service.RegistrationService.GetByID: %w", err)
	}
	return reg, nil
}

// List returns active registrations for the named period, newest first.
// An unrecognized period falls back to today, matching the listing screen's
// default view. Always returns a non-nil slice.
func (s *RegistrationService) List(ctx context.Context, period string) ([]domain.Registration, error) {
	p, err := domain.ParsePeriod(period)
	if err != nil {
		p = domain.PeriodToday
	}

	regs, err := s.regs.ListActive(ctx, p.Resolve(time.Now(), s.loc))
	if err != nil {
		return nil, fmt.Errorf("service.RegistrationService.List: %w", err)
	}
	if regs == nil {
		regs = []domain.Registration{}
	}
	return regs, nil
}

// Update overwrites all mutable fields of an existing registration with the
// normalized input. Returns domain.ErrNotFound for an unknown ID.
func (s *RegistrationService) Update(ctx context.Context, id uuid.UUID, input RegistrationInput) (domain.Registration, error) {
	reg, err := s.normalize(input)
	if err != nil {
		return domain.Registration{}, err
	}
	reg.ID = id

	updated, err := s.regs.Update(ctx, reg)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("service.RegistrationService.Update: %w", err)
	}
	return updated, nil
}

// Cancel flips the registration to cancelled. It is not idempotency-checked:
// cancelling twice succeeds and the second call changes nothing that the
// statistics can observe.
func (s *RegistrationService) Cancel(ctx context.Context, id uuid.UUID) error {
	if err := s.regs.Cancel(ctx, id); err != nil {
		return fmt.Errorf("service.RegistrationService.Cancel: %w", err)
	}
	return nil
}

// normalize maps a RegistrationInput to a domain.Registration, deriving the
// group composition, tourist count, and country set, and applying defaults.
func (s *RegistrationService) normalize(input RegistrationInput) (domain.Registration, error) {
	groups, err := normalizeGroups(input)
	if err != nil {
		return domain.Registration{}, err
	}

	if input.TotalAmount < 0 {
		return domain.Registration{}, fmt.Errorf("%w: totalAmount must not be negative", domain.ErrValidation)
	}
	if input.GuideCount < 0 || input.DriverCount < 0 {
		return domain.Registration{}, fmt.Errorf("%w: guideCount and driverCount must not be negative", domain.ErrValidation)
	}

	currency := input.Currency
	if currency == "" {
		currency = "MNT"
	}
	if !slices.Contains(domain.Currencies, currency) {
		return domain.Registration{}, fmt.Errorf("%w: unsupported currency %q", domain.ErrValidation, currency)
	}

	operator := strings.TrimSpace(input.TourOperator)
	if operator == "" {
		operator = "Unknown"
	}

	date := time.Now()
	if input.RegistrationDate != nil {
		date = *input.RegistrationDate
	}

	total := 0
	countries := make([]string, 0, len(groups))
	for _, g := range groups {
		total += g.Count
		if !slices.Contains(countries, g.Country) {
			countries = append(countries, g.Country)
		}
	}

	return domain.Registration{
		TourOperator:      operator,
		RegistrationDate:  date,
		TouristCount:      total,
		TouristsByCountry: groups,
		Countries:         countries,
		GuideCount:        input.GuideCount,
		DriverCount:       input.DriverCount,
		TotalAmount:       input.TotalAmount,
		Currency:          currency,
		VehicleNumber:     strings.TrimSpace(input.VehicleNumber),
		VehicleType:       strings.TrimSpace(input.VehicleType),
		GuideName:         strings.TrimSpace(input.GuideName),
		Notes:             strings.TrimSpace(input.Notes),
		Status:            domain.StatusActive,
	}, nil
}

// normalizeGroups derives the (country, count) composition from whichever of
// the three input shapes is present.
func normalizeGroups(input RegistrationInput) ([]domain.CountryGroup, error) {
	switch {
	case len(input.TouristsByCountry) > 0:
		groups := make([]domain.CountryGroup, 0, len(input.TouristsByCountry))
		for _, g := range input.TouristsByCountry {
			country := strings.TrimSpace(g.Country)
			if country == "" {
				return nil, fmt.Errorf("%w: touristsByCountry entries need a country", domain.ErrValidation)
			}
			if g.Count < 1 {
				return nil, fmt.Errorf("%w: touristsByCountry counts must be at least 1", domain.ErrValidation)
			}
			groups = append(groups, domain.CountryGroup{Country: country, Count: g.Count})
		}
		return groups, nil

	case len(input.Tourists) > 0:
		// Group the named tourists by country, preserving first-seen order.
		var groups []domain.CountryGroup
		index := make(map[string]int)
		for _, t := range input.Tourists {
			country := strings.TrimSpace(t.Country)
			if country == "" {
				return nil, fmt.Errorf("%w: every tourist needs a country", domain.ErrValidation)
			}
			if i, ok := index[country]; ok {
				groups[i].Count++
				continue
			}
			index[country] = len(groups)
			groups = append(groups, domain.CountryGroup{Country: country, Count: 1})
		}
		return groups, nil

	case input.TouristCount > 0 && len(input.Countries) > 0:
		// Legacy shape: split the declared count evenly, handing the
		// remainder out one per country from the front. The sum of the
		// stored groups always equals the declared count.
		countries := make([]string, 0, len(input.Countries))
		for _, c := range input.Countries {
			if c = strings.TrimSpace(c); c != "" && !slices.Contains(countries, c) {
				countries = append(countries, c)
			}
		}
		if len(countries) == 0 {
			return nil, fmt.Errorf("%w: at least one country is required", domain.ErrValidation)
		}
		base, rem := input.TouristCount/len(countries), input.TouristCount%len(countries)
		var groups []domain.CountryGroup
		for i, c := range countries {
			count := base
			if i < rem {
				count++
			}
			if count == 0 {
				continue
			}
			groups = append(groups, domain.CountryGroup{Country: c, Count: count})
		}
		return groups, nil
	}

	return nil, fmt.Errorf("%w: at least one tourist with a country is required", domain.ErrValidation)
}

// recordVisit additively folds a freshly created registration into today's
// visitor_stats row. The classification is whole-registration: all tourists
// and the full amount land in one bucket.
func (s *RegistrationService) recordVisit(ctx context.Context, reg domain.Registration) {
	if s.days == nil {
		return
	}

	local := reg.RegistrationDate.In(s.loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

	row, err := s.days.GetOrCreateDay(ctx, day)
	if err != nil {
		slog.Warn("visitor stats day lookup failed", "date", day.Format("2006-01-02"), "error", err)
		return
	}

	if stats.IsDomestic(reg) {
		row.DomesticVisitors += reg.TouristCount
		row.DomesticRevenue += reg.TotalAmount
	} else {
		row.InternationalVisitors += reg.TouristCount
		row.InternationalRevenue += reg.TotalAmount
	}

	if h := local.Hour(); h >= stats.OpeningHour && h <= stats.ClosingHour {
		row.HourlyBreakdown = bumpHour(row.HourlyBreakdown, h, reg.TouristCount)
	}

	if _, err := s.days.UpsertDay(ctx, row); err != nil {
		slog.Warn("visitor stats increment failed", "date", day.Format("2006-01-02"), "error", err)
	}
}

// bumpHour adds visitors to the entry for hour, appending it if absent.
// Entries stay sorted by hour.
func bumpHour(entries []domain.HourlyEntry, hour, visitors int) []domain.HourlyEntry {
	for i := range entries {
		if entries[i].Hour == hour {
			entries[i].Visitors += visitors
			return entries
		}
	}
	entries = append(entries, domain.HourlyEntry{Hour: hour, Visitors: visitors})
	slices.SortFunc(entries, func(a, b domain.HourlyEntry) int { return a.Hour - b.Hour })
	return entries
}
