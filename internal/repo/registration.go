// Package repo contains all database access logic for the visitor-registration
// API. Each resource has its own file with an interface and a Postgres
// implementation. No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ganbold/flaming-cliffs/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RegistrationRepo defines the persistence operations for Registrations.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type RegistrationRepo interface {
	// Create inserts a new registration and returns the persisted record
	// (with DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, reg domain.Registration) (domain.Registration, error)

	// GetByID retrieves a single registration by its UUID primary key.
	// Returns domain.ErrNotFound if no registration with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Registration, error)

	// ListActive returns the active registrations whose registration_date
	// falls inside the window, newest first. Cancelled (and completed)
	// records never appear.
	ListActive(ctx context.Context, window domain.Window) ([]domain.Registration, error)

	// Update overwrites the mutable fields of an existing registration and
	// returns the updated record. Returns domain.ErrNotFound if no
	// registration with that ID exists.
	Update(ctx context.Context, reg domain.Registration) (domain.Registration, error)

	// Cancel flips the registration's status to cancelled. The record stays
	// in the table; it just stops contributing to statistics. Returns
	// domain.ErrNotFound for an unknown ID. Cancelling an already-cancelled
	// registration is allowed and effectively a no-op.
	Cancel(ctx context.Context, id uuid.UUID) error
}

// pgRegistrationRepo is the Postgres implementation of RegistrationRepo.
type pgRegistrationRepo struct {
	db db
}

// NewRegistrationRepo constructs a RegistrationRepo backed by the provided db
// connection. In production pass *pgxpool.Pool; in tests pass a pgx.Tx for
// rollback isolation.
func NewRegistrationRepo(db db) RegistrationRepo {
	return &pgRegistrationRepo{db: db}
}

const registrationColumns = `
	id, tour_operator, registration_date, tourist_count, tourists_by_country,
	countries, guide_count, driver_count, total_amount, currency,
	vehicle_number, vehicle_type, guide_name, notes, status,
	created_at, updated_at`

// Create inserts a new registration row and returns the full persisted record.
func (r *pgRegistrationRepo) Create(ctx context.Context, reg domain.Registration) (domain.Registration, error) {
	const q = `
		INSERT INTO registrations (
			tour_operator, registration_date, tourist_count, tourists_by_country,
			countries, guide_count, driver_count, total_amount, currency,
			vehicle_number, vehicle_type, guide_name, notes, status)
		VALUES (
			@tour_operator, @registration_date, @tourist_count, @tourists_by_country,
			@countries, @guide_count, @driver_count, @total_amount, @currency,
			@vehicle_number, @vehicle_type, @guide_name, @notes, @status)
		RETURNING` + registrationColumns

	args, err := registrationArgs(reg)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.Create: %w", err)
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanRegistration(row)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a registration by primary key regardless of status.
func (r *pgRegistrationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Registration, error) {
	const q = `
		SELECT` + registrationColumns + `
		FROM registrations
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanRegistration(row)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListActive returns active registrations inside the window, newest first.
// An unbounded window (zero Start) applies no lower date bound.
func (r *pgRegistrationRepo) ListActive(ctx context.Context, window domain.Window) ([]domain.Registration, error) {
	const q = `
		SELECT` + registrationColumns + `
		FROM registrations
		WHERE status = 'active'
		  AND (@start::timestamptz IS NULL OR registration_date >= @start)
		  AND registration_date < @end
		ORDER BY registration_date DESC`

	args := pgx.NamedArgs{"end": window.End}
	if window.Unbounded() {
		args["start"] = nil
	} else {
		args["start"] = window.Start
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.RegistrationRepo.ListActive: %w", err)
	}
	defer rows.Close()

	var regs []domain.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.RegistrationRepo.ListActive: scan: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RegistrationRepo.ListActive: rows: %w", err)
	}

	return regs, nil
}

// Update overwrites the mutable fields of a registration and returns the
// updated record. Status is not touched here; use Cancel for that.
func (r *pgRegistrationRepo) Update(ctx context.Context, reg domain.Registration) (domain.Registration, error) {
	const q = `
		UPDATE registrations
		SET tour_operator        = @tour_operator,
		    registration_date    = @registration_date,
		    tourist_count        = @tourist_count,
		    tourists_by_country  = @tourists_by_country,
		    countries            = @countries,
		    guide_count          = @guide_count,
		    driver_count         = @driver_count,
		    total_amount         = @total_amount,
		    currency             = @currency,
		    vehicle_number       = @vehicle_number,
		    vehicle_type         = @vehicle_type,
		    guide_name           = @guide_name,
		    notes                = @notes,
		    updated_at           = now()
		WHERE id = @id
		RETURNING` + registrationColumns

	args, err := registrationArgs(reg)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.Update: %w", err)
	}
	args["id"] = reg.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanRegistration(row)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.Update: %w", err)
	}
	return result, nil
}

// Cancel marks a registration cancelled by primary key.
func (r *pgRegistrationRepo) Cancel(ctx context.Context, id uuid.UUID) error {
	const q = `
		UPDATE registrations
		SET status = 'cancelled', updated_at = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.RegistrationRepo.Cancel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.RegistrationRepo.Cancel: %w", domain.ErrNotFound)
	}
	return nil
}

// registrationArgs builds the named args shared by Create and Update.
// TouristsByCountry is stored as jsonb; the countries set as text[].
func registrationArgs(reg domain.Registration) (pgx.NamedArgs, error) {
	byCountry, err := json.Marshal(reg.TouristsByCountry)
	if err != nil {
		return nil, fmt.Errorf("marshal tourists_by_country: %w", err)
	}

	status := reg.Status
	if status == "" {
		status = domain.StatusActive
	}

	return pgx.NamedArgs{
		"tour_operator":       reg.TourOperator,
		"registration_date":   reg.RegistrationDate,
		"tourist_count":       reg.TouristCount,
		"tourists_by_country": byCountry,
		"countries":           reg.Countries,
		"guide_count":         reg.GuideCount,
		"driver_count":        reg.DriverCount,
		"total_amount":        reg.TotalAmount,
		"currency":            reg.Currency,
		"vehicle_number":      reg.VehicleNumber,
		"vehicle_type":        reg.VehicleType,
		"guide_name":          reg.GuideName,
		"notes":               reg.Notes,
		"status":              status,
	}, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanRegistration
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanRegistration maps a single database row into a domain.Registration.
// It decodes the jsonb group composition and the text[] country set.
func scanRegistration(s scanner) (domain.Registration, error) {
	var (
		reg       domain.Registration
		id        pgtype.UUID
		byCountry []byte
		status    string
	)

	err := s.Scan(
		&id, &reg.TourOperator, &reg.RegistrationDate, &reg.TouristCount, &byCountry,
		&reg.Countries, &reg.GuideCount, &reg.DriverCount, &reg.TotalAmount, &reg.Currency,
		&reg.VehicleNumber, &reg.VehicleType, &reg.GuideName, &reg.Notes, &status,
		&reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Registration{}, domain.ErrNotFound
		}
		return domain.Registration{}, err
	}

	reg.ID = uuid.UUID(id.Bytes)
	reg.Status = domain.Status(status)
	if len(byCountry) > 0 {
		if err := json.Unmarshal(byCountry, &reg.TouristsByCountry); err != nil {
			return domain.Registration{}, fmt.Errorf("decode tourists_by_country: %w", err)
		}
	}
	return reg, nil
}
