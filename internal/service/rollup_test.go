package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganbold/flaming-cliffs/backend/internal/domain"
	"github.com/ganbold/flaming-cliffs/backend/internal/service"
)

func TestRollupService_Reconcile_RebuildsEachDay(t *testing.T) {
	loc := time.UTC
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	var windows []domain.Window
	regs := &mockRegistrationRepo{
		listActive: func(_ context.Context, w domain.Window) ([]domain.Registration, error) {
			windows = append(windows, w)
			if !w.Contains(today.Add(10 * time.Hour)) {
				return nil, nil
			}
			// Today's registrations: one domestic, one international.
			return []domain.Registration{
				{
					RegistrationDate: today.Add(10 * time.Hour),
					TouristCount:     2,
					Countries:        []string{"Mongolia"},
					TotalAmount:      20000,
				},
				{
					RegistrationDate: today.Add(14 * time.Hour),
					TouristCount:     3,
					Countries:        []string{"Japan"},
					TotalAmount:      90000,
				},
			}, nil
		},
	}

	var upserts []domain.VisitorStats
	days := &mockVisitorStatsRepo{
		upsertDay: func(_ context.Context, s domain.VisitorStats) (domain.VisitorStats, error) {
			upserts = append(upserts, s)
			return s, nil
		},
	}

	svc := service.NewRollupService(regs, days, loc)

	err := svc.Reconcile(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, windows, 3, "one window per lookback day")
	require.Len(t, upserts, 3)

	// Days run oldest to newest; the last upsert is today's rebuilt row.
	last := upserts[2]
	assert.Equal(t, 2, last.DomesticVisitors)
	assert.Equal(t, 3, last.InternationalVisitors)
	assert.Equal(t, 20000.0, last.DomesticRevenue)
	assert.Equal(t, 90000.0, last.InternationalRevenue)
	assert.Equal(t, []domain.HourlyEntry{
		{Hour: 10, Visitors: 2},
		{Hour: 14, Visitors: 3},
	}, last.HourlyBreakdown)

	// Empty days are still written, zeroing out any stale increments.
	assert.Zero(t, upserts[0].DomesticVisitors)
	assert.Zero(t, upserts[0].InternationalVisitors)
}

func TestRollupService_Reconcile_ContinuesPastFailedDay(t *testing.T) {
	calls := 0
	regs := &mockRegistrationRepo{
		listActive: func(context.Context, domain.Window) ([]domain.Registration, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("connection reset")
			}
			return nil, nil
		},
	}
	days := &mockVisitorStatsRepo{
		upsertDay: func(_ context.Context, s domain.VisitorStats) (domain.VisitorStats, error) {
			return s, nil
		},
	}
	svc := service.NewRollupService(regs, days, time.UTC)

	err := svc.Reconcile(context.Background(), 3)

	assert.Error(t, err, "a failed day surfaces after the others ran")
	assert.Equal(t, 3, calls, "remaining days still reconciled")
}
