package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganbold/flaming-cliffs/backend/internal/domain"
	"github.com/ganbold/flaming-cliffs/backend/internal/stats"
)

func exportServicer(t *testing.T, wantPeriod string) *mockStatsServicer {
	t.Helper()
	fixture := registrationFixture()
	return &mockStatsServicer{
		export: func(_ context.Context, period string) ([]domain.Registration, stats.Summary, error) {
			assert.Equal(t, wantPeriod, period)
			return []domain.Registration{fixture}, stats.Summarize([]domain.Registration{fixture}), nil
		},
	}
}

func TestExportExcel_200(t *testing.T) {
	h := newHTTPHandler(nil, exportServicer(t, "month"))

	req := httptest.NewRequest(http.MethodGet, "/api/export/excel?period=month", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	// XLSX files are zip archives: PK magic bytes.
	body := rec.Body.Bytes()
	require.Greater(t, len(body), 4)
	assert.Equal(t, []byte{'P', 'K'}, body[:2])
}

func TestExportPDF_200(t *testing.T) {
	h := newHTTPHandler(nil, exportServicer(t, "all"))

	// No period given: the PDF export defaults to "all" so the report line
	// always names a period.
	req := httptest.NewRequest(http.MethodGet, "/api/export/pdf", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".pdf")
	body := rec.Body.Bytes()
	require.Greater(t, len(body), 5)
	assert.Equal(t, "%PDF-", string(body[:5]))
}
