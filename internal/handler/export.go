package handler

// The export handlers stream file downloads built from the same filtered
// registration set the list endpoint serves. Both accept ?period=.

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ganbold/flaming-cliffs/backend/internal/export"
)

// exportExcel handles GET /api/export/excel.
func (s *Server) exportExcel(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	regs, summary, err := s.stats.Export(r.Context(), period)
	if err != nil {
		respondError(w, r, err, "export data not found")
		return
	}

	buf, err := export.Excel(regs, summary)
	if err != nil {
		respondError(w, r, err, "export data not found")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename("xlsx")))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	_, _ = buf.WriteTo(w)
}

// exportPDF handles GET /api/export/pdf.
func (s *Server) exportPDF(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "all"
	}
	regs, summary, err := s.stats.Export(r.Context(), period)
	if err != nil {
		respondError(w, r, err, "export data not found")
		return
	}

	buf, err := export.PDF(regs, summary, period)
	if err != nil {
		respondError(w, r, err, "export data not found")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename("pdf")))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	_, _ = buf.WriteTo(w)
}

// exportFilename stamps the download name with the current date so repeated
// exports don't collide in the browser's download folder.
func exportFilename(ext string) string {
	return fmt.Sprintf("tourist-registrations-%s.%s", time.Now().Format("2006-01-02"), ext)
}
