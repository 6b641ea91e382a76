// Package export renders registration reports into downloadable documents.
// Builders are pure: they take the aggregation engine's output structures
// and return file bytes, leaving HTTP concerns to the handler.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ganbold/flaming-cliffs/backend/internal/domain"
	"github.com/ganbold/flaming-cliffs/backend/internal/stats"
)

const sheetName = "Tourist Registrations"

var excelHeaders = []any{
	"Date", "Vehicle Number", "Vehicle Type", "Guide Count", "Driver Count",
	"Tour Operator", "Tourist Count", "Countries", "Total Amount", "Currency",
}

// Excel builds an xlsx workbook with one row per registration and a summary
// row at the bottom.
func Excel(regs []domain.Registration, summary stats.Summary) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	if err := f.SetSheetRow(sheetName, "A1", &excelHeaders); err != nil {
		return nil, fmt.Errorf("export.Excel: header row: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6FA"}},
	})
	if err != nil {
		return nil, fmt.Errorf("export.Excel: header style: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "J1", headerStyle); err != nil {
		return nil, fmt.Errorf("export.Excel: apply header style: %w", err)
	}

	widths := []float64{16, 15, 20, 11, 11, 20, 12, 30, 14, 10}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, col, col, w); err != nil {
			return nil, fmt.Errorf("export.Excel: column width: %w", err)
		}
	}

	for i, r := range regs {
		row := []any{
			r.RegistrationDate.Format("2006-01-02 15:04"),
			r.VehicleNumber,
			r.VehicleType,
			r.GuideCount,
			r.DriverCount,
			r.TourOperator,
			r.TouristCount,
			strings.Join(r.Countries, ", "),
			r.TotalAmount,
			r.Currency,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("export.Excel: data row %d: %w", i, err)
		}
	}

	totalRow := []any{
		"Total", "", "",
		summary.TotalGuides,
		summary.TotalDrivers,
		fmt.Sprintf("%d registrations", summary.TotalRegistrations),
		summary.TotalTourists,
		"",
		summary.TotalRevenue,
		"",
	}
	cell, _ := excelize.CoordinatesToCellName(1, len(regs)+2)
	if err := f.SetSheetRow(sheetName, cell, &totalRow); err != nil {
		return nil, fmt.Errorf("export.Excel: total row: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export.Excel: write: %w", err)
	}
	return buf, nil
}
