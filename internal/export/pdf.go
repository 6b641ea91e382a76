package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"github.com/ganbold/flaming-cliffs/backend/internal/domain"
	"github.com/ganbold/flaming-cliffs/backend/internal/stats"
)

// PDF builds a portrait A4 report: title, period, summary block, and a
// registrations table.
func PDF(regs []domain.Registration, summary stats.Summary, period string) (*bytes.Buffer, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(15, 15, 15)

	darkGray := color.Color{Red: 38, Green: 38, Blue: 34}
	mediumGray := color.Color{Red: 121, Green: 119, Blue: 109}

	m.Row(12, func() {
		m.Col(12, func() {
			m.Text("Flaming Cliffs Tourist Registrations", props.Text{
				Size:  18,
				Style: consts.Bold,
				Color: darkGray,
			})
		})
	})
	m.Row(7, func() {
		m.Col(12, func() {
			m.Text(fmt.Sprintf("Period: %s", period), props.Text{
				Size:  10,
				Color: mediumGray,
			})
		})
	})

	m.Row(6, func() {})

	summaryLines := []string{
		fmt.Sprintf("Registrations: %d", summary.TotalRegistrations),
		fmt.Sprintf("Tourists: %d", summary.TotalTourists),
		fmt.Sprintf("Guides: %d  Drivers: %d", summary.TotalGuides, summary.TotalDrivers),
		fmt.Sprintf("Revenue: %.2f", summary.TotalRevenue),
	}
	for _, line := range summaryLines {
		m.Row(5, func() {
			m.Col(12, func() {
				m.Text(line, props.Text{Size: 10, Color: darkGray})
			})
		})
	}

	m.Row(6, func() {})

	headers := []string{"Date", "Operator", "Tourists", "Countries", "Amount"}
	contents := make([][]string, 0, len(regs))
	for _, r := range regs {
		contents = append(contents, []string{
			r.RegistrationDate.Format("2006-01-02"),
			r.TourOperator,
			fmt.Sprintf("%d", r.TouristCount),
			strings.Join(r.Countries, ", "),
			fmt.Sprintf("%.2f %s", r.TotalAmount, r.Currency),
		})
	}
	m.TableList(headers, contents, props.TableList{
		HeaderProp:  props.TableListContent{Size: 9, Style: consts.Bold},
		ContentProp: props.TableListContent{Size: 8},
		Align:       consts.Left,
		Line:        true,
	})

	buf, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("export.PDF: render: %w", err)
	}
	return &buf, nil
}
