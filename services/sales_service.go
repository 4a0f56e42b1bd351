package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/yeremiapane/yumpooma/database"
	"github.com/yeremiapane/yumpooma/models"
	"github.com/yeremiapane/yumpooma/utils"
)

var ErrNoSalesData = errors.New("no sales to chart")

// MonthlyReportRow is a monthly rollup with the Buddhist era year shown on
// the report.
type MonthlyReportRow struct {
	models.MonthlySales
	BuddhistYear int `json:"buddhist_year"`
}

type SalesReport struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Daily       models.DailySales  `json:"daily"`
	Monthly     []MonthlyReportRow `json:"monthly"`
}

// TopMenu is a best seller. Name falls back to "Menu #id" once the menu is
// deleted.
type TopMenu struct {
	models.MenuSales
	Name string `json:"name"`
}

// SalesService computes sales rollups. Nothing is cached.
type SalesService struct {
	gateway *database.Gateway
}

func NewSalesService(gateway *database.Gateway) *SalesService {
	return &SalesService{gateway: gateway}
}

func (s *SalesService) Daily(ctx context.Context, date string) (models.DailySales, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return models.DailySales{}, invalid("date", "must be YYYY-MM-DD")
	}
	return s.gateway.DailySales(ctx, date)
}

func (s *SalesService) Monthly(ctx context.Context) ([]models.MonthlySales, error) {
	return s.gateway.MonthlySales(ctx)
}

// Report combines the rollup for today's date with every monthly rollup.
func (s *SalesService) Report(ctx context.Context, today time.Time) (*SalesReport, error) {
	daily, err := s.gateway.DailySales(ctx, today.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	months, err := s.gateway.MonthlySales(ctx)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{
		GeneratedAt: today,
		Daily:       daily,
		Monthly:     make([]MonthlyReportRow, 0, len(months)),
	}
	for _, m := range months {
		report.Monthly = append(report.Monthly, MonthlyReportRow{
			MonthlySales: m,
			BuddhistYear: utils.BuddhistYear(m.Year),
		})
	}
	return report, nil
}

func (s *SalesService) TopMenus(ctx context.Context, limit int) ([]TopMenu, error) {
	ranked, err := s.gateway.TopMenus(ctx, limit)
	if err != nil {
		return nil, err
	}
	menus, err := s.gateway.ListMenus(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(menus))
	for _, m := range menus {
		names[m.ID] = m.Name
	}

	top := make([]TopMenu, 0, len(ranked))
	for _, r := range ranked {
		name, ok := names[r.MenuID]
		if !ok {
			name = fmt.Sprintf("Menu #%d", r.MenuID)
		}
		top = append(top, TopMenu{MenuSales: r, Name: name})
	}
	return top, nil
}

// pdfAmount swaps the baht sign for a code the core PDF fonts can draw.
func pdfAmount(amount float64) string {
	return strings.Replace(utils.FormatBaht(amount), "฿", "THB ", 1)
}

// ExportPDF writes report as a one page A4 PDF.
func (s *SalesService) ExportPDF(w io.Writer, report *SalesReport) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Sales Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Yumpooma Sales Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated "+report.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Today ("+report.Daily.Date+")", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(60, 7, "Items sold", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, fmt.Sprintf("%d", report.Daily.Qty), "1", 1, "R", false, 0, "")
	pdf.CellFormat(60, 7, "Revenue", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, pdfAmount(report.Daily.Total), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Monthly", "", 1, "L", false, 0, "")
	pdf.SetFillColor(230, 230, 230)
	pdf.SetFont("Helvetica", "B", 11)
	for _, h := range []struct {
		label string
		width float64
	}{{"Month", 50}, {"Year (BE)", 35}, {"Items", 35}, {"Revenue", 50}} {
		pdf.CellFormat(h.width, 7, h.label, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	if len(report.Monthly) == 0 {
		pdf.CellFormat(170, 7, "No sales recorded", "1", 1, "C", false, 0, "")
	}
	for _, row := range report.Monthly {
		pdf.CellFormat(50, 7, time.Month(row.Month).String(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%d", row.BuddhistYear), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%d", row.Qty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 7, pdfAmount(row.Total), "1", 1, "R", false, 0, "")
	}

	return pdf.Output(w)
}

// MonthlyChartPNG draws monthly revenue as a bar chart, oldest month first.
func (s *SalesService) MonthlyChartPNG(w io.Writer, rows []models.MonthlySales) error {
	bars := make([]chart.Value, 0, len(rows))
	peak := 0.0
	for i := len(rows) - 1; i >= 0; i-- {
		r := rows[i]
		if r.Total > peak {
			peak = r.Total
		}
		bars = append(bars, chart.Value{
			Value: r.Total,
			Label: fmt.Sprintf("%s %d", time.Month(r.Month).String()[:3], r.Year),
		})
	}
	if peak <= 0 {
		return ErrNoSalesData
	}

	graph := chart.BarChart{
		Title:    "Monthly revenue",
		Width:    960,
		Height:   480,
		BarWidth: 48,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: peak * 1.1},
		},
		Bars: bars,
	}
	return graph.Render(chart.PNG, w)
}
