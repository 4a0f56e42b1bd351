package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/yumpooma/models"
)

func seedSales(t *testing.T, recorder *OrderRecorder) {
	t.Helper()
	ctx := context.Background()
	for _, o := range []struct {
		at    time.Time
		items []models.CartItem
	}{
		{time.Date(2023, 12, 30, 19, 0, 0, 0, time.Local), []models.CartItem{{ID: 1, Name: "Pad Kra Pao", Price: 80, Quantity: 1}}},
		{time.Date(2024, 1, 15, 19, 0, 0, 0, time.Local), []models.CartItem{{ID: 1, Name: "Pad Kra Pao", Price: 80, Quantity: 2}, {ID: 2, Name: "Mango Sticky Rice", Price: 90, Quantity: 1}}},
		{time.Date(2024, 1, 16, 12, 0, 0, 0, time.Local), []models.CartItem{{ID: 2, Name: "Mango Sticky Rice", Price: 90, Quantity: 3}}},
	} {
		_, err := recorder.Record(ctx, 1, o.items, o.at)
		require.NoError(t, err)
	}
}

func TestDailyRejectsBadDate(t *testing.T) {
	svc := NewSalesService(setupGateway(t))
	_, err := svc.Daily(context.Background(), "16/01/2024")
	assert.True(t, IsValidation(err))
}

func TestDailyWithoutSalesIsZero(t *testing.T) {
	svc := NewSalesService(setupGateway(t))
	day, err := svc.Daily(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, models.DailySales{Date: "2024-01-01"}, day)
}

func TestReport(t *testing.T) {
	g := setupGateway(t)
	seedSales(t, NewOrderRecorder(g, nil, nil))
	svc := NewSalesService(g)

	report, err := svc.Report(context.Background(), time.Date(2024, 1, 16, 20, 0, 0, 0, time.Local))
	require.NoError(t, err)

	assert.Equal(t, models.DailySales{Date: "2024-01-16", Qty: 3, Total: 270}, report.Daily)
	require.Len(t, report.Monthly, 2)
	assert.Equal(t, 2024, report.Monthly[0].Year)
	assert.Equal(t, 1, report.Monthly[0].Month)
	assert.Equal(t, 2567, report.Monthly[0].BuddhistYear)
	assert.Equal(t, int64(6), report.Monthly[0].Qty)
	assert.Equal(t, 520.0, report.Monthly[0].Total)
	assert.Equal(t, 2566, report.Monthly[1].BuddhistYear)
}

func TestExportPDF(t *testing.T) {
	g := setupGateway(t)
	seedSales(t, NewOrderRecorder(g, nil, nil))
	svc := NewSalesService(g)

	report, err := svc.Report(context.Background(), time.Now())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportPDF(&buf, report))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestMonthlyChartPNG(t *testing.T) {
	svc := NewSalesService(setupGateway(t))
	rows := []models.MonthlySales{
		{Year: 2024, Month: 2, Qty: 4, Total: 400},
		{Year: 2024, Month: 1, Qty: 2, Total: 150},
	}

	var buf bytes.Buffer
	require.NoError(t, svc.MonthlyChartPNG(&buf, rows))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	buf.Reset()
	assert.ErrorIs(t, svc.MonthlyChartPNG(&buf, nil), ErrNoSalesData)
	assert.ErrorIs(t, svc.MonthlyChartPNG(&buf, []models.MonthlySales{{Year: 2024, Month: 1}}), ErrNoSalesData)
}

func TestTopMenus(t *testing.T) {
	ctx := context.Background()
	g := setupGateway(t)
	kept := seedMenu(t, g, "Pad Kra Pao", 80)
	require.Equal(t, uint(1), kept.ID)
	seedSales(t, NewOrderRecorder(g, nil, nil))
	svc := NewSalesService(g)

	top, err := svc.TopMenus(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)

	assert.Equal(t, uint(2), top[0].MenuID)
	assert.Equal(t, "Menu #2", top[0].Name)
	assert.Equal(t, int64(4), top[0].Qty)
	assert.Equal(t, uint(1), top[1].MenuID)
	assert.Equal(t, "Pad Kra Pao", top[1].Name)
}
