package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/yumpooma/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestMenuCRUD(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(setupTestDB(t))

	menu := &models.Menu{Name: "Pad Thai", Price: 80, Category: "Noodle", Description: strPtr("rice noodles")}
	require.NoError(t, g.CreateMenu(ctx, menu))
	assert.NotZero(t, menu.ID)

	got, err := g.GetMenu(ctx, menu.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Pad Thai", got.Name)
	assert.Equal(t, "rice noodles", *got.Description)

	got.Price = 95
	got.Description = nil
	require.NoError(t, g.UpdateMenu(ctx, got))

	updated, err := g.GetMenu(ctx, menu.ID)
	require.NoError(t, err)
	assert.Equal(t, 95.0, updated.Price)
	assert.Nil(t, updated.Description)

	deleted, err := g.DeleteMenu(ctx, menu.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = g.DeleteMenu(ctx, menu.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestGetMissingRecordsReturnNil(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(setupTestDB(t))

	menu, err := g.GetMenu(ctx, 42)
	assert.NoError(t, err)
	assert.Nil(t, menu)

	reservation, err := g.GetReservation(ctx, 42)
	assert.NoError(t, err)
	assert.Nil(t, reservation)

	bill, err := g.GetBill(ctx, 42)
	assert.NoError(t, err)
	assert.Nil(t, bill)

	admin, err := g.GetAdminByUsername(ctx, "nobody")
	assert.NoError(t, err)
	assert.Nil(t, admin)

	menus, err := g.ListMenus(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, menus)
	assert.Empty(t, menus)
}

func TestListMenusByCategoryAndCategories(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(setupTestDB(t))

	for _, m := range []models.Menu{
		{Name: "Tom Yum", Price: 120, Category: "Soup"},
		{Name: "Green Curry", Price: 110, Category: "Curry"},
		{Name: "Tom Kha", Price: 115, Category: "Soup"},
	} {
		m := m
		require.NoError(t, g.CreateMenu(ctx, &m))
	}

	soups, err := g.ListMenusByCategory(ctx, "Soup")
	require.NoError(t, err)
	require.Len(t, soups, 2)
	assert.Equal(t, "Tom Yum", soups[0].Name)
	assert.Equal(t, "Tom Kha", soups[1].Name)

	categories, err := g.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Curry", "Soup"}, categories)
}

func TestListReservationsOrderedByDateAndTime(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(setupTestDB(t))

	for _, r := range []models.Reservation{
		{Name: "C", Date: "2024-01-02", Time: "12:00", People: 2},
		{Name: "B", Date: "2024-01-01", Time: "19:00", People: 2},
		{Name: "A", Date: "2024-01-01", Time: "18:00", People: 2},
	} {
		r := r
		require.NoError(t, g.CreateReservation(ctx, &r))
	}

	all, err := g.ListReservations(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{all[0].Name, all[1].Name, all[2].Name})

	day, err := g.ListReservationsByDate(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Len(t, day, 2)
}

func TestHasConflictingReservation(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(setupTestDB(t))

	require.NoError(t, g.CreateReservation(ctx, &models.Reservation{
		Name: "Somchai", Date: "2024-01-01", Time: "18:00", TableNo: intPtr(5), People: 4,
	}))

	tests := []struct {
		name       string
		date       string
		table      *int
		start, end string
		want       bool
	}{
		{"inside window", "2024-01-01", intPtr(5), "17:50", "19:20", true},
		{"bounds are inclusive", "2024-01-01", intPtr(5), "18:00", "18:00", true},
		{"before window", "2024-01-01", intPtr(5), "15:30", "17:00", false},
		{"other table", "2024-01-01", intPtr(6), "17:50", "19:20", false},
		{"other date", "2024-01-02", intPtr(5), "17:50", "19:20", false},
		{"no table never conflicts", "2024-01-01", nil, "00:00", "23:59", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.HasConflictingReservation(ctx, tt.date, tt.table, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpdateReservationStatus(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(setupTestDB(t))

	r := &models.Reservation{Name: "Nok", Date: "2024-02-14", Time: "19:30", People: 2}
	require.NoError(t, g.CreateReservation(ctx, r))

	ok, err := g.UpdateReservationStatus(ctx, r.ID, models.ReservationConfirmed)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := g.GetReservation(ctx, r.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Status)
	assert.Equal(t, models.ReservationConfirmed, *got.Status)

	ok, err = g.UpdateReservationStatus(ctx, r.ID, "")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = g.GetReservation(ctx, r.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Status, "cleared status is stored as NULL like a new reservation")

	var nulls int64
	require.NoError(t, g.db.Model(&models.Reservation{}).Where("status IS NULL").Count(&nulls).Error)
	assert.Equal(t, int64(1), nulls)

	ok, err = g.UpdateReservationStatus(ctx, 999, models.ReservationConfirmed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func recordBill(t *testing.T, g *Gateway, at time.Time, items ...models.BillItem) *models.Bill {
	t.Helper()
	bill := &models.Bill{TableNo: 1, BillTime: at, Items: items}
	sales := make([]models.Sale, 0, len(items))
	for _, item := range items {
		bill.Total += item.LineTotal()
		sales = append(sales, models.Sale{
			SaleDate:   at.Format("2006-01-02"),
			MenuID:     item.ID,
			Quantity:   item.Quantity,
			TotalPrice: item.LineTotal(),
		})
	}
	require.NoError(t, g.CreateBillWithSales(context.Background(), bill, sales))
	return bill
}

func TestCreateBillWithSales(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(setupTestDB(t))
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	bill := recordBill(t, g,
		at,
		models.BillItem{ID: 1, Name: "Som Tam", Price: 100, Quantity: 2},
		models.BillItem{ID: 2, Name: "Sticky Rice", Price: 50, Quantity: 1},
	)
	assert.Equal(t, 250.0, bill.Total)

	stored, err := g.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 250.0, stored.Total)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "Som Tam", stored.Items[0].Name)

	sales, err := g.ListSalesByDate(ctx, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, 200.0, sales[0].TotalPrice)
	assert.Equal(t, 50.0, sales[1].TotalPrice)
}

func TestDeletingMenuKeepsBillSnapshot(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(setupTestDB(t))

	menu := &models.Menu{Name: "Massaman", Price: 140, Category: "Curry"}
	require.NoError(t, g.CreateMenu(ctx, menu))
	bill := recordBill(t, g, time.Now(), models.BillItem{ID: menu.ID, Name: menu.Name, Price: menu.Price, Quantity: 1})

	_, err := g.DeleteMenu(ctx, menu.ID)
	require.NoError(t, err)

	stored, err := g.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Massaman", stored.Items[0].Name)
	assert.Equal(t, 140.0, stored.Total)
}

func TestDailySales(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(setupTestDB(t))

	empty, err := g.DailySales(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.Qty)
	assert.Equal(t, 0.0, empty.Total)

	day := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	recordBill(t, g, day, models.BillItem{ID: 1, Price: 100, Quantity: 2})
	recordBill(t, g, day.Add(3*time.Hour), models.BillItem{ID: 2, Price: 50, Quantity: 1})
	recordBill(t, g, day.AddDate(0, 0, 1), models.BillItem{ID: 2, Price: 50, Quantity: 4})

	got, err := g.DailySales(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", got.Date)
	assert.Equal(t, int64(3), got.Qty)
	assert.Equal(t, 250.0, got.Total)
}

func TestMonthlySalesGroupedAndDescending(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(setupTestDB(t))

	recordBill(t, g, time.Date(2023, 12, 31, 20, 0, 0, 0, time.UTC), models.BillItem{ID: 1, Price: 10, Quantity: 1})
	recordBill(t, g, time.Date(2024, 1, 5, 20, 0, 0, 0, time.UTC), models.BillItem{ID: 1, Price: 10, Quantity: 2})
	recordBill(t, g, time.Date(2024, 1, 20, 20, 0, 0, 0, time.UTC), models.BillItem{ID: 2, Price: 30, Quantity: 1})
	recordBill(t, g, time.Date(2024, 2, 1, 20, 0, 0, 0, time.UTC), models.BillItem{ID: 2, Price: 30, Quantity: 3})

	months, err := g.MonthlySales(ctx)
	require.NoError(t, err)
	require.Len(t, months, 3)

	assert.Equal(t, models.MonthlySales{Year: 2024, Month: 2, Qty: 3, Total: 90}, months[0])
	assert.Equal(t, models.MonthlySales{Year: 2024, Month: 1, Qty: 3, Total: 50}, months[1])
	assert.Equal(t, models.MonthlySales{Year: 2023, Month: 12, Qty: 1, Total: 10}, months[2])
}

func TestTopMenus(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(setupTestDB(t))
	now := time.Now()

	recordBill(t, g, now, models.BillItem{ID: 1, Price: 10, Quantity: 1}, models.BillItem{ID: 2, Price: 20, Quantity: 5})
	recordBill(t, g, now, models.BillItem{ID: 3, Price: 5, Quantity: 2}, models.BillItem{ID: 1, Price: 10, Quantity: 1})

	top, err := g.TopMenus(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, uint(2), top[0].MenuID)
	assert.Equal(t, int64(5), top[0].Qty)
	assert.Equal(t, uint(1), top[1].MenuID)
	assert.Equal(t, 20.0, top[1].Total)
}

func TestWithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(setupTestDB(t))
	errAbort := errors.New("abort")

	err := g.WithinTx(ctx, func(tx *Gateway) error {
		if err := tx.CreateMenu(ctx, &models.Menu{Name: "Ghost", Price: 1, Category: "X"}); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	menus, err := g.ListMenus(ctx)
	require.NoError(t, err)
	assert.Empty(t, menus)
}
