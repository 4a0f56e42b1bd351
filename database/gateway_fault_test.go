package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/yumpooma/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errStorage = errors.New("connection reset by peer")

func newMockGateway(t *testing.T) (*Gateway, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return NewGateway(db), mock
}

func TestListMenusPropagatesStorageFault(t *testing.T) {
	g, mock := newMockGateway(t)
	mock.ExpectQuery("SELECT \\* FROM `menus`").WillReturnError(errStorage)

	menus, err := g.ListMenus(context.Background())
	assert.Nil(t, menus)
	assert.ErrorIs(t, err, errStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMenuNoRowsIsNotAnError(t *testing.T) {
	g, mock := newMockGateway(t)
	mock.ExpectQuery("SELECT \\* FROM `menus`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "category"}))

	menu, err := g.GetMenu(context.Background(), 7)
	assert.NoError(t, err)
	assert.Nil(t, menu)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConflictCheckPropagatesStorageFault(t *testing.T) {
	g, mock := newMockGateway(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `reservations`").WillReturnError(errStorage)

	table := 5
	conflict, err := g.HasConflictingReservation(context.Background(), "2024-01-01", &table, "17:30", "19:00")
	assert.False(t, conflict)
	assert.ErrorIs(t, err, errStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBillWithSalesRollsBackOnSaleFailure(t *testing.T) {
	g, mock := newMockGateway(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `bills`").WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("INSERT INTO `sales`").WillReturnError(errStorage)
	mock.ExpectRollback()

	bill := &models.Bill{
		TableNo:  3,
		BillTime: time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC),
		Items:    []models.BillItem{{ID: 1, Name: "Larb", Price: 90, Quantity: 1}},
		Total:    90,
	}
	sales := []models.Sale{{SaleDate: "2024-01-01", MenuID: 1, Quantity: 1, TotalPrice: 90}}

	err := g.CreateBillWithSales(context.Background(), bill, sales)
	assert.ErrorIs(t, err, errStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailySalesPropagatesStorageFault(t *testing.T) {
	g, mock := newMockGateway(t)
	mock.ExpectQuery("SELECT COALESCE").WillReturnError(errStorage)

	_, err := g.DailySales(context.Background(), "2024-01-01")
	assert.ErrorIs(t, err, errStorage)
}
