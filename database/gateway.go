package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/yeremiapane/yumpooma/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gateway owns every read and write against the restaurant database.
// Get methods return (nil, nil) when the row does not exist and list methods
// return an empty slice; only storage faults come back as errors.
type Gateway struct {
	db *gorm.DB
}

func NewGateway(db *gorm.DB) *Gateway {
	return &Gateway{db: db}
}

// WithinTx runs fn with a Gateway bound to a single transaction. The
// transaction is rolled back when fn returns an error.
func (g *Gateway) WithinTx(ctx context.Context, fn func(tx *Gateway) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gateway{db: tx})
	})
}

func (g *Gateway) first(ctx context.Context, dest interface{}, query interface{}, args ...interface{}) (bool, error) {
	err := g.db.WithContext(ctx).Where(query, args...).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ---------------------------------------------------------------- menus

func (g *Gateway) ListMenus(ctx context.Context) ([]models.Menu, error) {
	menus := []models.Menu{}
	if err := g.db.WithContext(ctx).Order("id asc").Find(&menus).Error; err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	return menus, nil
}

func (g *Gateway) ListMenusByCategory(ctx context.Context, category string) ([]models.Menu, error) {
	menus := []models.Menu{}
	if err := g.db.WithContext(ctx).
		Where("category = ?", category).
		Order("id asc").
		Find(&menus).Error; err != nil {
		return nil, fmt.Errorf("list menus by category: %w", err)
	}
	return menus, nil
}

func (g *Gateway) ListCategories(ctx context.Context) ([]string, error) {
	categories := []string{}
	if err := g.db.WithContext(ctx).Model(&models.Menu{}).
		Distinct("category").
		Order("category asc").
		Pluck("category", &categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (g *Gateway) GetMenu(ctx context.Context, id uint) (*models.Menu, error) {
	var menu models.Menu
	found, err := g.first(ctx, &menu, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get menu %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &menu, nil
}

func (g *Gateway) CreateMenu(ctx context.Context, menu *models.Menu) error {
	if err := g.db.WithContext(ctx).Create(menu).Error; err != nil {
		return fmt.Errorf("create menu: %w", err)
	}
	return nil
}

// UpdateMenu overwrites every editable column, including clearing
// description and image when they are nil.
func (g *Gateway) UpdateMenu(ctx context.Context, menu *models.Menu) error {
	err := g.db.WithContext(ctx).Model(&models.Menu{}).
		Where("id = ?", menu.ID).
		Select("name", "price", "description", "image", "category").
		Updates(menu).Error
	if err != nil {
		return fmt.Errorf("update menu %d: %w", menu.ID, err)
	}
	return nil
}

// DeleteMenu reports whether a row was removed.
func (g *Gateway) DeleteMenu(ctx context.Context, id uint) (bool, error) {
	res := g.db.WithContext(ctx).Delete(&models.Menu{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete menu %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ---------------------------------------------------------------- reservations

func byDateAndTime(db *gorm.DB) *gorm.DB {
	return db.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "time"}}).
		Order("id asc")
}

func (g *Gateway) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	if err := g.db.WithContext(ctx).Scopes(byDateAndTime).Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return reservations, nil
}

func (g *Gateway) ListReservationsByDate(ctx context.Context, date string) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	if err := g.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: "date"}, Value: date}).
		Scopes(byDateAndTime).
		Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("list reservations for %s: %w", date, err)
	}
	return reservations, nil
}

func (g *Gateway) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	found, err := g.first(ctx, &reservation, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get reservation %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &reservation, nil
}

func (g *Gateway) CreateReservation(ctx context.Context, reservation *models.Reservation) error {
	if err := g.db.WithContext(ctx).Create(reservation).Error; err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

func (g *Gateway) DeleteReservation(ctx context.Context, id uint) (bool, error) {
	res := g.db.WithContext(ctx).Delete(&models.Reservation{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete reservation %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// UpdateReservationStatus reports false when the reservation does not exist.
// An empty status resets the column to NULL.
func (g *Gateway) UpdateReservationStatus(ctx context.Context, id uint, status string) (bool, error) {
	var value interface{}
	if status != "" {
		value = status
	}
	res := g.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ?", id).
		Update("status", value)
	if res.Error != nil {
		return false, fmt.Errorf("update reservation %d: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	// mysql reports zero affected rows when the value is unchanged
	var count int64
	if err := g.db.WithContext(ctx).Model(&models.Reservation{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("update reservation %d: %w", id, err)
	}
	return count > 0, nil
}

// HasConflictingReservation reports whether a reservation for the same date and
// table has its time inside [start, end], both ends inclusive. start and end
// are HH:MM. A nil table number never conflicts.
func (g *Gateway) HasConflictingReservation(ctx context.Context, date string, tableNo *int, start, end string) (bool, error) {
	if tableNo == nil {
		return false, nil
	}

	var count int64
	err := g.db.WithContext(ctx).Model(&models.Reservation{}).
		Where(clause.Eq{Column: clause.Column{Name: "date"}, Value: date}).
		Where("table_no = ?", *tableNo).
		Where(clause.Gte{Column: clause.Column{Name: "time"}, Value: start}).
		Where(clause.Lte{Column: clause.Column{Name: "time"}, Value: end}).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check reservation conflict: %w", err)
	}
	return count > 0, nil
}

// ---------------------------------------------------------------- bills & sales

// CreateBillWithSales writes the bill and its sale rows in one transaction.
// Each sale gets no foreign key to the bill; sales are keyed by date and menu.
func (g *Gateway) CreateBillWithSales(ctx context.Context, bill *models.Bill, sales []models.Sale) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bill).Error; err != nil {
			return fmt.Errorf("create bill: %w", err)
		}
		if len(sales) == 0 {
			return nil
		}
		if err := tx.Create(&sales).Error; err != nil {
			return fmt.Errorf("create sales for bill %d: %w", bill.ID, err)
		}
		return nil
	})
}

func (g *Gateway) GetBill(ctx context.Context, id uint) (*models.Bill, error) {
	var bill models.Bill
	found, err := g.first(ctx, &bill, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get bill %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &bill, nil
}

// ListBills returns the newest bills first. limit <= 0 means no limit.
func (g *Gateway) ListBills(ctx context.Context, limit int) ([]models.Bill, error) {
	bills := []models.Bill{}
	q := g.db.WithContext(ctx).Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&bills).Error; err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	return bills, nil
}

func (g *Gateway) ListSalesByDate(ctx context.Context, date string) ([]models.Sale, error) {
	sales := []models.Sale{}
	if err := g.db.WithContext(ctx).
		Where("sale_date = ?", date).
		Order("id asc").
		Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("list sales for %s: %w", date, err)
	}
	return sales, nil
}

// DailySales sums quantity and line totals for date; both are zero when
// nothing was sold.
func (g *Gateway) DailySales(ctx context.Context, date string) (models.DailySales, error) {
	var row struct {
		Qty   int64
		Total float64
	}
	err := g.db.WithContext(ctx).Model(&models.Sale{}).
		Select("COALESCE(SUM(quantity), 0) AS qty, COALESCE(SUM(total_price), 0) AS total").
		Where("sale_date = ?", date).
		Scan(&row).Error
	if err != nil {
		return models.DailySales{}, fmt.Errorf("daily sales for %s: %w", date, err)
	}
	return models.DailySales{Date: date, Qty: row.Qty, Total: row.Total}, nil
}

// MonthlySales groups every sale by the year and month of sale_date, most
// recent month first. SUBSTR keeps the query portable across sqlite, mysql and
// postgres since sale_date is stored as YYYY-MM-DD text.
func (g *Gateway) MonthlySales(ctx context.Context) ([]models.MonthlySales, error) {
	var rows []struct {
		SaleYear  string
		SaleMonth string
		Qty       int64
		Total     float64
	}
	err := g.db.WithContext(ctx).Raw(`
		SELECT SUBSTR(sale_date, 1, 4) AS sale_year,
			SUBSTR(sale_date, 6, 2) AS sale_month,
			SUM(quantity) AS qty,
			SUM(total_price) AS total
		FROM sales
		GROUP BY SUBSTR(sale_date, 1, 4), SUBSTR(sale_date, 6, 2)
		ORDER BY sale_year DESC, sale_month DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("monthly sales: %w", err)
	}

	months := make([]models.MonthlySales, 0, len(rows))
	for _, r := range rows {
		year, err := strconv.Atoi(r.SaleYear)
		if err != nil {
			return nil, fmt.Errorf("monthly sales: bad year %q: %w", r.SaleYear, err)
		}
		month, err := strconv.Atoi(r.SaleMonth)
		if err != nil {
			return nil, fmt.Errorf("monthly sales: bad month %q: %w", r.SaleMonth, err)
		}
		months = append(months, models.MonthlySales{Year: year, Month: month, Qty: r.Qty, Total: r.Total})
	}
	return months, nil
}

// TopMenus returns the best selling menu ids by quantity.
func (g *Gateway) TopMenus(ctx context.Context, limit int) ([]models.MenuSales, error) {
	top := []models.MenuSales{}
	q := g.db.WithContext(ctx).Model(&models.Sale{}).
		Select("menu_id, SUM(quantity) AS qty, SUM(total_price) AS total").
		Group("menu_id").
		Order("qty desc").
		Order("menu_id asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&top).Error; err != nil {
		return nil, fmt.Errorf("top menus: %w", err)
	}
	return top, nil
}

// ---------------------------------------------------------------- admin

func (g *Gateway) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	found, err := g.first(ctx, &admin, "username = ?", username)
	if err != nil {
		return nil, fmt.Errorf("get admin %q: %w", username, err)
	}
	if !found {
		return nil, nil
	}
	return &admin, nil
}

func (g *Gateway) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	if err := g.db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

func (g *Gateway) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	admins := []models.Admin{}
	if err := g.db.WithContext(ctx).Order("id asc").Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

func (g *Gateway) UpdateAdminPassword(ctx context.Context, id uint, hash string) error {
	if err := g.db.WithContext(ctx).Model(&models.Admin{}).
		Where("id = ?", id).
		Update("password", hash).Error; err != nil {
		return fmt.Errorf("update admin %d password: %w", id, err)
	}
	return nil
}
