package services

import (
	"context"
	"time"

	"github.com/yeremiapane/yumpooma/database"
	"github.com/yeremiapane/yumpooma/kds"
	"github.com/yeremiapane/yumpooma/models"
	"github.com/yeremiapane/yumpooma/utils"
)

// OrderRecorder turns a confirmed cart into a Bill plus one Sale per menu item.
type OrderRecorder struct {
	gateway   *database.Gateway
	publisher EventPublisher
	hub       Broadcaster
}

func NewOrderRecorder(gateway *database.Gateway, publisher EventPublisher, hub Broadcaster) *OrderRecorder {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &OrderRecorder{gateway: gateway, publisher: publisher, hub: hub}
}

// mergeLines folds repeated menu ids into one line, keeping the first name and
// price seen and summing quantities. Order of first appearance is kept.
func mergeLines(items []models.CartItem) ([]models.BillItem, error) {
	lines := make([]models.BillItem, 0, len(items))
	index := make(map[uint]int, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, invalid("quantity", "must be at least 1 for %q", item.Name)
		}
		if item.Price < 0 {
			return nil, invalid("price", "must not be negative for %q", item.Name)
		}
		if i, ok := index[item.ID]; ok {
			lines[i].Quantity += item.Quantity
			continue
		}
		index[item.ID] = len(lines)
		lines = append(lines, models.BillItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	return lines, nil
}

// Record stores the bill and its sales atomically. at defaults to now; the
// sale date is its calendar date.
func (r *OrderRecorder) Record(ctx context.Context, tableNo int, items []models.CartItem, at time.Time) (*models.Bill, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if tableNo < 1 {
		return nil, invalid("table_no", "must be at least 1")
	}
	lines, err := mergeLines(items)
	if err != nil {
		return nil, err
	}
	if at.IsZero() {
		at = time.Now()
	}

	bill := &models.Bill{TableNo: tableNo, BillTime: at, Items: lines}
	sales := make([]models.Sale, 0, len(lines))
	saleDate := at.Format(dateLayout)
	for _, line := range lines {
		bill.Total += line.LineTotal()
		sales = append(sales, models.Sale{
			SaleDate:   saleDate,
			MenuID:     line.ID,
			Quantity:   line.Quantity,
			TotalPrice: line.LineTotal(),
		})
	}

	if err := r.gateway.CreateBillWithSales(ctx, bill, sales); err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Bill %d recorded for table %d, total %s", bill.ID, tableNo, utils.FormatBaht(bill.Total))

	event := Event{Type: EventOrderConfirmed, TableNo: &tableNo, OccurredAt: at, Payload: bill}
	if err := r.publisher.Publish(ctx, event); err != nil {
		utils.ErrorLogger.Printf("Error publishing %s for bill %d: %v", EventOrderConfirmed, bill.ID, err)
	}
	if r.hub != nil {
		r.hub.Broadcast(kds.EventBillCreated, bill)
	}
	return bill, nil
}
