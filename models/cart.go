package models

// CartItem lives in the cart store until the cart is confirmed into a Bill.
type CartItem struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Cart is what the cart endpoints return.
type Cart struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

// NewCart copies items and sums their totals.
func NewCart(items []CartItem) Cart {
	cart := Cart{Items: make([]CartItem, 0, len(items))}
	for _, item := range items {
		cart.Items = append(cart.Items, item)
		cart.Total += item.LineTotal()
	}
	return cart
}
