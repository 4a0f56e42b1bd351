package services

import (
	"context"
	"time"

	"github.com/yeremiapane/yumpooma/database"
	"github.com/yeremiapane/yumpooma/models"
	"github.com/yeremiapane/yumpooma/utils"
)

// CartService edits a session's cart and turns it into a bill on checkout.
type CartService struct {
	store    CartStore
	gateway  *database.Gateway
	recorder *OrderRecorder
	sessions *keyedMutex
}

func NewCartService(store CartStore, gateway *database.Gateway, recorder *OrderRecorder) *CartService {
	return &CartService{
		store:    store,
		gateway:  gateway,
		recorder: recorder,
		sessions: newKeyedMutex(),
	}
}

func (s *CartService) Get(ctx context.Context, sessionID string) (models.Cart, error) {
	items, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return models.Cart{}, err
	}
	return models.NewCart(items), nil
}

// update loads the cart, applies fn and saves the result while holding the
// session lock.
func (s *CartService) update(ctx context.Context, sessionID string, fn func([]models.CartItem) ([]models.CartItem, error)) (models.Cart, error) {
	unlock := s.sessions.Lock(sessionID)
	defer unlock()

	items, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return models.Cart{}, err
	}
	items, err = fn(items)
	if err != nil {
		return models.Cart{}, err
	}
	if err := s.store.Save(ctx, sessionID, items); err != nil {
		return models.Cart{}, err
	}
	return models.NewCart(items), nil
}

func findItem(items []models.CartItem, menuID uint) int {
	for i, item := range items {
		if item.ID == menuID {
			return i
		}
	}
	return -1
}

// Add puts one more of the menu in the cart. The name and price are taken
// from the menu at the time of the first add.
func (s *CartService) Add(ctx context.Context, sessionID string, menuID uint) (models.Cart, error) {
	menu, err := s.gateway.GetMenu(ctx, menuID)
	if err != nil {
		return models.Cart{}, err
	}
	if menu == nil {
		return models.Cart{}, ErrMenuNotFound
	}

	return s.update(ctx, sessionID, func(items []models.CartItem) ([]models.CartItem, error) {
		if i := findItem(items, menuID); i >= 0 {
			items[i].Quantity++
			return items, nil
		}
		return append(items, models.CartItem{
			ID:       menu.ID,
			Name:     menu.Name,
			Price:    menu.Price,
			Quantity: 1,
		}), nil
	})
}

func (s *CartService) Increase(ctx context.Context, sessionID string, menuID uint) (models.Cart, error) {
	return s.update(ctx, sessionID, func(items []models.CartItem) ([]models.CartItem, error) {
		i := findItem(items, menuID)
		if i < 0 {
			return nil, ErrItemNotInCart
		}
		items[i].Quantity++
		return items, nil
	})
}

// Decrease never takes a line below one; use Remove to drop it.
func (s *CartService) Decrease(ctx context.Context, sessionID string, menuID uint) (models.Cart, error) {
	return s.update(ctx, sessionID, func(items []models.CartItem) ([]models.CartItem, error) {
		i := findItem(items, menuID)
		if i < 0 {
			return nil, ErrItemNotInCart
		}
		if items[i].Quantity > 1 {
			items[i].Quantity--
		}
		return items, nil
	})
}

// Remove drops the line for menuID. Removing an absent item is not an error.
func (s *CartService) Remove(ctx context.Context, sessionID string, menuID uint) (models.Cart, error) {
	return s.update(ctx, sessionID, func(items []models.CartItem) ([]models.CartItem, error) {
		kept := items[:0]
		for _, item := range items {
			if item.ID != menuID {
				kept = append(kept, item)
			}
		}
		return kept, nil
	})
}

// Checkout records the cart as a bill for tableNo and empties it.
func (s *CartService) Checkout(ctx context.Context, sessionID string, tableNo int) (*models.Bill, error) {
	unlock := s.sessions.Lock(sessionID)
	defer unlock()

	items, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	bill, err := s.recorder.Record(ctx, tableNo, items, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Clear(ctx, sessionID); err != nil {
		utils.ErrorLogger.Printf("Error clearing cart for session %s after bill %d: %v", sessionID, bill.ID, err)
	}
	return bill, nil
}
