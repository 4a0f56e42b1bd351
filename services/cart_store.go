package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/yumpooma/models"
)

// CartStore keeps a cart per session id between requests.
type CartStore interface {
	Load(ctx context.Context, sessionID string) ([]models.CartItem, error)
	Save(ctx context.Context, sessionID string, items []models.CartItem) error
	Clear(ctx context.Context, sessionID string) error
}

type RedisCartStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{Client: client, TTL: ttl}
}

func (s *RedisCartStore) key(sessionID string) string {
	return "cart:" + sessionID
}

func (s *RedisCartStore) Load(ctx context.Context, sessionID string) ([]models.CartItem, error) {
	raw, err := s.Client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	items := []models.CartItem{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Save replaces the cart and refreshes its TTL. An empty cart is deleted.
func (s *RedisCartStore) Save(ctx context.Context, sessionID string, items []models.CartItem) error {
	if len(items) == 0 {
		return s.Clear(ctx, sessionID)
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, s.key(sessionID), payload, s.TTL).Err()
}

func (s *RedisCartStore) Clear(ctx context.Context, sessionID string) error {
	return s.Client.Del(ctx, s.key(sessionID)).Err()
}

type memoryCart struct {
	items   []models.CartItem
	expires time.Time
}

// MemoryCartStore is the single process fallback used when no Redis address
// is configured.
type MemoryCartStore struct {
	mu    sync.Mutex
	carts map[string]memoryCart
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryCartStore(ttl time.Duration) *MemoryCartStore {
	return &MemoryCartStore{
		carts: make(map[string]memoryCart),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *MemoryCartStore) Load(_ context.Context, sessionID string) ([]models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[sessionID]
	if !ok {
		return []models.CartItem{}, nil
	}
	if s.ttl > 0 && s.now().After(cart.expires) {
		delete(s.carts, sessionID)
		return []models.CartItem{}, nil
	}
	return append([]models.CartItem{}, cart.items...), nil
}

func (s *MemoryCartStore) Save(_ context.Context, sessionID string, items []models.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(items) == 0 {
		delete(s.carts, sessionID)
		return nil
	}
	s.carts[sessionID] = memoryCart{
		items:   append([]models.CartItem{}, items...),
		expires: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryCartStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}
