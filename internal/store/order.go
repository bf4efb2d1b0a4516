package store

import (
	"sync"

	"toyexchange/internal/domain"
)

// OrderStore is a thread-safe in-memory store for orders, with a primary
// index by order id and a secondary index by user id. It exclusively owns
// the Order records; the order book holds references into this store so
// that fills mutate one authoritative object.
type OrderStore struct {
	mu         sync.RWMutex
	orders     map[string]*domain.Order
	userOrders map[string][]*domain.Order // user_id → orders (append-only)
}

// NewOrderStore creates an empty OrderStore.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders:     make(map[string]*domain.Order),
		userOrders: make(map[string][]*domain.Order),
	}
}

// Create adds an order to the store and appends it to the user's
// secondary index. Only orders accepted by the engine are registered;
// failed submissions never reach the store.
func (s *OrderStore) Create(o *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[o.ID] = o
	s.userOrders[o.UserID] = append(s.userOrders[o.UserID], o)
}

// Get retrieves an order by ID. It returns domain.ErrOrderNotFound if the
// order does not exist.
func (s *OrderStore) Get(id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

// ListActiveByUser returns the user's NEW and PARTIALLY_EXECUTED orders in
// submission order.
func (s *OrderStore) ListActiveByUser(userID string) []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]*domain.Order, 0)
	for _, o := range s.userOrders[userID] {
		if o.Active() {
			active = append(active, o)
		}
	}
	return active
}
