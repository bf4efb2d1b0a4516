package store

import (
	"sort"
	"sync"

	"toyexchange/internal/domain"
)

// InstrumentStore is a thread-safe in-memory registry of tradable
// instruments, keyed by ticker. The engine treats it as read-only
// reference data and never validates tickers against it itself.
type InstrumentStore struct {
	mu          sync.RWMutex
	instruments map[string]*domain.Instrument
}

// NewInstrumentStore creates an empty InstrumentStore.
func NewInstrumentStore() *InstrumentStore {
	return &InstrumentStore{
		instruments: make(map[string]*domain.Instrument),
	}
}

// Create adds an instrument to the registry. It returns
// domain.ErrInstrumentExists if the ticker is already registered.
func (s *InstrumentStore) Create(i *domain.Instrument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.instruments[i.Ticker]; exists {
		return domain.ErrInstrumentExists
	}
	s.instruments[i.Ticker] = i
	return nil
}

// Delete removes an instrument by ticker. It returns
// domain.ErrInstrumentNotFound if the ticker is not registered.
func (s *InstrumentStore) Delete(ticker string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.instruments[ticker]; !exists {
		return domain.ErrInstrumentNotFound
	}
	delete(s.instruments, ticker)
	return nil
}

// Exists returns true if the ticker is registered.
func (s *InstrumentStore) Exists(ticker string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.instruments[ticker]
	return ok
}

// List returns all instruments sorted by ticker.
func (s *InstrumentStore) List() []*domain.Instrument {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Instrument, 0, len(s.instruments))
	for _, i := range s.instruments {
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].Ticker < out[b].Ticker
	})
	return out
}
