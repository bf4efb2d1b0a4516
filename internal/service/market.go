package service

import (
	"time"

	"toyexchange/internal/domain"
	"toyexchange/internal/engine"
	"toyexchange/internal/store"
)

// MaxBookDepth bounds the number of L2 levels a snapshot may request.
const MaxBookDepth = 25

// MaxHistoryLimit bounds the number of transactions a history query may request.
const MaxHistoryLimit = 100

// BookSnapshot is the aggregated L2 view of one ticker's order book.
type BookSnapshot struct {
	Ticker     string
	BidLevels  []engine.PriceLevel // price descending
	AskLevels  []engine.PriceLevel // price ascending
	SnapshotAt time.Time
}

// MarketService serves public market data: the instrument list, L2 book
// snapshots, and trade history. Reads never take the engine's lock and may
// observe a book mid-update; this is accepted best-effort consistency.
type MarketService struct {
	instruments *store.InstrumentStore
	books       *engine.BookManager
	log         *store.TransactionLog
}

// NewMarketService creates a new MarketService with the given dependencies.
func NewMarketService(
	instruments *store.InstrumentStore,
	books *engine.BookManager,
	log *store.TransactionLog,
) *MarketService {
	return &MarketService{
		instruments: instruments,
		books:       books,
		log:         log,
	}
}

// Instruments returns all registered instruments.
func (s *MarketService) Instruments() []*domain.Instrument {
	return s.instruments.List()
}

// Snapshot returns up to depth aggregated price levels per side for a
// ticker. The ticker must exist in the instrument registry, independent of
// whether its book has been lazily created yet; an uncreated book yields
// empty sides.
func (s *MarketService) Snapshot(ticker string, depth int) (*BookSnapshot, error) {
	if !s.instruments.Exists(ticker) {
		return nil, domain.ErrInstrumentNotFound
	}
	if depth < 1 || depth > MaxBookDepth {
		return nil, &domain.ValidationError{
			Message: "limit must be between 1 and 25",
		}
	}

	snap := &BookSnapshot{
		Ticker:     ticker,
		BidLevels:  []engine.PriceLevel{},
		AskLevels:  []engine.PriceLevel{},
		SnapshotAt: time.Now(),
	}

	book, ok := s.books.Get(ticker)
	if !ok {
		return snap, nil
	}

	book.RLock()
	defer book.RUnlock()

	snap.BidLevels = book.BidLevels(depth)
	snap.AskLevels = book.AskLevels(depth)
	return snap, nil
}

// History returns up to limit executed transactions for a ticker, newest
// first.
func (s *MarketService) History(ticker string, limit int) ([]*domain.Transaction, error) {
	if !s.instruments.Exists(ticker) {
		return nil, domain.ErrInstrumentNotFound
	}
	if limit < 1 || limit > MaxHistoryLimit {
		return nil, &domain.ValidationError{
			Message: "limit must be between 1 and 100",
		}
	}
	return s.log.History(ticker, limit), nil
}
