package engine

import (
	"sync"

	"github.com/google/btree"

	"toyexchange/internal/domain"
)

// bookEntry represents a single limit order resting on the book. Seq is an
// engine-assigned arrival sequence used as the tie-break at equal price:
// first in, first matched.
type bookEntry struct {
	Price int64
	Seq   uint64
	Order *domain.Order
}

// PriceLevel is one aggregated level of the L2 view: total remaining
// quantity at a distinct price.
type PriceLevel struct {
	Price int64
	Qty   int64
}

// bidLess defines ordering for the bid side: price descending, then arrival
// sequence ascending. Min() returns the best bid.
func bidLess(a, b bookEntry) bool {
	if a.Price != b.Price {
		return a.Price > b.Price
	}
	return a.Seq < b.Seq
}

// askLess defines ordering for the ask side: price ascending, then arrival
// sequence ascending. Min() returns the best ask.
func askLess(a, b bookEntry) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	return a.Seq < b.Seq
}

// OrderBook maintains the bid and ask sides for a single ticker using
// B-trees with a secondary index for removal by order id. Only active
// limit orders rest here; market orders never do.
//
// The book's RWMutex protects readers (L2 snapshots) that deliberately do
// not go through the engine's global lock. All mutations happen under the
// engine lock, which additionally takes the write lock here.
type OrderBook struct {
	mu    sync.RWMutex
	bids  *btree.BTreeG[bookEntry]
	asks  *btree.BTreeG[bookEntry]
	index map[string]bookEntry // order_id → entry
}

// NewOrderBook creates an empty order book.
func NewOrderBook() *OrderBook {
	const degree = 32
	return &OrderBook{
		bids:  btree.NewG[bookEntry](degree, bidLess),
		asks:  btree.NewG[bookEntry](degree, askLess),
		index: make(map[string]bookEntry),
	}
}

// Lock acquires the write lock on the order book.
func (ob *OrderBook) Lock() {
	ob.mu.Lock()
}

// Unlock releases the write lock on the order book.
func (ob *OrderBook) Unlock() {
	ob.mu.Unlock()
}

// RLock acquires the read lock on the order book.
func (ob *OrderBook) RLock() {
	ob.mu.RLock()
}

// RUnlock releases the read lock on the order book.
func (ob *OrderBook) RUnlock() {
	ob.mu.RUnlock()
}

// Insert adds a resting order to its side of the book. The caller must
// hold the write lock.
func (ob *OrderBook) Insert(order *domain.Order, seq uint64) {
	entry := bookEntry{Price: order.Price, Seq: seq, Order: order}
	if order.Direction == domain.DirectionBuy {
		ob.bids.ReplaceOrInsert(entry)
	} else {
		ob.asks.ReplaceOrInsert(entry)
	}
	ob.index[order.ID] = entry
}

// Remove deletes an order from the book by order id. It is a no-op for
// orders not on the book. The caller must hold the write lock.
func (ob *OrderBook) Remove(orderID string) {
	entry, ok := ob.index[orderID]
	if !ok {
		return
	}
	delete(ob.index, orderID)
	// Delete is a no-op on the side the entry isn't on.
	ob.bids.Delete(entry)
	ob.asks.Delete(entry)
}

// BestBid returns the highest-priority bid (highest price, earliest arrival).
func (ob *OrderBook) BestBid() (*domain.Order, bool) {
	entry, ok := ob.bids.Min()
	if !ok {
		return nil, false
	}
	return entry.Order, true
}

// BestAsk returns the highest-priority ask (lowest price, earliest arrival).
func (ob *OrderBook) BestAsk() (*domain.Order, bool) {
	entry, ok := ob.asks.Min()
	if !ok {
		return nil, false
	}
	return entry.Order, true
}

// BidLevels returns up to n aggregated price levels from the bid side,
// price descending. The caller must hold at least the read lock.
func (ob *OrderBook) BidLevels(n int) []PriceLevel {
	return levels(ob.bids, n)
}

// AskLevels returns up to n aggregated price levels from the ask side,
// price ascending. The caller must hold at least the read lock.
func (ob *OrderBook) AskLevels(n int) []PriceLevel {
	return levels(ob.asks, n)
}

// levels iterates a side in priority order and aggregates remaining
// quantity into at most n price levels.
func levels(tree *btree.BTreeG[bookEntry], n int) []PriceLevel {
	if n <= 0 {
		return nil
	}
	out := make([]PriceLevel, 0, n)
	tree.Ascend(func(entry bookEntry) bool {
		if len(out) > 0 && out[len(out)-1].Price == entry.Price {
			out[len(out)-1].Qty += entry.Order.Remaining()
			return true
		}
		if len(out) >= n {
			return false
		}
		out = append(out, PriceLevel{
			Price: entry.Price,
			Qty:   entry.Order.Remaining(),
		})
		return true
	})
	return out
}

// BidCount returns the number of individual bid orders on the book.
func (ob *OrderBook) BidCount() int {
	return ob.bids.Len()
}

// AskCount returns the number of individual ask orders on the book.
func (ob *OrderBook) AskCount() int {
	return ob.asks.Len()
}

// BookManager is a thread-safe map of ticker → OrderBook. Books are
// lazily created the first time a ticker is traded.
type BookManager struct {
	mu    sync.RWMutex
	books map[string]*OrderBook
}

// NewBookManager creates a new BookManager.
func NewBookManager() *BookManager {
	return &BookManager{
		books: make(map[string]*OrderBook),
	}
}

// GetOrCreate returns the order book for the given ticker, creating an
// empty one if it doesn't already exist.
func (bm *BookManager) GetOrCreate(ticker string) *OrderBook {
	bm.mu.RLock()
	book, ok := bm.books[ticker]
	bm.mu.RUnlock()
	if ok {
		return book
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()
	// Double-check after acquiring write lock.
	if book, ok = bm.books[ticker]; ok {
		return book
	}
	book = NewOrderBook()
	bm.books[ticker] = book
	return book
}

// Get returns the ticker's book without creating one.
func (bm *BookManager) Get(ticker string) (*OrderBook, bool) {
	bm.mu.RLock()
	defer bm.mu.RUnlock()

	book, ok := bm.books[ticker]
	return book, ok
}
