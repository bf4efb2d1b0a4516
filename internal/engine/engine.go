package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"toyexchange/internal/domain"
	"toyexchange/internal/ledger"
	"toyexchange/internal/store"
)

// Engine implements order matching and balance settlement. Every write
// (Submit, Cancel) runs under one process-wide mutex so concurrent
// submissions are strictly linearized in arrival order, across all
// tickers. No blocking work happens inside the critical section, so each
// submission runs to completion before the next one starts: the funds
// check can never pass against a stale balance.
type Engine struct {
	mu     sync.Mutex // global serialization point
	seq    uint64     // arrival sequence for book FIFO tie-breaks
	books  *BookManager
	ledger *ledger.Ledger
	orders *store.OrderStore
	log    *store.TransactionLog
}

// New creates an Engine with the given dependencies.
func New(
	books *BookManager,
	led *ledger.Ledger,
	orders *store.OrderStore,
	log *store.TransactionLog,
) *Engine {
	return &Engine{
		books:  books,
		ledger: led,
		orders: orders,
		log:    log,
	}
}

// Submit runs an order through funds validation, matching, settlement, and
// finalization as one atomic step. The caller provides a fully populated
// order (id, user, ticker, type, direction, qty, price for limits,
// creation timestamp) with status NEW; instrument existence is the
// caller's responsibility.
//
// On success the order has been matched and, for limit orders with
// remaining quantity, rested on the book. On error no state has been
// touched and the order must be discarded by the caller; it is never
// registered anywhere with a failure outcome.
func (e *Engine) Submit(order *domain.Order) ([]*domain.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	book := e.books.GetOrCreate(order.Ticker)

	// The book write lock keeps lock-free L2 readers memory-safe while
	// the engine mutates the trees.
	book.Lock()
	defer book.Unlock()

	// Pre-trade funds check. No mutation happens until this passes.
	if err := e.checkFunds(order, book); err != nil {
		return nil, err
	}

	// Match loop: greedily consume eligible counter-orders, best price
	// first, FIFO within a price.
	var executed []*domain.Transaction

	for order.Remaining() > 0 {
		resting, ok := e.bestCounter(order, book)
		if !ok {
			break
		}

		fillQty := order.Remaining()
		if resting.Remaining() < fillQty {
			fillQty = resting.Remaining()
		}

		// A market buy was funds-checked against the best ask only, but
		// may walk into more expensive levels. Cap each fill by what the
		// buyer's remaining cash affords at the resting price so the
		// balance can never go negative; the unaffordable remainder is
		// dropped like any other liquidity shortfall.
		if order.Type == domain.OrderTypeMarket && order.Direction == domain.DirectionBuy {
			affordable := e.ledger.Balance(order.UserID, domain.CashTicker) / resting.Price
			if affordable == 0 {
				break
			}
			if fillQty > affordable {
				fillQty = affordable
			}
		}

		// Trades always execute at the resting order's price: price
		// improvement goes to the aggressor.
		tx := e.settle(order, resting, fillQty)
		executed = append(executed, tx)

		order.Filled += fillQty
		resting.Filled += fillQty

		if resting.Remaining() == 0 {
			resting.Status = domain.OrderStatusExecuted
			book.Remove(resting.ID)
		} else {
			resting.Status = domain.OrderStatusPartiallyExecuted
		}
	}

	// Finalization.
	if order.Type == domain.OrderTypeMarket {
		switch {
		case order.Filled == 0:
			// No counter-orders existed at all; nothing was mutated.
			return nil, domain.ErrInsufficientLiquidity
		case order.Remaining() == 0:
			order.Status = domain.OrderStatusExecuted
		default:
			// Liquidity or cash ran out: the remainder is dropped,
			// never queued.
			order.Status = domain.OrderStatusPartiallyExecuted
		}
		e.orders.Create(order)
		return executed, nil
	}

	switch {
	case order.Remaining() == 0:
		order.Status = domain.OrderStatusExecuted
	case order.Filled > 0:
		order.Status = domain.OrderStatusPartiallyExecuted
		e.rest(order, book)
	default:
		order.Status = domain.OrderStatusNew
		e.rest(order, book)
	}
	e.orders.Create(order)
	return executed, nil
}

// checkFunds validates the aggressor's balance before any mutation.
//
//   - BUY limit: cash ≥ qty × price.
//   - BUY market: cash ≥ qty × best ask price; an empty ask side is an
//     immediate liquidity failure. Fills beyond the best level are
//     additionally capped by remaining cash in the match loop.
//   - SELL (either type): instrument balance ≥ qty.
func (e *Engine) checkFunds(order *domain.Order, book *OrderBook) error {
	if order.Direction == domain.DirectionSell {
		if e.ledger.Balance(order.UserID, order.Ticker) < order.Qty {
			return domain.ErrInsufficientFunds
		}
		return nil
	}

	price := order.Price
	if order.Type == domain.OrderTypeMarket {
		bestAsk, ok := book.BestAsk()
		if !ok {
			return domain.ErrInsufficientLiquidity
		}
		price = bestAsk.Price
	}
	if e.ledger.Balance(order.UserID, domain.CashTicker) < order.Qty*price {
		return domain.ErrInsufficientFunds
	}
	return nil
}

// bestCounter returns the highest-priority eligible counter-order for the
// aggressor, or false when none remains. Market orders accept any price;
// limit orders require price compatibility.
func (e *Engine) bestCounter(order *domain.Order, book *OrderBook) (*domain.Order, bool) {
	var resting *domain.Order
	var ok bool

	if order.Direction == domain.DirectionBuy {
		resting, ok = book.BestAsk()
	} else {
		resting, ok = book.BestBid()
	}
	if !ok {
		return nil, false
	}

	if order.Type == domain.OrderTypeLimit {
		if order.Direction == domain.DirectionBuy && resting.Price > order.Price {
			return nil, false
		}
		if order.Direction == domain.DirectionSell && resting.Price < order.Price {
			return nil, false
		}
	}
	return resting, true
}

// settle moves balances for one fill and appends the transaction record.
// Sufficiency is not re-validated: the aggressor passed the pre-trade
// check and the resting order was checked at its own submission time.
func (e *Engine) settle(order, resting *domain.Order, qty int64) *domain.Transaction {
	buyerID, sellerID := order.UserID, resting.UserID
	if order.Direction == domain.DirectionSell {
		buyerID, sellerID = resting.UserID, order.UserID
	}

	e.ledger.Settle(buyerID, sellerID, order.Ticker, qty, resting.Price)

	tx := &domain.Transaction{
		ID:        uuid.NewString(),
		Ticker:    order.Ticker,
		Amount:    qty,
		Price:     resting.Price,
		Timestamp: time.Now(),
	}
	e.log.Append(tx)
	return tx
}

// rest places an unfilled or partially filled limit order on the book,
// assigning its arrival sequence.
func (e *Engine) rest(order *domain.Order, book *OrderBook) {
	e.seq++
	book.Insert(order, e.seq)
}

// Cancel removes a resting limit order from its book side and marks it
// CANCELLED. Only the order's owner may cancel, and only while the order
// is NEW or PARTIALLY_EXECUTED. Runs under the same global mutex as
// Submit, so a cancel can never race an in-flight match on the same order.
func (e *Engine) Cancel(orderID, userID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, err := e.orders.Get(orderID)
	if err != nil {
		return err
	}
	if order.UserID != userID {
		return domain.ErrForbidden
	}
	if !order.Active() {
		return domain.ErrInvalidOrderState
	}

	if order.Type == domain.OrderTypeLimit {
		book := e.books.GetOrCreate(order.Ticker)
		book.Lock()
		book.Remove(order.ID)
		book.Unlock()
	}

	order.Status = domain.OrderStatusCancelled
	return nil
}
