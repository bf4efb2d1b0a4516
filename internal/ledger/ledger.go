// Package ledger holds per-user, per-ticker integer balances. Balances are
// mutated only by trade settlement inside the matching engine and by the
// administrative credit/debit hooks; both paths preserve the invariant that
// no balance ever goes negative.
package ledger

import (
	"sync"

	"toyexchange/internal/domain"
)

// Ledger is a thread-safe in-memory balance map keyed by user id, then ticker.
// Missing entries are implicitly zero.
type Ledger struct {
	mu       sync.RWMutex
	balances map[string]map[string]int64 // user_id → ticker → amount
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{
		balances: make(map[string]map[string]int64),
	}
}

// Balance returns the user's balance for the given ticker, 0 if untouched.
func (l *Ledger) Balance(userID, ticker string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances[userID][ticker]
}

// Balances returns a copy of the user's balance map. The cash ticker is
// always present, defaulted to 0 on first touch.
func (l *Ledger) Balances(userID string) map[string]int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]int64, len(l.balances[userID])+1)
	out[domain.CashTicker] = 0
	for ticker, amount := range l.balances[userID] {
		out[ticker] = amount
	}
	return out
}

// Credit adds amount to the user's balance for ticker, creating the entry
// at 0 first if needed. amount must be positive; the caller validates.
func (l *Ledger) Credit(userID, ticker string, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.add(userID, ticker, amount)
}

// Debit subtracts amount from the user's balance for ticker. It returns
// domain.ErrInsufficientFunds without mutating anything if the balance
// would go negative.
func (l *Ledger) Debit(userID, ticker string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[userID][ticker] < amount {
		return domain.ErrInsufficientFunds
	}
	l.add(userID, ticker, -amount)
	return nil
}

// Settle moves qty units of ticker from seller to buyer and qty*price cash
// from buyer to seller as a single unit. Sufficiency is not re-checked here:
// the engine validated the aggressor pre-trade and every resting order was
// validated at its own submission time.
func (l *Ledger) Settle(buyerID, sellerID, ticker string, qty, price int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := qty * price
	l.add(buyerID, domain.CashTicker, -total)
	l.add(buyerID, ticker, qty)
	l.add(sellerID, domain.CashTicker, total)
	l.add(sellerID, ticker, -qty)
}

// add adjusts a single balance entry, creating intermediate maps as needed.
// Callers must hold l.mu.
func (l *Ledger) add(userID, ticker string, delta int64) {
	user, ok := l.balances[userID]
	if !ok {
		user = make(map[string]int64)
		l.balances[userID] = user
	}
	user[ticker] += delta
}
