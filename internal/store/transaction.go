package store

import (
	"sync"

	"toyexchange/internal/domain"
)

// TransactionLog is a thread-safe append-only log of executed trades,
// keyed by ticker. Appends happen inside the engine's settlement step;
// reads are best-effort and do not go through the engine's lock.
type TransactionLog struct {
	mu           sync.RWMutex
	transactions map[string][]*domain.Transaction // ticker → transactions (chronological)
}

// NewTransactionLog creates an empty TransactionLog.
func NewTransactionLog() *TransactionLog {
	return &TransactionLog{
		transactions: make(map[string][]*domain.Transaction),
	}
}

// Append adds a transaction to its ticker's chronological list.
func (s *TransactionLog) Append(t *domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions[t.Ticker] = append(s.transactions[t.Ticker], t)
}

// History returns up to limit transactions for a ticker, newest first.
// Returns an empty slice if no trades have occurred.
func (s *TransactionLog) History(ticker string, limit int) []*domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.transactions[ticker]

	n := len(all)
	if limit < n {
		n = limit
	}

	// The log is chronological, so the newest n entries are at the tail;
	// copy them in reverse.
	out := make([]*domain.Transaction, 0, n)
	for i := len(all) - 1; i >= len(all)-n; i-- {
		out = append(out, all[i])
	}
	return out
}

// Count returns the total number of transactions recorded for a ticker.
func (s *TransactionLog) Count(ticker string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.transactions[ticker])
}
