package ledger

import (
	"errors"
	"testing"

	"pgregory.net/rapid"

	"toyexchange/internal/domain"
)

func TestLedger_BalanceDefaultsToZero(t *testing.T) {
	l := New()
	if got := l.Balance("u", "MEMCOIN"); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestLedger_CreditDebit(t *testing.T) {
	l := New()
	l.Credit("u", "MEMCOIN", 10)
	if got := l.Balance("u", "MEMCOIN"); got != 10 {
		t.Errorf("expected 10, got %d", got)
	}

	if err := l.Debit("u", "MEMCOIN", 4); err != nil {
		t.Fatalf("unexpected debit error: %v", err)
	}
	if got := l.Balance("u", "MEMCOIN"); got != 6 {
		t.Errorf("expected 6, got %d", got)
	}
}

func TestLedger_DebitBelowZeroRejected(t *testing.T) {
	l := New()
	l.Credit("u", "MEMCOIN", 5)

	err := l.Debit("u", "MEMCOIN", 6)
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	// No partial application.
	if got := l.Balance("u", "MEMCOIN"); got != 5 {
		t.Errorf("expected balance unchanged at 5, got %d", got)
	}

	// Debiting an untouched balance fails the same way.
	if err := l.Debit("other", "MEMCOIN", 1); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds for empty balance, got %v", err)
	}
}

func TestLedger_SettleMovesBothLegs(t *testing.T) {
	l := New()
	l.Credit("buyer", domain.CashTicker, 1000)
	l.Credit("seller", "MEMCOIN", 10)

	l.Settle("buyer", "seller", "MEMCOIN", 5, 100)

	if got := l.Balance("buyer", domain.CashTicker); got != 500 {
		t.Errorf("buyer cash: expected 500, got %d", got)
	}
	if got := l.Balance("buyer", "MEMCOIN"); got != 5 {
		t.Errorf("buyer instrument: expected 5, got %d", got)
	}
	if got := l.Balance("seller", domain.CashTicker); got != 500 {
		t.Errorf("seller cash: expected 500, got %d", got)
	}
	if got := l.Balance("seller", "MEMCOIN"); got != 5 {
		t.Errorf("seller instrument: expected 5, got %d", got)
	}
}

func TestLedger_BalancesAlwaysIncludeCash(t *testing.T) {
	l := New()
	balances := l.Balances("u")
	if amount, ok := balances[domain.CashTicker]; !ok || amount != 0 {
		t.Errorf("expected implicit %s balance of 0, got %v", domain.CashTicker, balances)
	}

	l.Credit("u", "MEMCOIN", 3)
	balances = l.Balances("u")
	if balances["MEMCOIN"] != 3 {
		t.Errorf("expected MEMCOIN 3, got %v", balances)
	}

	// The returned map is a copy.
	balances["MEMCOIN"] = 999
	if got := l.Balance("u", "MEMCOIN"); got != 3 {
		t.Errorf("expected internal state unchanged, got %d", got)
	}
}

// Settle conserves both cash and instrument totals for any qty and price.
func TestProperty_SettleConserves(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cash := rapid.Int64Range(0, 1_000_000).Draw(t, "cash")
		holding := rapid.Int64Range(1, 10_000).Draw(t, "holding")
		qty := rapid.Int64Range(1, holding).Draw(t, "qty")
		price := rapid.Int64Range(1, 1000).Draw(t, "price")

		l := New()
		l.Credit("buyer", domain.CashTicker, cash)
		l.Credit("seller", "TEST", holding)

		l.Settle("buyer", "seller", "TEST", qty, price)

		cashTotal := l.Balance("buyer", domain.CashTicker) + l.Balance("seller", domain.CashTicker)
		qtyTotal := l.Balance("buyer", "TEST") + l.Balance("seller", "TEST")
		if cashTotal != cash {
			t.Fatalf("cash not conserved: %d != %d", cashTotal, cash)
		}
		if qtyTotal != holding {
			t.Fatalf("qty not conserved: %d != %d", qtyTotal, holding)
		}
	})
}
