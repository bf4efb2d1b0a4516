package engine

import (
	"testing"

	"pgregory.net/rapid"

	"toyexchange/internal/domain"
	"toyexchange/internal/ledger"
)

func TestProperty_PriceCompatibilityDeterminesMatching(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bidPrice := rapid.Int64Range(1, 10000).Draw(t, "bidPrice")
		askPrice := rapid.Int64Range(1, 10000).Draw(t, "askPrice")
		qty := rapid.Int64Range(1, 100).Draw(t, "qty")

		e, led, _, _ := newTestEngine()
		led.Credit("seller", "TEST", qty*2)
		led.Credit("buyer", domain.CashTicker, bidPrice*qty*2)

		ask := newLimit("seller", domain.DirectionSell, "TEST", askPrice, qty)
		if _, err := e.Submit(ask); err != nil {
			t.Fatalf("failed to place ask: %v", err)
		}

		bid := newLimit("buyer", domain.DirectionBuy, "TEST", bidPrice, qty)
		txs, err := e.Submit(bid)
		if err != nil {
			t.Fatalf("failed to place bid: %v", err)
		}

		shouldMatch := bidPrice >= askPrice

		if shouldMatch && len(txs) == 0 {
			t.Fatalf("expected trade when bid=%d >= ask=%d, but got none", bidPrice, askPrice)
		}
		if !shouldMatch && len(txs) != 0 {
			t.Fatalf("expected no trade when bid=%d < ask=%d, but got %d trades", bidPrice, askPrice, len(txs))
		}

		// When no match, the book must remain uncrossed.
		if !shouldMatch {
			book := e.books.GetOrCreate("TEST")
			bestBid, hasBid := book.BestBid()
			bestAsk, hasAsk := book.BestAsk()
			if hasBid && hasAsk && bestBid.Price >= bestAsk.Price {
				t.Fatalf("book is crossed: best bid %d >= best ask %d", bestBid.Price, bestAsk.Price)
			}
		}
	})
}

func TestProperty_ExecutionPriceEqualsRestingPrice(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		askPrice := rapid.Int64Range(1, 5000).Draw(t, "askPrice")
		bidPremium := rapid.Int64Range(0, 5000).Draw(t, "bidPremium")
		bidPrice := askPrice + bidPremium
		qty := rapid.Int64Range(1, 100).Draw(t, "qty")

		e, led, _, _ := newTestEngine()
		led.Credit("seller", "TEST", qty)
		led.Credit("buyer", domain.CashTicker, bidPrice*qty)

		ask := newLimit("seller", domain.DirectionSell, "TEST", askPrice, qty)
		if _, err := e.Submit(ask); err != nil {
			t.Fatalf("failed to place ask: %v", err)
		}

		bid := newLimit("buyer", domain.DirectionBuy, "TEST", bidPrice, qty)
		txs, err := e.Submit(bid)
		if err != nil {
			t.Fatalf("failed to place bid: %v", err)
		}
		if len(txs) != 1 {
			t.Fatalf("expected exactly 1 trade, got %d", len(txs))
		}
		if txs[0].Price != askPrice {
			t.Fatalf("trade price %d, want resting price %d", txs[0].Price, askPrice)
		}
	})
}

// randomMarket drives an engine through a random sequence of submissions
// by a fixed set of users and returns the users. Every user starts with
// the same generous cash and instrument balances so individual submissions
// fail only on liquidity, never on funds.
func randomMarket(t *rapid.T, e *Engine, led *ledger.Ledger) []string {
	users := []string{"u1", "u2", "u3"}
	const seedCash = int64(10_000_000)
	const seedQty = int64(10_000)

	for _, u := range users {
		led.Credit(u, domain.CashTicker, seedCash)
		led.Credit(u, "TEST", seedQty)
	}

	n := rapid.IntRange(1, 40).Draw(t, "n")
	for i := 0; i < n; i++ {
		user := rapid.SampledFrom(users).Draw(t, "user")
		dir := rapid.SampledFrom([]domain.Direction{domain.DirectionBuy, domain.DirectionSell}).Draw(t, "dir")
		qty := rapid.Int64Range(1, 50).Draw(t, "qty")

		if rapid.Bool().Draw(t, "isLimit") {
			price := rapid.Int64Range(1, 200).Draw(t, "price")
			_, err := e.Submit(newLimit(user, dir, "TEST", price, qty))
			if err != nil {
				t.Fatalf("limit submit failed: %v", err)
			}
		} else {
			_, err := e.Submit(newMarket(user, dir, "TEST", qty))
			if err != nil && err != domain.ErrInsufficientLiquidity {
				t.Fatalf("market submit failed: %v", err)
			}
		}
	}
	return users
}

// Conservation: cash and instrument totals across all users never change,
// regardless of the submission sequence.
func TestProperty_SettlementConservesBalances(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e, led, _, _ := newTestEngine()
		users := randomMarket(t, e, led)

		var totalCash, totalQty int64
		for _, u := range users {
			totalCash += led.Balance(u, domain.CashTicker)
			totalQty += led.Balance(u, "TEST")
		}
		if totalCash != int64(len(users))*10_000_000 {
			t.Fatalf("cash not conserved: total %d", totalCash)
		}
		if totalQty != int64(len(users))*10_000 {
			t.Fatalf("instrument qty not conserved: total %d", totalQty)
		}
	})
}

func TestProperty_NoNegativeBalances(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e, led, _, _ := newTestEngine()
		users := randomMarket(t, e, led)

		for _, u := range users {
			for ticker, amount := range led.Balances(u) {
				if amount < 0 {
					t.Fatalf("negative balance: user %s ticker %s amount %d", u, ticker, amount)
				}
			}
		}
	})
}

// Fill accounting: for every order ever accepted, 0 ≤ filled ≤ qty and the
// status is consistent with the fill state.
func TestProperty_FillAndStatusConsistency(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e, led, orders, _ := newTestEngine()
		users := randomMarket(t, e, led)

		for _, u := range users {
			for _, o := range orders.ListActiveByUser(u) {
				if o.Filled < 0 || o.Filled > o.Qty {
					t.Fatalf("fill out of range: filled=%d qty=%d", o.Filled, o.Qty)
				}
				switch {
				case o.Filled == 0 && o.Status != domain.OrderStatusNew:
					t.Fatalf("unfilled active order has status %s", o.Status)
				case o.Filled > 0 && o.Filled < o.Qty && o.Status != domain.OrderStatusPartiallyExecuted:
					t.Fatalf("partially filled order has status %s", o.Status)
				case o.Filled == o.Qty:
					t.Fatalf("fully filled order %s still listed active with status %s", o.ID, o.Status)
				}
			}
		}
	})
}

// Tight, randomized balances: submissions are expected to fail on funds as
// well as liquidity, and no sequence of fills may drive any balance below
// zero or leak value. This exercises market buys that walk past the best
// ask level with barely enough cash.
func TestProperty_TightBalancesStayNonNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e, led, _, _ := newTestEngine()
		users := []string{"u1", "u2", "u3"}

		var seedCash, seedQty int64
		for _, u := range users {
			cash := rapid.Int64Range(0, 500).Draw(t, "cash")
			qty := rapid.Int64Range(0, 20).Draw(t, "qty")
			if cash > 0 {
				led.Credit(u, domain.CashTicker, cash)
			}
			if qty > 0 {
				led.Credit(u, "TEST", qty)
			}
			seedCash += cash
			seedQty += qty
		}

		n := rapid.IntRange(1, 40).Draw(t, "n")
		for i := 0; i < n; i++ {
			user := rapid.SampledFrom(users).Draw(t, "user")
			dir := rapid.SampledFrom([]domain.Direction{domain.DirectionBuy, domain.DirectionSell}).Draw(t, "dir")
			qty := rapid.Int64Range(1, 10).Draw(t, "qty")

			var err error
			if rapid.Bool().Draw(t, "isLimit") {
				price := rapid.Int64Range(1, 100).Draw(t, "price")
				_, err = e.Submit(newLimit(user, dir, "TEST", price, qty))
			} else {
				_, err = e.Submit(newMarket(user, dir, "TEST", qty))
			}
			if err != nil && err != domain.ErrInsufficientFunds && err != domain.ErrInsufficientLiquidity {
				t.Fatalf("unexpected submit error: %v", err)
			}
		}

		var totalCash, totalQty int64
		for _, u := range users {
			for ticker, amount := range led.Balances(u) {
				if amount < 0 {
					t.Fatalf("negative balance: user %s ticker %s amount %d", u, ticker, amount)
				}
			}
			totalCash += led.Balance(u, domain.CashTicker)
			totalQty += led.Balance(u, "TEST")
		}
		if totalCash != seedCash {
			t.Fatalf("cash not conserved: total %d, seeded %d", totalCash, seedCash)
		}
		if totalQty != seedQty {
			t.Fatalf("instrument qty not conserved: total %d, seeded %d", totalQty, seedQty)
		}
	})
}

// The resting side of the book never contains crossed prices after any
// sequence of submissions.
func TestProperty_BookNeverCrossed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e, led, _, _ := newTestEngine()
		randomMarket(t, e, led)

		book := e.books.GetOrCreate("TEST")
		bestBid, hasBid := book.BestBid()
		bestAsk, hasAsk := book.BestAsk()
		if hasBid && hasAsk && bestBid.Price >= bestAsk.Price {
			t.Fatalf("book crossed: best bid %d >= best ask %d", bestBid.Price, bestAsk.Price)
		}
	})
}
