package domain

import "time"

// Transaction is an immutable record of one executed trade. Readers only
// need the aggregate ticker/amount/price/time; no linkage back to the two
// orders is kept.
type Transaction struct {
	ID        string
	Ticker    string
	Amount    int64 // traded quantity
	Price     int64 // execution price (the resting order's price)
	Timestamp time.Time
}
