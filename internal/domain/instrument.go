package domain

import "regexp"

// CashTicker is the implicit cash instrument every user holds a balance in.
const CashTicker = "RUB"

// TickerRegex validates instrument tickers: uppercase alphanumeric, 2 to 10 chars.
var TickerRegex = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

// Instrument is a tradable security identified by its ticker.
// The matching engine treats instruments as read-only reference data.
type Instrument struct {
	Ticker string
	Name   string
}
