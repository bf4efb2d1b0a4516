package domain

import "time"

// OrderType distinguishes limit orders from market orders.
type OrderType string

const (
	OrderTypeLimit  OrderType = "LIMIT"
	OrderTypeMarket OrderType = "MARKET"
)

// Direction indicates whether an order buys or sells the instrument.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// OrderStatus represents the lifecycle state of an order.
//
// Transitions: NEW → PARTIALLY_EXECUTED → EXECUTED on the fill path, or
// NEW|PARTIALLY_EXECUTED → CANCELLED on explicit cancel. EXECUTED and
// CANCELLED are terminal.
type OrderStatus string

const (
	OrderStatusNew               OrderStatus = "NEW"
	OrderStatusPartiallyExecuted OrderStatus = "PARTIALLY_EXECUTED"
	OrderStatusExecuted          OrderStatus = "EXECUTED"
	OrderStatusCancelled         OrderStatus = "CANCELLED"
)

// Order represents a buy or sell instruction submitted by a user.
// Price is set only for limit orders; market orders carry Price == 0 and
// never rest on the book.
type Order struct {
	ID        string
	UserID    string
	Ticker    string
	Type      OrderType
	Direction Direction
	Qty       int64
	Price     int64 // 0 for market orders
	Filled    int64 // 0 ≤ Filled ≤ Qty, monotonically non-decreasing
	Status    OrderStatus
	CreatedAt time.Time
}

// Remaining returns the unfilled quantity.
func (o *Order) Remaining() int64 {
	return o.Qty - o.Filled
}

// Active reports whether the order can still trade or be cancelled.
func (o *Order) Active() bool {
	return o.Status == OrderStatusNew || o.Status == OrderStatusPartiallyExecuted
}
