package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"toyexchange/internal/domain"
	"toyexchange/internal/engine"
	"toyexchange/internal/metrics"
	"toyexchange/internal/store"
)

// SubmitOrderRequest represents the input for order submission.
type SubmitOrderRequest struct {
	Ticker    string
	Type      domain.OrderType
	Direction domain.Direction
	Qty       int64
	Price     *int64 // required for LIMIT, must be nil for MARKET
}

// OrderService handles order submission, retrieval, cancellation, and
// listing on behalf of an authenticated user.
type OrderService struct {
	engine      *engine.Engine
	orders      *store.OrderStore
	instruments *store.InstrumentStore
}

// NewOrderService creates a new OrderService with the given dependencies.
func NewOrderService(
	eng *engine.Engine,
	orders *store.OrderStore,
	instruments *store.InstrumentStore,
) *OrderService {
	return &OrderService{
		engine:      eng,
		orders:      orders,
		instruments: instruments,
	}
}

// Submit validates the request, builds the order record, and runs it
// through the matching engine. On engine failure the order record is
// discarded; the submission is treated as if it never happened.
func (s *OrderService) Submit(userID string, req SubmitOrderRequest) (*domain.Order, error) {
	if req.Type != domain.OrderTypeLimit && req.Type != domain.OrderTypeMarket {
		return nil, &domain.ValidationError{
			Message: "type must be 'LIMIT' or 'MARKET'",
		}
	}
	if req.Direction != domain.DirectionBuy && req.Direction != domain.DirectionSell {
		return nil, &domain.ValidationError{
			Message: "direction must be 'BUY' or 'SELL'",
		}
	}
	if !domain.TickerRegex.MatchString(req.Ticker) {
		return nil, &domain.ValidationError{
			Message: "ticker must match ^[A-Z0-9]{2,10}$",
		}
	}
	if req.Qty <= 0 {
		return nil, &domain.ValidationError{
			Message: "qty must be a positive integer",
		}
	}

	var price int64
	if req.Type == domain.OrderTypeLimit {
		if req.Price == nil {
			return nil, &domain.ValidationError{
				Message: "price is required for LIMIT orders",
			}
		}
		if *req.Price <= 0 {
			return nil, &domain.ValidationError{
				Message: "price must be a positive integer",
			}
		}
		price = *req.Price
	} else if req.Price != nil {
		return nil, &domain.ValidationError{
			Message: "MARKET orders must not include price",
		}
	}

	// The engine does not re-validate the ticker against the registry;
	// instrument existence is checked here, at the boundary.
	if !s.instruments.Exists(req.Ticker) {
		return nil, domain.ErrInstrumentNotFound
	}

	order := &domain.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Ticker:    req.Ticker,
		Type:      req.Type,
		Direction: req.Direction,
		Qty:       req.Qty,
		Price:     price,
		Status:    domain.OrderStatusNew,
		CreatedAt: time.Now(),
	}

	executed, err := s.engine.Submit(order)
	metrics.OrdersSubmittedTotal.WithLabelValues(
		string(req.Type), string(req.Direction), submitOutcome(err),
	).Inc()
	if err != nil {
		return nil, err
	}

	for _, tx := range executed {
		metrics.TradesExecutedTotal.WithLabelValues(tx.Ticker).Inc()
		metrics.TradedVolumeTotal.WithLabelValues(tx.Ticker).Add(float64(tx.Amount))
	}

	return order, nil
}

// submitOutcome maps an engine result to a metrics label.
func submitOutcome(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrInsufficientLiquidity):
		return "insufficient_liquidity"
	default:
		return "error"
	}
}

// Get retrieves an order by ID. Only the order's owner may read it.
func (s *OrderService) Get(orderID, userID string) (*domain.Order, error) {
	order, err := s.orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

// ListActive returns the caller's NEW and PARTIALLY_EXECUTED orders.
func (s *OrderService) ListActive(userID string) []*domain.Order {
	return s.orders.ListActiveByUser(userID)
}

// Cancel cancels an active order owned by the caller.
func (s *OrderService) Cancel(orderID, userID string) error {
	if err := s.engine.Cancel(orderID, userID); err != nil {
		return err
	}
	metrics.OrdersCancelledTotal.Inc()
	return nil
}
