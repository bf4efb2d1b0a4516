package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"toyexchange/internal/domain"
	"toyexchange/internal/service"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	orderSvc *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// createOrderRequest is the JSON request body for POST /api/v1/order.
type createOrderRequest struct {
	Ticker    string `json:"ticker"`
	Type      string `json:"type"`
	Direction string `json:"direction"`
	Qty       int64  `json:"qty"`
	Price     *int64 `json:"price"`
}

// orderResponse is the JSON representation of an order. Price is omitted
// for market orders.
type orderResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Ticker    string `json:"ticker"`
	Type      string `json:"type"`
	Direction string `json:"direction"`
	Qty       int64  `json:"qty"`
	Price     *int64 `json:"price,omitempty"`
	Filled    int64  `json:"filled"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func buildOrderResponse(o *domain.Order) orderResponse {
	resp := orderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		Ticker:    o.Ticker,
		Type:      string(o.Type),
		Direction: string(o.Direction),
		Qty:       o.Qty,
		Filled:    o.Filled,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if o.Type == domain.OrderTypeLimit {
		price := o.Price
		resp.Price = &price
	}
	return resp
}

// Create handles POST /api/v1/order.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user := CurrentUser(r)
	order, err := h.orderSvc.Submit(user.ID, service.SubmitOrderRequest{
		Ticker:    req.Ticker,
		Type:      domain.OrderType(req.Type),
		Direction: domain.Direction(req.Direction),
		Qty:       req.Qty,
		Price:     req.Price,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"order_id": order.ID,
	})
}

// List handles GET /api/v1/order: the caller's active orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	orders := h.orderSvc.ListActive(user.ID)

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = buildOrderResponse(o)
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/order/{order_id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	order, err := h.orderSvc.Get(chi.URLParam(r, "order_id"), user.ID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildOrderResponse(order))
}

// Cancel handles DELETE /api/v1/order/{order_id}.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	if err := h.orderSvc.Cancel(chi.URLParam(r, "order_id"), user.ID); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}
