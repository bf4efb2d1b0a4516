package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"toyexchange/internal/engine"
	"toyexchange/internal/service"
)

// PublicHandler handles unauthenticated endpoints: registration, the
// instrument list, L2 order book snapshots, and trade history.
type PublicHandler struct {
	userSvc   *service.UserService
	marketSvc *service.MarketService
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(userSvc *service.UserService, marketSvc *service.MarketService) *PublicHandler {
	return &PublicHandler{userSvc: userSvc, marketSvc: marketSvc}
}

// registerRequest is the JSON request body for POST /api/v1/public/register.
type registerRequest struct {
	Name string `json:"name"`
}

// registerResponse returns the new user and their one-time API key.
type registerResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	APIKey string `json:"api_key"`
}

// Register handles POST /api/v1/public/register.
func (h *PublicHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user, apiKey, err := h.userSvc.Register(req.Name)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, registerResponse{
		ID:     user.ID,
		Name:   user.Name,
		Role:   string(user.Role),
		APIKey: apiKey,
	})
}

// instrumentResponse is one instrument in the listing.
type instrumentResponse struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// ListInstruments handles GET /api/v1/public/instrument.
func (h *PublicHandler) ListInstruments(w http.ResponseWriter, r *http.Request) {
	instruments := h.marketSvc.Instruments()

	resp := make([]instrumentResponse, len(instruments))
	for i, ins := range instruments {
		resp[i] = instrumentResponse{Ticker: ins.Ticker, Name: ins.Name}
	}
	WriteJSON(w, http.StatusOK, resp)
}

// levelResponse is one aggregated price level.
type levelResponse struct {
	Price int64 `json:"price"`
	Qty   int64 `json:"qty"`
}

// orderBookResponse is the L2 snapshot body.
type orderBookResponse struct {
	Ticker    string          `json:"ticker"`
	BidLevels []levelResponse `json:"bid_levels"`
	AskLevels []levelResponse `json:"ask_levels"`
}

// OrderBook handles GET /api/v1/public/orderbook/{ticker}.
func (h *PublicHandler) OrderBook(w http.ResponseWriter, r *http.Request) {
	depth, err := queryInt(r, "limit", 10)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", "limit must be an integer")
		return
	}

	snap, err := h.marketSvc.Snapshot(chi.URLParam(r, "ticker"), depth)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, orderBookResponse{
		Ticker:    snap.Ticker,
		BidLevels: buildLevels(snap.BidLevels),
		AskLevels: buildLevels(snap.AskLevels),
	})
}

func buildLevels(levels []engine.PriceLevel) []levelResponse {
	out := make([]levelResponse, len(levels))
	for i, l := range levels {
		out[i] = levelResponse{Price: l.Price, Qty: l.Qty}
	}
	return out
}

// transactionResponse is one executed trade in the history body.
type transactionResponse struct {
	Ticker    string `json:"ticker"`
	Amount    int64  `json:"amount"`
	Price     int64  `json:"price"`
	Timestamp string `json:"timestamp"`
}

// Transactions handles GET /api/v1/public/transactions/{ticker}.
func (h *PublicHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", "limit must be an integer")
		return
	}

	transactions, err := h.marketSvc.History(chi.URLParam(r, "ticker"), limit)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	resp := make([]transactionResponse, len(transactions))
	for i, t := range transactions {
		resp[i] = transactionResponse{
			Ticker:    t.Ticker,
			Amount:    t.Amount,
			Price:     t.Price,
			Timestamp: t.Timestamp.UTC().Format(time.RFC3339Nano),
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}

// balanceResponse is the caller's balance map for GET /api/v1/balance.
// JSON shape: {"RUB": 1000, "MEMCOIN": 5}.
type balanceResponse map[string]int64

// Balances handles GET /api/v1/balance (authenticated).
func (h *PublicHandler) Balances(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	WriteJSON(w, http.StatusOK, balanceResponse(h.userSvc.Balances(user.ID)))
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string, defaultVal int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(raw)
}
