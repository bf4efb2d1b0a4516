package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"toyexchange/internal/service"
)

// AdminHandler handles administrative endpoints. Routes using it are
// wrapped in the requireAdmin middleware.
type AdminHandler struct {
	adminSvc *service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminSvc *service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// createInstrumentRequest is the JSON body for POST /api/v1/admin/instrument.
type createInstrumentRequest struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// CreateInstrument handles POST /api/v1/admin/instrument.
func (h *AdminHandler) CreateInstrument(w http.ResponseWriter, r *http.Request) {
	var req createInstrumentRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	instrument, err := h.adminSvc.CreateInstrument(req.Ticker, req.Name)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, instrumentResponse{
		Ticker: instrument.Ticker,
		Name:   instrument.Name,
	})
}

// DeleteInstrument handles DELETE /api/v1/admin/instrument/{ticker}.
func (h *AdminHandler) DeleteInstrument(w http.ResponseWriter, r *http.Request) {
	if err := h.adminSvc.DeleteInstrument(chi.URLParam(r, "ticker")); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// DeleteUser handles DELETE /api/v1/admin/user/{user_id}.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.adminSvc.DeleteUser(chi.URLParam(r, "user_id")); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// balanceAdjustmentRequest is the JSON body for the deposit and withdraw
// endpoints.
type balanceAdjustmentRequest struct {
	UserID string `json:"user_id"`
	Ticker string `json:"ticker"`
	Amount int64  `json:"amount"`
}

// Deposit handles POST /api/v1/admin/balance/deposit.
func (h *AdminHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req balanceAdjustmentRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.adminSvc.Deposit(req.UserID, req.Ticker, req.Amount); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Withdraw handles POST /api/v1/admin/balance/withdraw.
func (h *AdminHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req balanceAdjustmentRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.adminSvc.Withdraw(req.UserID, req.Ticker, req.Amount); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}
