package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hoa-backend/internal/domain"
	"hoa-backend/internal/middleware"
	"hoa-backend/internal/service"
	"hoa-backend/pkg/errors"
)

type LedgerHandler struct {
	ledgerService   *service.LedgerService
	residentService *service.ResidentService
}

func NewLedgerHandler(ledgerService *service.LedgerService, residentService *service.ResidentService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService:   ledgerService,
		residentService: residentService,
	}
}

// GetMyFees handles GET /api/me/fees. The response combines the synthetic
// annual obligation with any persisted fee rows for the resident.
func (h *LedgerHandler) GetMyFees(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, errors.NewAuthenticationError("authentication required"))
		return
	}
	ctx := r.Context()

	resident, err := h.residentService.GetResident(ctx, claims.ResidentID)
	if err != nil {
		respondError(w, err)
		return
	}

	hasPaid, err := h.ledgerService.HasPaidAnnualFee(ctx, resident.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	synthetic := h.ledgerService.GetUserFees(resident.UserType(), hasPaid)

	persisted, err := h.ledgerService.GetHomeownerFees(ctx, resident.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"annual_fees":    synthetic,
		"persisted_fees": persisted,
	})
}

// GetMyFines handles GET /api/me/fines
func (h *LedgerHandler) GetMyFines(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, errors.NewAuthenticationError("authentication required"))
		return
	}

	fines, err := h.ledgerService.GetHomeownerFines(r.Context(), claims.ResidentID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, fines)
}

// GetMyPaymentStats handles GET /api/me/payments/stats
func (h *LedgerHandler) GetMyPaymentStats(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, errors.NewAuthenticationError("authentication required"))
		return
	}

	stats, err := h.ledgerService.GetResidentPaymentStats(r.Context(), claims.ResidentID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// RecordPayment handles POST /api/payments
func (h *LedgerHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, errors.NewAuthenticationError("authentication required"))
		return
	}

	var req domain.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("invalid request body", nil))
		return
	}

	payment, err := h.ledgerService.RecordPayment(r.Context(), claims.ResidentID, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, payment)
}

// ConfirmPayment handles POST /api/payments/{externalID}/confirm with the
// processor's confirmation outcome
func (h *LedgerHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")
	if externalID == "" {
		respondError(w, errors.NewValidationError("payment ID is required", nil))
		return
	}

	var req domain.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("invalid request body", nil))
		return
	}

	payment, err := h.ledgerService.ConfirmPayment(r.Context(), externalID, req.Status)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, payment)
}

// GetHomeownersPaymentStatus handles GET /api/admin/homeowners/payment-status
func (h *LedgerHandler) GetHomeownersPaymentStatus(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.ledgerService.GetAllHomeownersPaymentStatus(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, statuses)
}

// CreateYearFees handles POST /api/admin/fees/year
func (h *LedgerHandler) CreateYearFees(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateYearFeesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("invalid request body", nil))
		return
	}

	count, err := h.ledgerService.CreateYearFees(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"created": count})
}

// AddFine handles POST /api/admin/fines
func (h *LedgerHandler) AddFine(w http.ResponseWriter, r *http.Request) {
	var req domain.AddFineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("invalid request body", nil))
		return
	}

	fine, err := h.ledgerService.AddFine(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, fine)
}

// UpdateFineStatus handles PUT /api/admin/fines/{fineID}/status
func (h *LedgerHandler) UpdateFineStatus(w http.ResponseWriter, r *http.Request) {
	fineID, err := pathID(r, "fineID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("invalid request body", nil))
		return
	}

	fine, err := h.ledgerService.UpdateFineStatus(r.Context(), fineID, req.Status)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, fine)
}

// ListFees handles GET /api/admin/fees
func (h *LedgerHandler) ListFees(w http.ResponseWriter, r *http.Request) {
	fees, err := h.ledgerService.GetAllFees(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, fees)
}

// ListFines handles GET /api/admin/fines
func (h *LedgerHandler) ListFines(w http.ResponseWriter, r *http.Request) {
	fines, err := h.ledgerService.GetAllFines(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, fines)
}
