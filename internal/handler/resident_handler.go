package handler

import (
	"encoding/json"
	"net/http"

	"hoa-backend/internal/domain"
	"hoa-backend/internal/service"
	"hoa-backend/pkg/errors"
)

type ResidentHandler struct {
	residentService *service.ResidentService
}

func NewResidentHandler(residentService *service.ResidentService) *ResidentHandler {
	return &ResidentHandler{residentService: residentService}
}

// ListResidents handles GET /api/admin/residents
func (h *ResidentHandler) ListResidents(w http.ResponseWriter, r *http.Request) {
	residents, err := h.residentService.ListResidents(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, residents)
}

// GetResident handles GET /api/admin/residents/{residentID}
func (h *ResidentHandler) GetResident(w http.ResponseWriter, r *http.Request) {
	residentID, err := pathID(r, "residentID")
	if err != nil {
		respondError(w, err)
		return
	}

	resident, err := h.residentService.GetResident(r.Context(), residentID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resident)
}

// CreateResident handles POST /api/admin/residents
func (h *ResidentHandler) CreateResident(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateResidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("invalid request body", nil))
		return
	}

	resident, err := h.residentService.CreateResident(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, resident)
}

// UpdateResident handles PUT /api/admin/residents/{residentID}
func (h *ResidentHandler) UpdateResident(w http.ResponseWriter, r *http.Request) {
	residentID, err := pathID(r, "residentID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req domain.UpdateResidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("invalid request body", nil))
		return
	}

	resident, err := h.residentService.UpdateResident(r.Context(), residentID, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resident)
}

// DeleteResident handles DELETE /api/admin/residents/{residentID}
func (h *ResidentHandler) DeleteResident(w http.ResponseWriter, r *http.Request) {
	residentID, err := pathID(r, "residentID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.residentService.DeleteResident(r.Context(), residentID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"deleted": residentID})
}

// BlockResident handles POST /api/admin/residents/{residentID}/block
func (h *ResidentHandler) BlockResident(w http.ResponseWriter, r *http.Request) {
	residentID, err := pathID(r, "residentID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("invalid request body", nil))
		return
	}

	resident, err := h.residentService.BlockResident(r.Context(), residentID, req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resident)
}

// UnblockResident handles POST /api/admin/residents/{residentID}/unblock
func (h *ResidentHandler) UnblockResident(w http.ResponseWriter, r *http.Request) {
	residentID, err := pathID(r, "residentID")
	if err != nil {
		respondError(w, err)
		return
	}

	resident, err := h.residentService.UnblockResident(r.Context(), residentID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resident)
}
