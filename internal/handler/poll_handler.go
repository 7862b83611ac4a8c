package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hoa-backend/internal/domain"
	"hoa-backend/internal/middleware"
	"hoa-backend/internal/service"
	"hoa-backend/pkg/errors"
)

type PollHandler struct {
	pollService *service.PollService
}

func NewPollHandler(pollService *service.PollService) *PollHandler {
	return &PollHandler{pollService: pollService}
}

// ListPolls handles GET /api/polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	filter := domain.PollFilter{
		ActiveOnly:     r.URL.Query().Get("active") == "true",
		IncludeExpired: r.URL.Query().Get("include_expired") == "true",
	}

	polls, err := h.pollService.ListPolls(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, polls)
}

// GetPoll handles GET /api/polls/{pollID}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID, err := pathID(r, "pollID")
	if err != nil {
		respondError(w, err)
		return
	}

	poll, err := h.pollService.GetPoll(r.Context(), pollID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, poll)
}

// CreatePoll handles POST /api/polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, errors.NewAuthenticationError("authentication required"))
		return
	}

	var req domain.CreatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("invalid request body", nil))
		return
	}

	poll, err := h.pollService.CreatePoll(r.Context(), claims.ResidentID, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, poll)
}

// UpdatePoll handles PUT /api/polls/{pollID}
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	pollID, err := pathID(r, "pollID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req domain.UpdatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("invalid request body", nil))
		return
	}

	poll, err := h.pollService.UpdatePoll(r.Context(), pollID, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, poll)
}

// DeletePoll handles DELETE /api/polls/{pollID}
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	pollID, err := pathID(r, "pollID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.pollService.DeletePoll(r.Context(), pollID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"deleted": pollID})
}

// ToggleActive handles POST /api/polls/{pollID}/toggle
func (h *PollHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	pollID, err := pathID(r, "pollID")
	if err != nil {
		respondError(w, err)
		return
	}

	poll, err := h.pollService.ToggleActive(r.Context(), pollID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, poll)
}

// SubmitVote handles POST /api/polls/{pollID}/vote
func (h *PollHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, errors.NewAuthenticationError("authentication required"))
		return
	}

	pollID, err := pathID(r, "pollID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req domain.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("invalid request body", nil))
		return
	}

	vote, err := h.pollService.SubmitVote(r.Context(), pollID, claims.ResidentID, req.SelectedOptions)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, vote)
}

// GetMyVote handles GET /api/polls/{pollID}/my-vote
func (h *PollHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, errors.NewAuthenticationError("authentication required"))
		return
	}

	pollID, err := pathID(r, "pollID")
	if err != nil {
		respondError(w, err)
		return
	}

	vote, err := h.pollService.GetUserVote(r.Context(), pollID, claims.ResidentID)
	if err != nil {
		respondError(w, err)
		return
	}

	if vote == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"has_voted": false})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"has_voted":        true,
		"selected_options": vote.SelectedOptions,
		"voted_at":         vote.CreatedAt,
	})
}

// GetMyVotes handles GET /api/me/votes
func (h *PollHandler) GetMyVotes(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, errors.NewAuthenticationError("authentication required"))
		return
	}

	votes, err := h.pollService.GetAllUserVotes(r.Context(), claims.ResidentID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, votes)
}

// pathID parses a numeric URL parameter
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("invalid "+name, nil)
	}
	return id, nil
}
