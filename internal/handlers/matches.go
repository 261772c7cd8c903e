package handlers

import (
	"net/http"
	"strings"
)

// MatchHandler exposes the message-request lifecycle over HTTP.
type MatchHandler struct {
	Matches MatchService
}

// Request handles POST /api/v1/matches/request requests.
func (h MatchHandler) Request(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req matchTargetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "userId is required"})
		return
	}

	matchID, err := h.Matches.SendRequest(ctx, callerID, req.UserID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, map[string]string{"matchId": matchID})
}

// Accept handles POST /api/v1/matches/accept requests.
func (h MatchHandler) Accept(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req matchTargetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "userId is required"})
		return
	}

	match, err := h.Matches.AcceptRequest(ctx, callerID, req.UserID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}
	if match == nil {
		respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "no pending request from that user"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"matchId": match.ID, "status": match.Status})
}

// Decline handles POST /api/v1/matches/decline requests.
func (h MatchHandler) Decline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req matchTargetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "userId is required"})
		return
	}

	if err := h.Matches.DeclineRequest(ctx, callerID, req.UserID); err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "declined"})
}

// List handles GET /api/v1/matches requests.
func (h MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	partners, err := h.Matches.Partners(ctx, callerID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}
	if partners == nil {
		partners = []string{}
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]string{"userIds": partners})
}

// Requests handles GET /api/v1/matches/requests requests.
func (h MatchHandler) Requests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	requesters, err := h.Matches.PendingRequests(ctx, callerID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}
	if requesters == nil {
		requesters = []string{}
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]string{"userIds": requesters})
}

// ClearAll handles POST /api/v1/matches/clear requests.
func (h MatchHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	if err := h.Matches.ClearMatches(ctx, callerID); err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "cleared"})
}

type matchTargetRequest struct {
	UserID string `json:"userId"`
}
