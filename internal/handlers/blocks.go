package handlers

import (
	"net/http"
	"strings"

	"github.com/sparkmatch/backend/internal/models"
)

// BlockHandler exposes block management and privacy settings over HTTP.
type BlockHandler struct {
	Blocks BlockService
}

// Block handles POST /api/v1/blocks requests.
func (h BlockHandler) Block(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req blockTargetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "userId is required"})
		return
	}

	outcome, err := h.Blocks.BlockUser(ctx, callerID, req.UserID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, outcome)
}

// Unblock handles POST /api/v1/blocks/remove requests.
func (h BlockHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req blockTargetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "userId is required"})
		return
	}

	if err := h.Blocks.UnblockUser(ctx, callerID, req.UserID); err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "unblocked"})
}

// List handles GET /api/v1/blocks requests.
func (h BlockHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	blocked, err := h.Blocks.BlockedUsers(ctx, callerID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}
	if blocked == nil {
		blocked = []models.BlockedUser{}
	}

	respondJSON(ctx, w, http.StatusOK, blockListResponse{Users: blocked})
}

// Privacy handles GET and PUT /api/v1/privacy requests.
func (h BlockHandler) Privacy(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getPrivacy(w, r)
	case http.MethodPut:
		h.setPrivacy(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h BlockHandler) getPrivacy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	settings, err := h.Blocks.Privacy(ctx, callerID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, settings)
}

func (h BlockHandler) setPrivacy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req privacyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.Blocks.SetHideProfile(ctx, callerID, req.HideProfile); err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	settings, err := h.Blocks.Privacy(ctx, callerID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, settings)
}

type blockTargetRequest struct {
	UserID string `json:"userId"`
}

type privacyRequest struct {
	HideProfile bool `json:"hideProfile"`
}

type blockListResponse struct {
	Users []models.BlockedUser `json:"users"`
}
