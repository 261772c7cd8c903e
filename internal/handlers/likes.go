package handlers

import (
	"net/http"
	"strings"
)

// LikeHandler exposes the like coordinator over HTTP.
type LikeHandler struct {
	Likes LikeService
}

// Submit handles POST /api/v1/likes requests.
func (h LikeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req likeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "userId is required"})
		return
	}

	outcome, err := h.Likes.SubmitLike(ctx, callerID, req.UserID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, outcome)
}

// Received handles GET /api/v1/likes/received requests.
func (h LikeHandler) Received(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	likers, err := h.Likes.LikesReceived(ctx, callerID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}
	if likers == nil {
		likers = []string{}
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]string{"userIds": likers})
}

// Status handles GET /api/v1/likes/status?userId= requests.
func (h LikeHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	targetID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if targetID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "userId query parameter is required"})
		return
	}

	liked, err := h.Likes.HasLiked(ctx, callerID, targetID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]bool{"liked": liked})
}

type likeRequest struct {
	UserID string `json:"userId"`
}
