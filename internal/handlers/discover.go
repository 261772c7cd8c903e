package handlers

import (
	"net/http"
	"strconv"
)

// DiscoverHandler lists candidate profiles for the caller.
type DiscoverHandler struct {
	Discovery DiscoverService
}

// Handle implements GET /api/v1/discover.
func (h DiscoverHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	candidates, err := h.Discovery.Discover(ctx, callerID, limit)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"candidates": candidates})
}
