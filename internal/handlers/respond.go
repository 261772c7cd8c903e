package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sparkmatch/backend/internal/auth"
	"github.com/sparkmatch/backend/internal/graph"
	"github.com/sparkmatch/backend/internal/logging"
	"github.com/sparkmatch/backend/internal/repositories"
	"github.com/sparkmatch/backend/internal/stories"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

// respondServiceError translates domain sentinels into HTTP rejections. The
// caller decides whether to resubmit; nothing is retried server-side.
func respondServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, graph.ErrSelfAction):
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "operation cannot target yourself"})
	case errors.Is(err, graph.ErrBlocked):
		respondJSON(ctx, w, http.StatusForbidden, map[string]string{"error": "relationship unavailable"})
	case errors.Is(err, stories.ErrNotOwner):
		respondJSON(ctx, w, http.StatusForbidden, map[string]string{"error": "not the owner"})
	case errors.Is(err, repositories.ErrNotFound):
		respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, repositories.ErrConflict):
		respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "conflict"})
	default:
		logging.FromContext(ctx).Error("unhandled service error", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// requireCaller extracts the authenticated user id or rejects the request.
func requireCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	callerID := auth.CallerFromContext(r.Context())
	if callerID == "" {
		respondJSON(r.Context(), w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return "", false
	}
	return callerID, true
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
