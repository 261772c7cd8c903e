package handlers

import (
	"net/http"
	"time"
)

// BadgeHandler exposes the gamification evaluator over HTTP.
type BadgeHandler struct {
	Badges   BadgeService
	Presence PresenceStore
	NowFunc  func() time.Time
}

// Check handles POST /api/v1/badges/check requests.
func (h BadgeHandler) Check(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	awarded, err := h.Badges.CheckAndAward(ctx, callerID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}
	if awarded == nil {
		awarded = []string{}
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]string{"awarded": awarded})
}

// Progress handles GET /api/v1/badges/progress requests.
func (h BadgeHandler) Progress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	progress, err := h.Badges.GetProgress(ctx, callerID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"progress": progress})
}

// Ping handles POST /api/v1/presence/ping requests.
func (h BadgeHandler) Ping(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	if err := h.Presence.Touch(ctx, callerID, h.now()); err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h BadgeHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
