package handlers

import (
	"net/http"
	"strings"
	"time"
)

const maxStoryUploadBytes = 32 << 20

// StoryHandler exposes the ephemeral story workflows over HTTP.
type StoryHandler struct {
	Stories StoryService
}

// Create handles multipart POST /api/v1/stories requests.
func (h StoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxStoryUploadBytes); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid multipart payload"})
		return
	}

	file, header, err := r.FormFile("media")
	if err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "media file is required"})
		return
	}
	defer file.Close()

	caption := strings.TrimSpace(r.FormValue("caption"))
	isPublic := r.FormValue("visibility") == "public"

	story, err := h.Stories.Create(ctx, callerID, header.Filename, file, caption, isPublic)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, storyResponse{
		ID:        story.ID,
		MediaURL:  story.MediaURL,
		Caption:   story.Caption,
		IsPublic:  story.IsPublic,
		ExpiresAt: story.ExpiresAt.Format(time.RFC3339),
	})
}

// Feed handles GET /api/v1/stories/feed requests.
func (h StoryHandler) Feed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	groups, err := h.Stories.Feed(ctx, callerID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"groups": groups})
}

// MarkViewed handles POST /api/v1/stories/view requests.
func (h StoryHandler) MarkViewed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req storyTargetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.StoryID = strings.TrimSpace(req.StoryID)
	if req.StoryID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "storyId is required"})
		return
	}

	if err := h.Stories.MarkViewed(ctx, callerID, req.StoryID); err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "viewed"})
}

// Delete handles POST /api/v1/stories/delete requests.
func (h StoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req storyTargetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.StoryID = strings.TrimSpace(req.StoryID)
	if req.StoryID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "storyId is required"})
		return
	}

	if err := h.Stories.Delete(ctx, callerID, req.StoryID); err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

type storyTargetRequest struct {
	StoryID string `json:"storyId"`
}

type storyResponse struct {
	ID        string `json:"id"`
	MediaURL  string `json:"mediaUrl"`
	Caption   string `json:"caption"`
	IsPublic  bool   `json:"isPublic"`
	ExpiresAt string `json:"expiresAt"`
}
