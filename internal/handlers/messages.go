package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sparkmatch/backend/internal/models"
	"github.com/sparkmatch/backend/internal/repositories"
)

// editWindow is how long after sending a message it may still be edited or
// deleted by its sender.
const editWindow = 15 * time.Minute

// MessageHandler exposes match-gated messaging over HTTP. Every operation
// verifies that the caller belongs to an accepted match before touching rows.
type MessageHandler struct {
	Messages MessageStore
	Matches  MatchResolver
	NowFunc  func() time.Time
}

// Route dispatches /api/v1/messages by method.
func (h MessageHandler) Route(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.Send(w, r)
	case http.MethodGet:
		h.List(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Send handles POST /api/v1/messages requests.
func (h MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.MatchID = strings.TrimSpace(req.MatchID)
	req.Body = strings.TrimSpace(req.Body)
	if req.MatchID == "" || req.Body == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "matchId and body are required"})
		return
	}

	match, err := h.Matches.MatchByID(ctx, req.MatchID, callerID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}
	if match.Status != models.MatchStatusAccepted {
		respondJSON(ctx, w, http.StatusForbidden, map[string]string{"error": "match has not been accepted"})
		return
	}

	existing, err := h.Messages.ListForMatch(ctx, match.ID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	message := models.Message{
		ID:         uuid.NewString(),
		MatchID:    match.ID,
		SenderID:   callerID,
		Body:       req.Body,
		Icebreaker: len(existing) == 0,
		CreatedAt:  h.now(),
	}

	if err := h.Messages.Create(ctx, message); err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, messageView(message))
}

// List handles GET /api/v1/messages?matchId= requests.
func (h MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	matchID := strings.TrimSpace(r.URL.Query().Get("matchId"))
	if matchID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "matchId query parameter is required"})
		return
	}

	match, err := h.Matches.MatchByID(ctx, matchID, callerID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	messages, err := h.Messages.ListForMatch(ctx, match.ID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	views := make([]messagePayload, 0, len(messages))
	for _, m := range messages {
		views = append(views, messageView(m))
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]messagePayload{"messages": views})
}

// Edit handles POST /api/v1/messages/edit requests. Edits are rejected once
// the message is older than the edit window.
func (h MessageHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req editMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.MessageID = strings.TrimSpace(req.MessageID)
	req.Body = strings.TrimSpace(req.Body)
	if req.MessageID == "" || req.Body == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "messageId and body are required"})
		return
	}

	message, err := h.Messages.Get(ctx, req.MessageID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}
	if message.SenderID != callerID {
		respondJSON(ctx, w, http.StatusForbidden, map[string]string{"error": "not the sender"})
		return
	}

	now := h.now()
	if now.Sub(message.CreatedAt) > editWindow {
		respondJSON(ctx, w, http.StatusUnprocessableEntity, map[string]string{"error": "message is too old to edit"})
		return
	}

	if err := h.Messages.UpdateBody(ctx, message.ID, req.Body, now); err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	message.Body = req.Body
	message.EditedAt = &now
	respondJSON(ctx, w, http.StatusOK, messageView(message))
}

// Delete handles POST /api/v1/messages/delete requests. Like Edit, it is
// rejected once the message is older than the edit window.
func (h MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req deleteMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.MessageID = strings.TrimSpace(req.MessageID)
	if req.MessageID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "messageId is required"})
		return
	}

	message, err := h.Messages.Get(ctx, req.MessageID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
			return
		}
		respondServiceError(ctx, w, err)
		return
	}
	if message.SenderID != callerID {
		respondJSON(ctx, w, http.StatusForbidden, map[string]string{"error": "not the sender"})
		return
	}

	if h.now().Sub(message.CreatedAt) > editWindow {
		respondJSON(ctx, w, http.StatusUnprocessableEntity, map[string]string{"error": "message is too old to delete"})
		return
	}

	if err := h.Messages.Delete(ctx, message.ID); err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

type sendMessageRequest struct {
	MatchID string `json:"matchId"`
	Body    string `json:"body"`
}

type editMessageRequest struct {
	MessageID string `json:"messageId"`
	Body      string `json:"body"`
}

type deleteMessageRequest struct {
	MessageID string `json:"messageId"`
}

type messagePayload struct {
	ID         string  `json:"id"`
	MatchID    string  `json:"matchId"`
	SenderID   string  `json:"senderId"`
	Body       string  `json:"body"`
	Icebreaker bool    `json:"icebreaker"`
	CreatedAt  string  `json:"createdAt"`
	EditedAt   *string `json:"editedAt,omitempty"`
}

func messageView(m models.Message) messagePayload {
	view := messagePayload{
		ID:         m.ID,
		MatchID:    m.MatchID,
		SenderID:   m.SenderID,
		Body:       m.Body,
		Icebreaker: m.Icebreaker,
		CreatedAt:  m.CreatedAt.Format(time.RFC3339),
	}
	if m.EditedAt != nil {
		edited := m.EditedAt.Format(time.RFC3339)
		view.EditedAt = &edited
	}
	return view
}

func (h MessageHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
