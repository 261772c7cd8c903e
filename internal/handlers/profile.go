package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/sparkmatch/backend/internal/models"
)

// ProfileHandler reads and updates the caller's profile.
type ProfileHandler struct {
	Users   UserStore
	NowFunc func() time.Time
}

// Handle implements GET and PUT /api/v1/profile.
func (h ProfileHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h ProfileHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	user, err := h.Users.FindByID(ctx, callerID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, profileResponse{
		ID:           user.ID,
		Profile:      profileView(user.Profile),
		FilledFields: user.Profile.FilledFields(),
		TotalFields:  models.ProfileFieldCount,
	})
}

func (h ProfileHandler) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, err := h.Users.FindByID(ctx, callerID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	user.Profile = req.Profile.trimmed()
	user.UpdatedAt = h.now()

	if err := h.Users.UpdateProfile(ctx, user); err != nil {
		respondServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, profileResponse{
		ID:           user.ID,
		Profile:      profileView(user.Profile),
		FilledFields: user.Profile.FilledFields(),
		TotalFields:  models.ProfileFieldCount,
	})
}

type updateProfileRequest struct {
	Profile profilePayload `json:"profile"`
}

type profilePayload struct {
	DisplayName  string `json:"displayName"`
	AvatarURL    string `json:"avatarUrl"`
	Bio          string `json:"bio"`
	Birthdate    string `json:"birthdate"`
	Gender       string `json:"gender"`
	InterestedIn string `json:"interestedIn"`
	City         string `json:"city"`
	JobTitle     string `json:"jobTitle"`
	Education    string `json:"education"`
	Interests    string `json:"interests"`
}

func (p profilePayload) trimmed() models.Profile {
	return models.Profile{
		DisplayName:  strings.TrimSpace(p.DisplayName),
		AvatarURL:    strings.TrimSpace(p.AvatarURL),
		Bio:          strings.TrimSpace(p.Bio),
		Birthdate:    strings.TrimSpace(p.Birthdate),
		Gender:       strings.TrimSpace(p.Gender),
		InterestedIn: strings.TrimSpace(p.InterestedIn),
		City:         strings.TrimSpace(p.City),
		JobTitle:     strings.TrimSpace(p.JobTitle),
		Education:    strings.TrimSpace(p.Education),
		Interests:    strings.TrimSpace(p.Interests),
	}
}

func profileView(p models.Profile) profilePayload {
	return profilePayload{
		DisplayName:  p.DisplayName,
		AvatarURL:    p.AvatarURL,
		Bio:          p.Bio,
		Birthdate:    p.Birthdate,
		Gender:       p.Gender,
		InterestedIn: p.InterestedIn,
		City:         p.City,
		JobTitle:     p.JobTitle,
		Education:    p.Education,
		Interests:    p.Interests,
	}
}

type profileResponse struct {
	ID           string         `json:"id"`
	Profile      profilePayload `json:"profile"`
	FilledFields int            `json:"filledFields"`
	TotalFields  int            `json:"totalFields"`
}

func (h ProfileHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
