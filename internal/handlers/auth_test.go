package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sparkmatch/backend/internal/models"
	"github.com/sparkmatch/backend/internal/repositories"
)

type memUserStore struct {
	users map[string]models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]models.User)}
}

func (s *memUserStore) Create(_ context.Context, user models.User) error {
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *memUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *memUserStore) UpdateProfile(_ context.Context, user models.User) error {
	existing, ok := s.users[user.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	existing.Profile = user.Profile
	s.users[user.ID] = existing
	return nil
}

type stubSessionManager struct {
	issued []string
}

func (s *stubSessionManager) Issue(_ context.Context, userID string) (models.SessionTokens, error) {
	s.issued = append(s.issued, userID)
	return models.SessionTokens{AccessToken: "access-" + userID, RefreshToken: "refresh-" + userID}, nil
}

func (s *stubSessionManager) Refresh(_ context.Context, refreshToken string) (models.SessionTokens, error) {
	return models.SessionTokens{AccessToken: "rotated", RefreshToken: "rotated-refresh"}, nil
}

func TestAuthHandlerSignUp(t *testing.T) {
	store := newMemUserStore()
	sessions := &stubSessionManager{}
	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	handler := AuthHandler{Users: store, Sessions: sessions, NowFunc: func() time.Time { return now }}

	body := []byte(`{"email":"SAM@Example.com","password":"supersecret","displayName":"Sam"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.SignUp(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(sessions.issued) != 1 {
		t.Fatalf("expected one session to be issued")
	}

	user, err := store.FindByEmail(context.Background(), "sam@example.com")
	if err != nil {
		t.Fatalf("expected user stored with lowercased email: %v", err)
	}
	if user.Profile.DisplayName != "Sam" {
		t.Fatalf("expected display name to be stored got %q", user.Profile.DisplayName)
	}
	if user.CreatedAt != now {
		t.Fatalf("expected createdAt to use NowFunc")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("supersecret")) != nil {
		t.Fatalf("expected password to be hashed")
	}
}

func TestAuthHandlerSignUpValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{"missing credentials", `{"email":"","password":""}`, http.StatusBadRequest},
		{"invalid email", `{"email":"not-an-email","password":"supersecret"}`, http.StatusBadRequest},
		{"short password", `{"email":"a@b.com","password":"short"}`, http.StatusBadRequest},
		{"malformed body", `{`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := AuthHandler{Users: newMemUserStore(), Sessions: &stubSessionManager{}}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader([]byte(tc.body)))
			rec := httptest.NewRecorder()

			handler.SignUp(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("expected %d got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestAuthHandlerSignUpConflict(t *testing.T) {
	store := newMemUserStore()
	handler := AuthHandler{Users: store, Sessions: &stubSessionManager{}}

	body := []byte(`{"email":"sam@example.com","password":"supersecret"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.SignUp(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	handler.SignUp(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	store := newMemUserStore()
	hashed, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	store.users["user-1"] = models.User{ID: "user-1", Email: "sam@example.com", Password: string(hashed)}

	sessions := &stubSessionManager{}
	handler := AuthHandler{Users: store, Sessions: sessions}

	body := []byte(`{"email":"sam@example.com","password":"supersecret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var resp authResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Tokens.AccessToken != "access-user-1" {
		t.Fatalf("unexpected access token %q", resp.Tokens.AccessToken)
	}
}

func TestAuthHandlerLoginRejectsBadCredentials(t *testing.T) {
	store := newMemUserStore()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	store.users["user-1"] = models.User{ID: "user-1", Email: "sam@example.com", Password: string(hashed)}

	handler := AuthHandler{Users: store, Sessions: &stubSessionManager{}}

	cases := []struct {
		name string
		body string
	}{
		{"unknown email", `{"email":"ghost@example.com","password":"supersecret"}`},
		{"wrong password", `{"email":"sam@example.com","password":"wrong-password"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(tc.body)))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401 got %d", rec.Code)
			}
		})
	}
}

func TestAuthHandlerLoginRateLimited(t *testing.T) {
	handler := AuthHandler{Users: newMemUserStore(), Sessions: &stubSessionManager{}, Limiter: denyAllLimiter{}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"email":"a@b.com","password":"x"}`)))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rec.Code)
	}
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }
