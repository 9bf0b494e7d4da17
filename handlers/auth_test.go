package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"projection/internal/auth"
	"projection/internal/result"
	"projection/models"
	authsvc "projection/services/auth"
)

type fakeAuthService struct {
	signupCalls  int
	signupResp   result.Result[models.SessionUser]
	loginResp    result.Result[authsvc.LoginResult]
	availability result.Availability
	lastUsername string
}

func (f *fakeAuthService) Signup(_ context.Context, req authsvc.SignupRequest) result.Result[models.SessionUser] {
	f.signupCalls++
	return f.signupResp
}

func (f *fakeAuthService) Login(_ context.Context, req authsvc.LoginRequest) result.Result[authsvc.LoginResult] {
	return f.loginResp
}

func (f *fakeAuthService) CheckUsernameAvailability(_ context.Context, username string) result.Availability {
	f.lastUsername = username
	return f.availability
}

type fakeSessionStore struct {
	created     []models.Session
	revoked     []string
	lastBackend string
}

func (f *fakeSessionStore) Create(user models.SessionUser, backendToken string) (models.Session, error) {
	f.lastBackend = backendToken
	session := models.Session{Token: "session-token", User: user, BackendToken: backendToken}
	f.created = append(f.created, session)
	return session, nil
}

func (f *fakeSessionStore) Revoke(token string) error {
	f.revoked = append(f.revoked, token)
	return nil
}

func TestSignup_ValidationBeforeNetwork(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"short username", `{"username":"ab","email":"a@b.co","password":"secret1"}`, "username"},
		{"missing email", `{"username":"alice","email":"","password":"secret1"}`, "email"},
		{"bad email", `{"username":"alice","email":"not-an-email","password":"secret1"}`, "email"},
		{"short password", `{"username":"alice","email":"a@b.co","password":"abc"}`, "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			authFake := &fakeAuthService{}
			handler := NewAuthHandler(authFake, &fakeSessionStore{})

			req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			handler.Signup(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if authFake.signupCalls != 0 {
				t.Fatal("invalid payload must not reach the backend")
			}

			var envelope struct {
				Error struct {
					ValidationErrors map[string]string `json:"validationErrors"`
				} `json:"error"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if envelope.Error.ValidationErrors[tc.field] == "" {
				t.Fatalf("expected validation error on %q, got %+v", tc.field, envelope.Error.ValidationErrors)
			}
		})
	}
}

func TestSignup_Success(t *testing.T) {
	authFake := &fakeAuthService{
		signupResp: result.Ok(models.SessionUser{ID: "u1", Username: "alice"}),
	}
	handler := NewAuthHandler(authFake, &fakeSessionStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup",
		strings.NewReader(`{"username":"alice","email":"alice@example.com","password":"secret1"}`))
	rec := httptest.NewRecorder()
	handler.Signup(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if authFake.signupCalls != 1 {
		t.Fatalf("expected one backend call, got %d", authFake.signupCalls)
	}
}

func TestLogin_MintsSessionWithBackendToken(t *testing.T) {
	authFake := &fakeAuthService{
		loginResp: result.Ok(authsvc.LoginResult{
			User:  models.SessionUser{ID: "u1", Username: "alice"},
			Token: "backend-bearer",
		}),
	}
	store := &fakeSessionStore{}
	handler := NewAuthHandler(authFake, store)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"secret1"}`))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if store.lastBackend != "backend-bearer" {
		t.Fatalf("expected backend token stored with session, got %q", store.lastBackend)
	}

	var envelope struct {
		Data struct {
			Token string             `json:"token"`
			User  models.SessionUser `json:"user"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Token != "session-token" || envelope.Data.User.ID != "u1" {
		t.Fatalf("unexpected login payload %+v", envelope.Data)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	authFake := &fakeAuthService{
		loginResp: result.Fail[authsvc.LoginResult](result.Error{Message: "Invalid username or password"}),
	}
	store := &fakeSessionStore{}
	handler := NewAuthHandler(authFake, store)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"wrong"}`))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if len(store.created) != 0 {
		t.Fatal("failed login must not mint a session")
	}
}

func TestLogout_RevokesSession(t *testing.T) {
	store := &fakeSessionStore{}
	handler := NewAuthHandler(&fakeAuthService{}, store)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	session := models.Session{Token: "session-token", User: models.SessionUser{ID: "u1"}}
	req = req.WithContext(auth.WithSession(req.Context(), session))

	rec := httptest.NewRecorder()
	handler.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(store.revoked) != 1 || store.revoked[0] != "session-token" {
		t.Fatalf("expected session revoked, got %v", store.revoked)
	}
}

func TestLogout_AnonymousIsNoop(t *testing.T) {
	store := &fakeSessionStore{}
	handler := NewAuthHandler(&fakeAuthService{}, store)

	rec := httptest.NewRecorder()
	handler.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(store.revoked) != 0 {
		t.Fatal("nothing to revoke for anonymous logout")
	}
}

func TestCheckUsername_WireShape(t *testing.T) {
	authFake := &fakeAuthService{availability: result.AvailabilityAvailable}
	handler := NewAuthHandler(authFake, &fakeSessionStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check-username?username=alice", nil)
	rec := httptest.NewRecorder()
	handler.CheckUsername(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["availability"] != "available" {
		t.Fatalf("expected availability 'available', got %q", body["availability"])
	}
	if authFake.lastUsername != "alice" {
		t.Fatalf("expected username forwarded, got %q", authFake.lastUsername)
	}
}

func TestMe_RequiresSession(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthService{}, &fakeSessionStore{})

	rec := httptest.NewRecorder()
	handler.Me(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
