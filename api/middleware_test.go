package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"projection/internal/auth"
	"projection/models"
	"projection/services/sessions"
)

func sessionService(t *testing.T) *sessions.Service {
	t.Helper()
	svc, err := sessions.NewService(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("sessions.NewService: %v", err)
	}
	return svc
}

func TestSessionMiddleware_AttachesUser(t *testing.T) {
	svc := sessionService(t)
	session, err := svc.Create(models.SessionUser{ID: "u1", Username: "alice"}, "bt")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var seen models.SessionUser
	var ok bool
	handler := SessionMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, ok = auth.SessionUserFrom(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/pages/movie/550", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !ok || seen.ID != "u1" {
		t.Fatalf("expected user u1 attached, got ok=%v user=%+v", ok, seen)
	}
}

func TestSessionMiddleware_AnonymousPassesThrough(t *testing.T) {
	svc := sessionService(t)

	handler := SessionMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.SessionUserFrom(r); ok {
			t.Error("expected no user for anonymous request")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pages/movie/550", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for anonymous read, got %d", rec.Code)
	}
}

func TestSessionMiddleware_StaleTokenTreatedAsAnonymous(t *testing.T) {
	svc := sessionService(t)

	handler := SessionMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.SessionUserFrom(r); ok {
			t.Error("expected no user for stale token")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bogus-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireUser_RejectsAnonymous(t *testing.T) {
	handler := RequireUser()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for anonymous request")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/users/me/likes", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "authentication required" {
		t.Fatalf("unexpected error message %q", body["error"])
	}
}

func TestRequireUser_AllowsSignedIn(t *testing.T) {
	handler := RequireUser()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	session := models.Session{Token: "t", User: models.SessionUser{ID: "u1"}}
	req = req.WithContext(auth.WithSession(req.Context(), session))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected request id set on inbound request")
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id echoed in response")
	}

	// An inbound id is preserved, not replaced.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-id-1")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "client-id-1" {
		t.Fatalf("expected inbound id preserved, got %q", got)
	}
}

func TestExtractToken_QueryFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?token=abc123", nil)
	if tok := extractToken(req); tok != "abc123" {
		t.Fatalf("expected query token, got %q", tok)
	}
}
