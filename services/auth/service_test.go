package auth_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"projection/internal/rest"
	"projection/internal/result"
	authsvc "projection/services/auth"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*authsvc.Service, *int64) {
	t.Helper()
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return authsvc.NewService(rest.NewClient(srv.URL, srv.Client())), &calls
}

func TestSignupSuccess(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/signup" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"id":"u1","username":"ada","email":"ada@example.com"}`))
	})

	res := svc.Signup(context.Background(), authsvc.SignupRequest{Username: "ada", Email: "ada@example.com", Password: "secret1"})
	if !res.OK() {
		t.Fatalf("signup failed: %+v", res.Err())
	}
	if res.Data().ID != "u1" || res.Data().Username != "ada" {
		t.Fatalf("unexpected user: %+v", res.Data())
	}
}

func TestSignupValidationFailureKeepsFields(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"validation failed","validationErrors":{"email":"invalid email"}}`))
	})

	res := svc.Signup(context.Background(), authsvc.SignupRequest{Username: "ada"})
	if res.OK() {
		t.Fatal("expected failure envelope")
	}
	if res.Err().ValidationErrors["email"] != "invalid email" {
		t.Fatalf("per-field errors lost: %+v", res.Err())
	}
}

func TestLoginFailureIsEnvelopeNotPanic(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid credentials"}`))
	})

	res := svc.Login(context.Background(), authsvc.LoginRequest{Username: "ada", Password: "wrong"})
	if res.OK() {
		t.Fatal("expected failure envelope")
	}
	if res.Err().Message != "invalid credentials" {
		t.Fatalf("backend message lost: %q", res.Err().Message)
	}
}

func TestCheckUsernameShortInputSkipsNetwork(t *testing.T) {
	svc, calls := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`true`))
	})

	if got := svc.CheckUsernameAvailability(context.Background(), "ab"); got != result.AvailabilityUnknown {
		t.Fatalf("short username = %v, want unknown", got)
	}
	if *calls != 0 {
		t.Fatalf("short username must not trigger a network call, saw %d", *calls)
	}
}

func TestCheckUsernameOutcomes(t *testing.T) {
	available := true
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("username") == "" {
			t.Error("username query param missing")
		}
		if available {
			w.Write([]byte(`true`))
		} else {
			w.Write([]byte(`false`))
		}
	})

	if got := svc.CheckUsernameAvailability(context.Background(), "freename"); got != result.AvailabilityAvailable {
		t.Fatalf("got %v, want available", got)
	}
	available = false
	if got := svc.CheckUsernameAvailability(context.Background(), "takenname"); got != result.AvailabilityTaken {
		t.Fatalf("got %v, want taken", got)
	}
}

func TestCheckUsernameServerErrorIsUnknownNotTaken(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if got := svc.CheckUsernameAvailability(context.Background(), "whoever"); got != result.AvailabilityUnknown {
		t.Fatalf("server error = %v, must be unknown", got)
	}
}

func TestUploadProfilePictureRejectsGarbageLocally(t *testing.T) {
	svc, calls := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	res := svc.UploadProfilePicture(context.Background(), "u1", "x.bin", []byte("definitely not an image"))
	if res.OK() {
		t.Fatal("expected validation failure")
	}
	if res.Err().ValidationErrors["image"] == "" {
		t.Fatalf("expected image field error: %+v", res.Err())
	}
	if *calls != 0 {
		t.Fatalf("invalid image must not reach the backend, saw %d calls", *calls)
	}
}

func TestUploadProfilePictureAcceptsPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode test png: %v", err)
	}

	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart body: %v", err)
		}
		if _, _, err := r.FormFile("image"); err != nil {
			t.Errorf("image form field missing: %v", err)
		}
		w.Write([]byte(`{"id":"u1","username":"ada","profilePictureUrl":"/avatars/u1.png"}`))
	})

	res := svc.UploadProfilePicture(context.Background(), "u1", "avatar.png", buf.Bytes())
	if !res.OK() {
		t.Fatalf("upload failed: %+v", res.Err())
	}
	if res.Data().ProfilePictureURL == "" {
		t.Fatal("profile picture url missing from response")
	}
}

func TestGetUserStats(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/u1/stats" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"likeCount":3,"watchedCount":10,"ratingCount":4,"averageRating":3.5}`))
	})

	res := svc.GetUserStats(context.Background(), "u1")
	if !res.OK() {
		t.Fatalf("stats failed: %+v", res.Err())
	}
	if res.Data().WatchedCount != 10 || res.Data().AverageRating == nil {
		t.Fatalf("unexpected stats: %+v", res.Data())
	}
}
