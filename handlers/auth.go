package handlers

import (
	"context"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"projection/internal/auth"
	"projection/internal/result"
	"projection/models"
	authsvc "projection/services/auth"
	"projection/services/sessions"
)

type authService interface {
	Signup(ctx context.Context, req authsvc.SignupRequest) result.Result[models.SessionUser]
	Login(ctx context.Context, req authsvc.LoginRequest) result.Result[authsvc.LoginResult]
	CheckUsernameAvailability(ctx context.Context, username string) result.Availability
}

var _ authService = (*authsvc.Service)(nil)

type sessionStore interface {
	Create(user models.SessionUser, backendToken string) (models.Session, error)
	Revoke(token string) error
}

var _ sessionStore = (*sessions.Service)(nil)

// AuthHandler serves signup, login, logout, and the username probe.
type AuthHandler struct {
	Auth     authService
	Sessions sessionStore
}

func NewAuthHandler(authSvc authService, sessionsSvc sessionStore) *AuthHandler {
	return &AuthHandler{Auth: authSvc, Sessions: sessionsSvc}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validateSignup checks credential shape before any network call. Field
// names in the returned map line up with the request payload.
func validateSignup(req authsvc.SignupRequest) map[string]string {
	errs := map[string]string{}

	username := strings.TrimSpace(req.Username)
	switch {
	case username == "":
		errs["username"] = "Username is required"
	case len([]rune(username)) < authsvc.UsernameMinLength:
		errs["username"] = "Username must be at least 3 characters"
	case len([]rune(username)) > authsvc.UsernameMaxLength:
		errs["username"] = "Username must not exceed 50 characters"
	}

	email := strings.TrimSpace(req.Email)
	switch {
	case email == "":
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(email):
		errs["email"] = "Please enter a valid email address"
	}

	switch {
	case strings.TrimSpace(req.Password) == "":
		errs["password"] = "Password is required"
	case len(req.Password) < 6:
		errs["password"] = "Password must be at least 6 characters long"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req authsvc.SignupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := validateSignup(req); errs != nil {
		writeJSON(w, http.StatusBadRequest, result.Fail[models.SessionUser](result.Error{
			Message:          "Validation failed",
			ValidationErrors: errs,
		}))
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	res := h.Auth.Signup(r.Context(), req)
	if !res.OK() {
		writeJSON(w, http.StatusBadGateway, res)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// loginResponse is the session payload handed to the browser.
type loginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt string             `json:"expiresAt"`
	User      models.SessionUser `json:"user"`
}

// Login handles POST /api/auth/login. A successful backend login mints a
// local session carrying the backend bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req authsvc.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res := h.Auth.Login(r.Context(), req)
	if !res.OK() {
		writeJSON(w, http.StatusUnauthorized, res)
		return
	}

	login := res.Data()
	session, err := h.Sessions.Create(login.User, login.Token)
	if err != nil {
		log.Printf("[auth] session create failed for %s: %v", login.User.ID, err)
		writeJSON(w, http.StatusInternalServerError, result.Failf[loginResponse]("Failed to create session"))
		return
	}

	writeJSON(w, http.StatusOK, result.Ok(loginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
		User:      session.User,
	}))
}

// Logout handles POST /api/auth/logout. Revoking an already-gone session is
// not an error from the caller's point of view.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFrom(r)
	if ok {
		if err := h.Sessions.Revoke(session.Token); err != nil {
			log.Printf("[auth] revoke failed: %v", err)
		}
	}
	writeJSON(w, http.StatusOK, result.Ok(struct{}{}))
}

// Me handles GET /api/auth/me, returning the signed-in identity.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.SessionUserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, result.Ok(user))
}

// CheckUsername handles GET /api/auth/check-username?username=.
func (h *AuthHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	availability := h.Auth.CheckUsernameAvailability(r.Context(), username)
	writeJSON(w, http.StatusOK, map[string]result.Availability{"availability": availability})
}
