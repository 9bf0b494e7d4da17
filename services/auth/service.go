// Package auth wraps the companion backend's authentication and profile
// endpoints. Every operation resolves to a Result envelope; nothing here
// panics or leaks a raw client error to the caller.
package auth

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	// Register decoders for the avatar sanity check.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"projection/internal/rest"
	"projection/internal/result"
	"projection/models"
)

const (
	// UsernameMinLength is the shortest username worth checking with the
	// backend; shorter inputs resolve Unknown without a request.
	UsernameMinLength = 3
	// UsernameMaxLength mirrors the backend's upper bound.
	UsernameMaxLength = 50

	// maxAvatarDimension caps profile picture width/height in pixels.
	maxAvatarDimension = 8000
)

// SignupRequest is the credential payload for account creation.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the credential payload for authentication.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// PasswordChange carries a password rotation request.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// LoginResult is the backend's successful authentication payload: the user
// record plus the bearer token the rating endpoints require.
type LoginResult struct {
	User  models.SessionUser
	Token string
}

// Service wraps the /auth and /users resource families.
type Service struct {
	api *rest.Client
}

// NewService creates an auth service over the shared backend client.
func NewService(api *rest.Client) *Service {
	return &Service{api: api}
}

// Signup creates a new account.
func (s *Service) Signup(ctx context.Context, req SignupRequest) result.Result[models.SessionUser] {
	var user models.SessionUser
	if err := s.api.Post(ctx, "/auth/signup", req, &user); err != nil {
		log.Printf("[auth] signup failed for %q: %v", req.Username, err)
		return result.Fail[models.SessionUser](rest.FailureFrom(err, "Network error occurred"))
	}
	return result.Ok(user)
}

// Login authenticates a user.
func (s *Service) Login(ctx context.Context, req LoginRequest) result.Result[LoginResult] {
	var resp struct {
		models.SessionUser
		Token string `json:"token"`
	}
	if err := s.api.Post(ctx, "/auth/login", req, &resp); err != nil {
		log.Printf("[auth] login failed for %q: %v", req.Username, err)
		return result.Fail[LoginResult](rest.FailureFrom(err, "Network error occurred"))
	}
	return result.Ok(LoginResult{User: resp.SessionUser, Token: resp.Token})
}

// UpdateProfile updates the given user's editable fields.
func (s *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) result.Result[models.SessionUser] {
	var user models.SessionUser
	if err := s.api.Put(ctx, "/users/"+url.PathEscape(userID), update, &user); err != nil {
		log.Printf("[auth] profile update failed for %s: %v", userID, err)
		return result.Fail[models.SessionUser](rest.FailureFrom(err, "Failed to update profile"))
	}
	return result.Ok(user)
}

// ChangePassword rotates the given user's password. The backend rejects a
// wrong current password; that rejection surfaces in the envelope.
func (s *Service) ChangePassword(ctx context.Context, userID string, change PasswordChange) result.Result[struct{}] {
	if err := s.api.Put(ctx, "/users/"+url.PathEscape(userID)+"/password", change, nil); err != nil {
		log.Printf("[auth] password change failed for %s: %v", userID, err)
		return result.Fail[struct{}](rest.FailureFrom(err, "Failed to change password"))
	}
	return result.Ok(struct{}{})
}

// UploadProfilePicture validates and forwards an avatar image. The image is
// sniffed and decoded before any network call so garbage never reaches the
// backend.
func (s *Service) UploadProfilePicture(ctx context.Context, userID, filename string, data []byte) result.Result[models.SessionUser] {
	if err := validateAvatar(data); err != nil {
		return result.Fail[models.SessionUser](result.Error{
			Message:          "Invalid image",
			ValidationErrors: map[string]string{"image": err.Error()},
		})
	}

	var user models.SessionUser
	path := "/users/" + url.PathEscape(userID) + "/profile-picture"
	if err := s.api.PostMultipart(ctx, path, "image", filename, data, &user); err != nil {
		log.Printf("[auth] avatar upload failed for %s: %v", userID, err)
		return result.Fail[models.SessionUser](rest.FailureFrom(err, "Failed to upload image"))
	}
	return result.Ok(user)
}

// GetUserStats fetches the aggregate profile counters.
func (s *Service) GetUserStats(ctx context.Context, userID string) result.Result[models.UserStats] {
	var stats models.UserStats
	if err := s.api.Get(ctx, "/users/"+url.PathEscape(userID)+"/stats", nil, &stats); err != nil {
		log.Printf("[auth] stats fetch failed for %s: %v", userID, err)
		return result.Fail[models.UserStats](rest.FailureFrom(err, "Failed to fetch user stats"))
	}
	return result.Ok(stats)
}

// CheckUsernameAvailability asks the backend whether a username is free.
// Usernames under the minimum length resolve Unknown without a network call,
// and any failure also resolves Unknown: a transient error must never read
// as "taken".
func (s *Service) CheckUsernameAvailability(ctx context.Context, username string) result.Availability {
	username = strings.TrimSpace(username)
	if len([]rune(username)) < UsernameMinLength {
		return result.AvailabilityUnknown
	}
	if len([]rune(username)) > UsernameMaxLength {
		return result.AvailabilityTaken
	}

	query := url.Values{}
	query.Set("username", username)
	var available bool
	if err := s.api.Get(ctx, "/auth/check-username", query, &available); err != nil {
		log.Printf("[auth] username check failed for %q: %v", username, err)
		return result.AvailabilityUnknown
	}
	if available {
		return result.AvailabilityAvailable
	}
	return result.AvailabilityTaken
}

// validateAvatar sniffs the MIME type and decodes the image header.
func validateAvatar(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("image data is empty")
	}

	mtype := mimetype.Detect(data)
	switch mtype.String() {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
	default:
		return fmt.Errorf("unsupported image type %s", mtype.String())
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("not a decodable image")
	}
	if cfg.Width > maxAvatarDimension || cfg.Height > maxAvatarDimension {
		return fmt.Errorf("image dimensions exceed %dpx", maxAvatarDimension)
	}
	return nil
}
