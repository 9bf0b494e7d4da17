// Package auth carries the signed-in user through the request context. The
// session is injected by middleware and read explicitly by handlers; nothing
// reads ambient storage.
package auth

import (
	"context"
	"net/http"

	"projection/models"
)

// ContextKey is the type used for context keys
type ContextKey string

const (
	// ContextKeyUser is the key for the session user in the context
	ContextKeyUser ContextKey = "sessionUser"
	// ContextKeySession is the key for the full session in the context
	ContextKeySession ContextKey = "session"
)

// WithSession returns a context carrying the session and its user.
func WithSession(ctx context.Context, session models.Session) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUser, session.User)
	return context.WithValue(ctx, ContextKeySession, session)
}

// SessionUserFrom retrieves the signed-in user from the request context.
// ok is false for anonymous requests.
func SessionUserFrom(r *http.Request) (models.SessionUser, bool) {
	user, ok := r.Context().Value(ContextKeyUser).(models.SessionUser)
	return user, ok
}

// SessionFrom retrieves the full session from the request context.
func SessionFrom(r *http.Request) (models.Session, bool) {
	session, ok := r.Context().Value(ContextKeySession).(models.Session)
	return session, ok
}
