// Package identity defines the account gateway used by the game and the request
// context that carries the signed-in user to the remote store.
package identity

import (
	"context"
	"errors"
	"time"

	"readinggame/internal/models"
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrForbidden          = errors.New("not allowed for this account")
)

// AuthSession is what a successful sign-in hands back to the caller
type AuthSession struct {
	AccessToken string      `json:"accessToken"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	User        models.User `json:"user"`
}

// Gateway is the account contract. GetSession and GetUser return nil, nil when the
// token does not resolve to a live session.
type Gateway interface {
	SignUp(ctx context.Context, email, password string) (*AuthSession, error)
	SignIn(ctx context.Context, email, password string) (*AuthSession, error)
	SignOut(ctx context.Context, token string) error
	GetSession(ctx context.Context, token string) (*AuthSession, error)
	GetUser(ctx context.Context, token string) (*models.User, error)
	ResetPassword(ctx context.Context, email string) error
}

type userIDKey struct{}

// WithUserID returns a context carrying the signed-in user's id
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the user id placed by WithUserID
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// RequireUserID is UserIDFromContext that fails with ErrNotAuthenticated
func RequireUserID(ctx context.Context) (string, error) {
	id, ok := UserIDFromContext(ctx)
	if !ok {
		return "", ErrNotAuthenticated
	}
	return id, nil
}
