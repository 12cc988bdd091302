package models

import "time"

// User is an account that owns remote game content
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Session backs an access token. Deleting it signs the token out even before the
// JWT itself expires.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s *Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// PasswordResetToken is single use
type PasswordResetToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
	Used      bool
}

// RedeemableAt reports whether the token can still set a new password at now
func (t *PasswordResetToken) RedeemableAt(now time.Time) bool {
	return t != nil && !t.Used && now.Before(t.ExpiresAt)
}
