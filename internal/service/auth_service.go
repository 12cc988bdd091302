package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"readinggame/internal/identity"
	"readinggame/internal/logger"
	"readinggame/internal/models"
	"readinggame/internal/repository"
)

const (
	// ResetTokenTTL is how long a password reset link stays valid
	ResetTokenTTL = time.Hour

	signInAttempts = 5
	signInWindow   = 15 * time.Minute
	resetAttempts  = 3
	resetWindow    = time.Hour
)

// AuthService is the self-hosted identity gateway: bcrypt hashes, server-side
// sessions and JWT access tokens
type AuthService struct {
	userRepo        *repository.UserRepository
	tokens          *identity.TokenIssuer
	mailer          Mailer
	sessionDuration time.Duration
	signInLimiter   *identity.Limiter
	resetLimiter    *identity.Limiter
	log             *logger.Logger
}

var _ identity.Gateway = (*AuthService)(nil)

// NewAuthService creates a new auth service. A nil mailer disables reset emails.
func NewAuthService(userRepo *repository.UserRepository, jwtSecret []byte, sessionDuration time.Duration, mailer Mailer, log *logger.Logger) *AuthService {
	if log == nil {
		log = logger.NewNop()
	}
	if mailer == nil {
		mailer = &EmailService{log: log}
	}
	return &AuthService{
		userRepo:        userRepo,
		tokens:          identity.NewTokenIssuer(jwtSecret),
		mailer:          mailer,
		sessionDuration: sessionDuration,
		signInLimiter:   identity.NewLimiter(signInAttempts, signInWindow),
		resetLimiter:    identity.NewLimiter(resetAttempts, resetWindow),
		log:             log.With("component", "auth"),
	}
}

// SignUp creates an account and signs it in
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*identity.AuthSession, error) {
	if err := identity.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := identity.ValidatePassword(password); err != nil {
		return nil, err
	}
	email = identity.NormalizeEmail(email)

	existingUser, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, identity.ErrEmailTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, email, string(passwordHash))
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered", "user_id", user.ID)
	return s.startSession(ctx, user)
}

// SignIn checks the password and opens a new session. Each address gets a few
// attempts per window; a successful sign-in clears its count.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*identity.AuthSession, error) {
	email = identity.NormalizeEmail(email)
	if !s.signInLimiter.Allow(email) {
		s.log.Warn("Sign-in rate limited", "email", email)
		return nil, identity.ErrRateLimited
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, identity.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, identity.ErrInvalidCredentials
	}
	s.signInLimiter.Reset(email)
	return s.startSession(ctx, user)
}

func (s *AuthService) startSession(ctx context.Context, user *models.User) (*identity.AuthSession, error) {
	expiresAt := time.Now().Add(s.sessionDuration).UTC()
	session, err := s.userRepo.CreateSession(ctx, uuid.NewString(), user.ID, expiresAt)
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.Issue(user.ID, session.ID, session.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &identity.AuthSession{AccessToken: token, ExpiresAt: session.ExpiresAt, User: *user}, nil
}

// SignOut revokes the session behind token. Unknown or expired tokens are ignored.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, identity.ErrExpiredToken) || errors.Is(err, identity.ErrInvalidToken) {
			return nil
		}
		return err
	}
	if err := s.userRepo.DeleteSession(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// resolve maps a token to its live session and user, or returns a sentinel error
func (s *AuthService) resolve(ctx context.Context, token string) (*models.Session, *models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, identity.ErrExpiredToken) {
			return nil, nil, identity.ErrSessionExpired
		}
		return nil, nil, identity.ErrSessionNotFound
	}

	session, err := s.userRepo.GetSession(ctx, claims.SessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil || session.UserID != claims.UserID {
		return nil, nil, identity.ErrSessionNotFound
	}
	if session.ExpiredAt(time.Now()) {
		_ = s.userRepo.DeleteSession(ctx, session.ID)
		return nil, nil, identity.ErrSessionExpired
	}

	user, err := s.userRepo.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, identity.ErrSessionNotFound
	}
	return session, user, nil
}

func isNoSession(err error) bool {
	return errors.Is(err, identity.ErrSessionNotFound) || errors.Is(err, identity.ErrSessionExpired)
}

// GetSession returns nil when the token has no live session
func (s *AuthService) GetSession(ctx context.Context, token string) (*identity.AuthSession, error) {
	session, user, err := s.resolve(ctx, token)
	if isNoSession(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &identity.AuthSession{AccessToken: token, ExpiresAt: session.ExpiresAt, User: *user}, nil
}

// GetUser returns nil when the token has no live session
func (s *AuthService) GetUser(ctx context.Context, token string) (*models.User, error) {
	_, user, err := s.resolve(ctx, token)
	if isNoSession(err) {
		return nil, nil
	}
	return user, err
}

// Authenticate returns ctx carrying the token's user id for the remote store
func (s *AuthService) Authenticate(ctx context.Context, token string) (context.Context, error) {
	_, user, err := s.resolve(ctx, token)
	if isNoSession(err) {
		return ctx, fmt.Errorf("%w: %v", identity.ErrNotAuthenticated, err)
	}
	if err != nil {
		return ctx, err
	}
	return identity.WithUserID(ctx, user.ID), nil
}

// ResetPassword mails a reset link. It succeeds for unknown addresses so callers
// cannot probe which emails have accounts.
func (s *AuthService) ResetPassword(ctx context.Context, email string) error {
	email = identity.NormalizeEmail(email)
	if !s.resetLimiter.Allow(email) {
		return identity.ErrRateLimited
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil
	}

	token, err := generateSecureToken(32)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.userRepo.CreatePasswordResetToken(ctx, token, user.ID, time.Now().Add(ResetTokenTTL)); err != nil {
		return err
	}

	if s.mailer.IsEnabled() {
		if err := s.mailer.SendPasswordResetEmail(ctx, user.Email, token); err != nil {
			return fmt.Errorf("failed to send reset email: %w", err)
		}
	}
	return nil
}

// ConfirmPasswordReset sets a new password with a token from ResetPassword and
// ends every session of the user
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	resetToken, err := s.userRepo.GetPasswordResetToken(ctx, token)
	if err != nil {
		return err
	}
	if !resetToken.RedeemableAt(time.Now()) {
		return identity.ErrInvalidResetToken
	}
	if err := identity.ValidatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.CompletePasswordReset(ctx, token, resetToken.UserID, string(passwordHash)); err != nil {
		return err
	}
	s.log.Info("Password reset completed", "user_id", resetToken.UserID)
	return nil
}

// CleanupExpiredSessions removes expired sessions from the database
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.userRepo.DeleteExpiredSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return n, nil
}

// generateSecureToken generates a cryptographically secure random token
func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
