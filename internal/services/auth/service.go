package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/edsafest/trivia-service/internal/dependencies/clock"
	"github.com/edsafest/trivia-service/internal/model"
	"github.com/edsafest/trivia-service/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

// Session represents an authenticated session
type Session struct {
	Token     string
	UserID    model.UserID
	User      model.User
	CreatedAt time.Time
	ExpiresAt time.Time

	// MustChangePassword is set when the account still uses the
	// admin-assigned default password
	MustChangePassword bool
}

// Service handles login and session management.
// Sessions are held in memory; a restart logs everyone out, which is
// acceptable for a single-day event.
type Service struct {
	storage storage.Storage
	clock   clock.Clock

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
	defaultPassword string
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
	// DefaultPassword is assigned on user creation and admin resets
	DefaultPassword string
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		DefaultPassword: "EDSA2025",
	}
}

// New creates a new auth service
func New(storage storage.Storage, clock clock.Clock, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	if cfg.DefaultPassword == "" {
		cfg.DefaultPassword = DefaultConfig().DefaultPassword
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
		defaultPassword: cfg.DefaultPassword,
	}
}

// DefaultPassword returns the configured default password
func (s *Service) DefaultPassword() string {
	return s.defaultPassword
}

// HashPassword returns the bcrypt hash for a password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login authenticates a user by legajo and password and creates a session.
// A successful login stamps the user's last-login time.
func (s *Service) Login(ctx context.Context, legajo, password string) (*Session, error) {
	user, err := s.storage.GetUserByLegajo(ctx, legajo)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.storage.SetLastLogin(ctx, user.ID); err != nil {
		return nil, err
	}

	return s.createSession(user), nil
}

// ChangePassword sets a new password for the user and clears the
// default-password flag. Existing sessions stay valid.
func (s *Service) ChangePassword(ctx context.Context, userID model.UserID, newPassword string) error {
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.storage.SetPassword(ctx, userID, hash, false); err != nil {
		return err
	}

	s.mu.Lock()
	for _, session := range s.sessions {
		if session.UserID == userID {
			session.MustChangePassword = false
		}
	}
	s.mu.Unlock()
	return nil
}

// ResetPassword restores a user's password to the configured default
// (admin operation)
func (s *Service) ResetPassword(ctx context.Context, userID model.UserID) error {
	hash, err := HashPassword(s.defaultPassword)
	if err != nil {
		return err
	}
	if err := s.storage.SetPassword(ctx, userID, hash, true); err != nil {
		return err
	}

	s.mu.Lock()
	for _, session := range s.sessions {
		if session.UserID == userID {
			session.MustChangePassword = true
		}
	}
	s.mu.Unlock()
	return nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}

// createSession creates a new session for a user
func (s *Service) createSession(user *model.User) *Session {
	token := generateToken("sess_")
	now := s.clock.Now()

	session := &Session{
		Token:              token,
		UserID:             user.ID,
		User:               *user,
		CreatedAt:          now,
		ExpiresAt:          now.Add(s.sessionDuration),
		MustChangePassword: user.PasswordIsDefault && user.Role == model.RoleUser,
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	return session
}

// generateToken generates a random token with a prefix
func generateToken(prefix string) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}
