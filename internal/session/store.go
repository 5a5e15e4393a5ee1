package session

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/route-booking/internal/models"
)

// Storage keys
const (
	CurrentUserKey   = "currentUser"
	AdminPasswordKey = "adminPassword"
	AdminTokenKey    = "adminToken"
)

// Store owns the identity of the current user. Load, Save and Clear are the
// only methods that touch storage; everything else reads memory.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	logger  logrus.FieldLogger
	user    *models.User
}

// NewStore creates a user session store over storage
func NewStore(storage Storage, logger logrus.FieldLogger) *Store {
	return &Store{storage: storage, logger: orDiscard(logger)}
}

// Load restores the persisted user. Malformed or unreadable entries are
// discarded and Load reports no user; it never fails.
func (s *Store) Load() (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil

	raw, ok, err := s.storage.Get(CurrentUserKey)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read stored session, starting logged out")
		if rmErr := s.storage.Remove(CurrentUserKey); rmErr != nil {
			s.logger.WithError(rmErr).Warn("Failed to remove unreadable session")
		}
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || !user.Valid() {
		s.logger.WithField("key", CurrentUserKey).Warn("Discarding malformed stored session")
		if rmErr := s.storage.Remove(CurrentUserKey); rmErr != nil {
			s.logger.WithError(rmErr).Warn("Failed to remove malformed session")
		}
		return nil, false
	}

	s.user = &user
	return copyUser(s.user), true
}

// Save persists user as the current identity, replacing any previous one
func (s *Store) Save(user models.User) error {
	if !user.Valid() {
		return fmt.Errorf("user requires id, name and email")
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Set(CurrentUserKey, string(data)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.user = &user
	return nil
}

// Clear logs the user out. Calling it when already logged out is harmless.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	if err := s.storage.Remove(CurrentUserKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Current returns a copy of the in-memory user, or nil when logged out
func (s *Store) Current() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyUser(s.user)
}

// IsAuthenticated reports whether a user is logged in
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// AdminSession holds the admin secret and bearer token for the current run.
// It is meant to sit on session-scoped storage.
type AdminSession struct {
	mu      sync.Mutex
	storage Storage
}

// NewAdminSession creates an admin session over storage
func NewAdminSession(storage Storage) *AdminSession {
	return &AdminSession{storage: storage}
}

// SaveAdmin records the admin credentials. An empty token removes any
// previously stored token.
func (a *AdminSession) SaveAdmin(password, token string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.storage.Set(AdminPasswordKey, password); err != nil {
		return fmt.Errorf("failed to save admin session: %w", err)
	}
	if token == "" {
		return a.storage.Remove(AdminTokenKey)
	}
	if err := a.storage.Set(AdminTokenKey, token); err != nil {
		return fmt.Errorf("failed to save admin session: %w", err)
	}
	return nil
}

// AdminPassword returns the stored admin secret
func (a *AdminSession) AdminPassword() (string, bool) {
	return a.get(AdminPasswordKey)
}

// AdminToken returns the stored bearer token
func (a *AdminSession) AdminToken() (string, bool) {
	return a.get(AdminTokenKey)
}

// IsAdmin reports whether admin credentials are present
func (a *AdminSession) IsAdmin() bool {
	_, ok := a.AdminPassword()
	return ok
}

// ClearAdmin drops the admin credentials
func (a *AdminSession) ClearAdmin() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.storage.Remove(AdminPasswordKey); err != nil {
		return fmt.Errorf("failed to clear admin session: %w", err)
	}
	return a.storage.Remove(AdminTokenKey)
}

func (a *AdminSession) get(key string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	v, ok, err := a.storage.Get(key)
	if err != nil || !ok || v == "" {
		return "", false
	}
	return v, true
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func orDiscard(logger logrus.FieldLogger) logrus.FieldLogger {
	if logger != nil {
		return logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
