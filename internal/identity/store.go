package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"karigari/internal/apierr"
)

// ErrNoSession indicates no user is currently logged in.
var ErrNoSession = errors.New("identity: no session")

// Session identifies a logged-in user. The values are opaque to the client;
// only presence matters for request gating.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Valid reports whether the session identifies a user.
func (s Session) Valid() bool {
	return strings.TrimSpace(s.UserID) != ""
}

// Store reads and writes the persisted session file. Concurrent CLI
// invocations may share the file, so mutations take a cross-process lock.
type Store struct {
	path string
	lock *flock.Flock
}

// Open prepares a store backed by the session file at path.
func Open(path string) (*Store, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("identity: session path required")
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("identity: ensure state directory: %w", err)
	}
	return &Store{
		path: trimmed,
		lock: flock.New(trimmed + ".lock"),
	}, nil
}

// Current returns the persisted session, or ErrNoSession when nobody is
// logged in.
func (s *Store) Current() (Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("identity: read session: %w", err)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, fmt.Errorf("identity: parse session: %w", err)
	}
	if !session.Valid() {
		return Session{}, ErrNoSession
	}
	return session, nil
}

// Require returns the persisted session or an unauthenticated error suitable
// for direct surfacing. It is the gate every user-scoped operation runs
// through before touching the network.
func (s *Store) Require() (Session, *apierr.Error) {
	session, err := s.Current()
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return Session{}, apierr.New(apierr.KindUnauthenticated, "Please login first.")
		}
		return Session{}, apierr.New(apierr.KindUnknown, err.Error())
	}
	return session, nil
}

// Save persists the session, replacing any previous one.
func (s *Store) Save(session Session) error {
	if !session.Valid() {
		return errors.New("identity: refusing to save session without user id")
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("identity: acquire lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("identity: encode session: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("identity: write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("identity: replace session: %w", err)
	}
	return nil
}

// Clear removes the persisted session. Clearing an absent session is not an
// error.
func (s *Store) Clear() error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("identity: acquire lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("identity: clear session: %w", err)
	}
	return nil
}
