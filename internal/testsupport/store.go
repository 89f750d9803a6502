package testsupport

import (
	"testing"

	"karigari/internal/config"
	"karigari/internal/history"
	"karigari/internal/identity"
)

// MustOpenHistory opens a history.Store for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustOpenIdentity opens an identity.Store backed by the test config's
// session path.
func MustOpenIdentity(t testing.TB, cfg *config.Config) *identity.Store {
	t.Helper()

	store, err := identity.Open(cfg.SessionPath())
	if err != nil {
		t.Fatalf("identity.Open: %v", err)
	}
	return store
}

// SignIn stores a session for the given user so authenticated commands can
// run in tests.
func SignIn(t testing.TB, store *identity.Store, userID, email string) identity.Session {
	t.Helper()

	session := identity.Session{UserID: userID, Email: email}
	if err := store.Save(session); err != nil {
		t.Fatalf("identity.Save: %v", err)
	}
	return session
}
