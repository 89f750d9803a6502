package identity_test

import (
	"errors"
	"testing"

	"karigari/internal/apierr"
	"karigari/internal/identity"
	"karigari/internal/testsupport"
)

func newStore(t *testing.T) *identity.Store {
	t.Helper()
	return testsupport.MustOpenIdentity(t, testsupport.NewConfig(t))
}

func TestCurrentWithoutSession(t *testing.T) {
	store := newStore(t)
	if _, err := store.Current(); !errors.Is(err, identity.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestSaveAndCurrentRoundTrip(t *testing.T) {
	store := newStore(t)
	session := identity.Session{UserID: "u1", Email: "maya@example.com"}
	if err := store.Save(session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := store.Current()
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if loaded != session {
		t.Fatalf("unexpected session: %#v", loaded)
	}
}

func TestSaveRejectsEmptyUserID(t *testing.T) {
	store := newStore(t)
	if err := store.Save(identity.Session{Email: "maya@example.com"}); err == nil {
		t.Fatal("expected save rejection without user id")
	}
}

func TestClearRemovesSession(t *testing.T) {
	store := newStore(t)
	if err := store.Save(identity.Session{UserID: "u1"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := store.Current(); !errors.Is(err, identity.ErrNoSession) {
		t.Fatalf("expected ErrNoSession after clear, got %v", err)
	}
	// Clearing again is a no-op.
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear failed: %v", err)
	}
}

func TestRequireReturnsSavedSession(t *testing.T) {
	store := newStore(t)
	saved := testsupport.SignIn(t, store, "u7", "mira@example.com")

	session, apiErr := store.Require()
	if apiErr != nil {
		t.Fatalf("Require failed: %v", apiErr)
	}
	if session != saved {
		t.Fatalf("unexpected session: %#v", session)
	}
}

func TestRequireClassifiesMissingSession(t *testing.T) {
	store := newStore(t)
	_, apiErr := store.Require()
	if apiErr == nil {
		t.Fatal("expected unauthenticated error")
	}
	if apiErr.Kind != apierr.KindUnauthenticated {
		t.Fatalf("expected unauthenticated kind, got %s", apiErr.Kind)
	}
	if apiErr.Message != "Please login first." {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}
