package main

import (
	"net/http"
	"testing"
)

func TestChatRoundTrip(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chats/42", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("message"); got != "How do I price my pottery?" {
			t.Errorf("message = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"reply":"Start from your material and labor costs."}`))
	})
	env := setupCLITestEnv(t, mux)
	signIn(t, env, "42", "mira@example.com")

	out, _, err := runCLI(t, env, "chat", "How do I price my pottery?")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	requireContains(t, out, "You: How do I price my pottery?")
	requireContains(t, out, "Assistant: Start from your material and labor costs.")
}

func TestChatRequiresLogin(t *testing.T) {
	requests := 0
	env := setupCLITestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	_, _, err := runCLI(t, env, "chat", "hello")
	if err == nil {
		t.Fatal("expected unauthenticated error")
	}
	requireContains(t, err.Error(), "Please login first.")
	if requests != 0 {
		t.Fatalf("expected no backend requests without a session, saw %d", requests)
	}
}

func TestChatRequiresMessage(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	signIn(t, env, "42", "mira@example.com")

	_, _, err := runCLI(t, env, "chat", "   ")
	if err == nil {
		t.Fatal("expected validation error")
	}
	requireContains(t, err.Error(), "Please enter a message.")
}

func TestChatArchivesTurns(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chats/42", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"reply":"Try a wood-fired glaze."}`))
	})
	env := setupCLITestEnv(t, mux)
	signIn(t, env, "42", "mira@example.com")

	if _, _, err := runCLI(t, env, "chat", "Glaze ideas?"); err != nil {
		t.Fatalf("chat: %v", err)
	}

	out, _, err := runCLI(t, env, "history", "chat")
	if err != nil {
		t.Fatalf("history chat: %v", err)
	}
	requireContains(t, out, "You: Glaze ideas?")
	requireContains(t, out, "Assistant: Try a wood-fired glaze.")
}
