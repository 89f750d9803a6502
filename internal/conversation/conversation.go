// Package conversation maintains the append-only transcript of a chat
// exchange between the user and the assistant.
//
// Turns are recorded in insertion order and are never mutated or reordered
// after the fact. A pending request's "typing" indicator is presentation
// state and never enters the log.
package conversation

import (
	"strings"
	"sync"
)

// Speaker identifies who produced a turn.
type Speaker string

const (
	// SpeakerUser marks turns typed by the user.
	SpeakerUser Speaker = "user"
	// SpeakerAssistant marks turns produced by the backend assistant.
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one utterance in a conversation.
type Turn struct {
	Speaker Speaker
	Text    string
}

// Log accumulates turns in insertion order. It is safe for a single writer
// with concurrent readers.
type Log struct {
	mu    sync.RWMutex
	turns []Turn
}

// NewLog returns an empty conversation log.
func NewLog() *Log {
	return &Log{}
}

// Append records a turn at the end of the transcript. Turns with no text are
// ignored.
func (l *Log) Append(turn Turn) {
	if strings.TrimSpace(turn.Text) == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, turn)
}

// Turns returns a copy of the transcript in insertion order.
func (l *Log) Turns() []Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len reports the number of recorded turns.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.turns)
}

// Reset clears the transcript. Used on logout and when leaving the chat view.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = nil
}
