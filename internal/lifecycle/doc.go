// Package lifecycle tracks the state of asynchronous backend operations.
//
// Each logical operation (chat-send, story-generate, caption-generate, and so
// on) runs under a named Slot that moves through idle → pending → success or
// error. The slot itself enforces the at-most-one-in-flight guarantee: a
// Start call while the slot is pending is a no-op, so duplicate side effects
// cannot occur even if the caller re-triggers rapidly. Every invocation is
// tagged; a terminal result from a superseded invocation is discarded rather
// than overwriting newer state.
//
// All operation failures are normalized through apierr at this boundary —
// nothing escapes a slot unclassified.
package lifecycle
