package lifecycle

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"karigari/internal/apierr"
	"karigari/internal/logging"
)

// Phase is the observable state of a slot.
type Phase string

const (
	// PhaseIdle means no invocation has run yet, or the slot was reset.
	PhaseIdle Phase = "idle"
	// PhasePending means an invocation is in flight.
	PhasePending Phase = "pending"
	// PhaseSuccess means the latest invocation produced a value.
	PhaseSuccess Phase = "success"
	// PhaseError means the latest invocation failed.
	PhaseError Phase = "error"
)

// Snapshot is a point-in-time view of a slot's state.
type Snapshot[T any] struct {
	Phase      Phase
	Value      T
	Err        *apierr.Error
	Invocation string
}

// Operation performs the slot's outbound call. It must honour the context.
type Operation[T any] func(ctx context.Context) (T, error)

// Slot tracks one logical operation's request lifecycle. Slots are
// independent; no ordering holds across different slots.
type Slot[T any] struct {
	name   string
	logger *slog.Logger

	mu         sync.Mutex
	phase      Phase
	value      T
	err        *apierr.Error
	invocation string
	done       chan struct{}
}

// NewSlot constructs an idle slot. A nil logger disables transition logging.
func NewSlot[T any](name string, logger *slog.Logger) *Slot[T] {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Slot[T]{
		name:   name,
		logger: logger.With(logging.FieldComponent, "lifecycle", logging.FieldSlot, name),
		phase:  PhaseIdle,
	}
}

// Name returns the slot's logical operation name.
func (s *Slot[T]) Name() string { return s.name }

// Start begins a new invocation unless one is already pending, in which case
// it reports false and performs no work: no state change, no call to op. The
// transition to pending happens synchronously, before op runs, so callers can
// disable their triggering control immediately.
func (s *Slot[T]) Start(ctx context.Context, op Operation[T]) bool {
	s.mu.Lock()
	if s.phase == PhasePending {
		s.mu.Unlock()
		s.logger.Debug("start rejected while pending", logging.FieldCorrelationID, s.invocation)
		return false
	}
	s.beginLocked(ctx, op)
	s.mu.Unlock()
	return true
}

// Supersede begins a new invocation unconditionally. A still-pending previous
// invocation is abandoned: it keeps running until its operation settles, but
// its terminal result is discarded. Only the most recent invocation's outcome
// ever becomes observable, regardless of completion order.
func (s *Slot[T]) Supersede(ctx context.Context, op Operation[T]) {
	s.mu.Lock()
	s.beginLocked(ctx, op)
	s.mu.Unlock()
}

// beginLocked transitions to pending under the held lock and launches op.
func (s *Slot[T]) beginLocked(ctx context.Context, op Operation[T]) {
	invocation := uuid.NewString()
	s.phase = PhasePending
	s.invocation = invocation
	s.err = nil
	var zero T
	s.value = zero
	done := make(chan struct{})
	s.done = done
	s.logger.Debug("invocation started", logging.FieldCorrelationID, invocation)

	go func() {
		value, err := op(ctx)
		s.settle(invocation, done, value, err)
	}()
}

// settle applies the terminal transition for one invocation. Exactly one
// terminal transition happens per invocation; results from superseded
// invocations are dropped.
func (s *Slot[T]) settle(invocation string, done chan struct{}, value T, err error) {
	defer close(done)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.invocation != invocation {
		s.logger.Debug("discarding superseded result", logging.FieldCorrelationID, invocation)
		return
	}
	if err != nil {
		s.phase = PhaseError
		s.err = apierr.Normalize(err)
		var zero T
		s.value = zero
		s.logger.Debug("invocation failed",
			logging.FieldCorrelationID, invocation,
			"kind", string(s.err.Kind),
			"message", s.err.Message,
		)
		return
	}
	s.phase = PhaseSuccess
	s.value = value
	s.logger.Debug("invocation succeeded", logging.FieldCorrelationID, invocation)
}

// Snapshot returns the slot's current state.
func (s *Slot[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot[T]{
		Phase:      s.phase,
		Value:      s.value,
		Err:        s.err,
		Invocation: s.invocation,
	}
}

// Await blocks until the invocation that is current at call time reaches its
// terminal state, then returns the slot snapshot. It returns immediately when
// nothing is pending. Context cancellation unblocks the wait but does not
// cancel the operation itself; the operation observes its own context.
func (s *Slot[T]) Await(ctx context.Context) (Snapshot[T], error) {
	s.mu.Lock()
	done := s.done
	pending := s.phase == PhasePending
	s.mu.Unlock()

	if pending && done != nil {
		select {
		case <-ctx.Done():
			return Snapshot[T]{}, ctx.Err()
		case <-done:
		}
	}
	return s.Snapshot(), nil
}

// Reset returns the slot to idle, discarding any terminal state. A pending
// invocation becomes superseded: its result will be dropped on arrival.
func (s *Slot[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseIdle
	s.invocation = ""
	s.err = nil
	var zero T
	s.value = zero
	s.done = nil
}
