package usecase

import (
	"time"

	domain "github.com/jhjdev/bartender-order-service-sub000/internal/entity"
)

// allowedTransitions holds the order state machine. Self-transitions are
// accepted as idempotent no-ops before this table is consulted.
var allowedTransitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.StatusPending:    {domain.StatusInProgress, domain.StatusCancelled},
	domain.StatusInProgress: {domain.StatusCompleted, domain.StatusCancelled},
}

// ValidateStatusTransition enforces the state machine:
//
//	pending -> in_progress | cancelled
//	in_progress -> completed | cancelled
//	any -> itself (no-op)
//
// Terminal states (completed, cancelled) admit nothing but the no-op.
func ValidateStatusTransition(current, requested domain.OrderStatus) error {
	if current == requested {
		return nil
	}
	for _, next := range allowedTransitions[current] {
		if next == requested {
			return nil
		}
	}
	return &InvalidTransitionError{From: current, To: requested}
}

// CompletionTimestamp returns the completedAt value to stamp for a transition
// into next: the wall time on first entry into completed, nil otherwise. An
// existing marker is historical and never replaced or cleared.
func CompletionTimestamp(existing *time.Time, next domain.OrderStatus, now time.Time) *time.Time {
	if next == domain.StatusCompleted && existing == nil {
		t := now.UTC()
		return &t
	}
	return nil
}
