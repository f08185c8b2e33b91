package usecase

import (
	"errors"
	"fmt"
	"strings"

	domain "github.com/jhjdev/bartender-order-service-sub000/internal/entity"
)

// ErrNotFound is the sentinel stores return when no document matches. The
// service wraps it into a NotFoundError carrying the resource and id.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned by conditional store writes when the document moved
// between the caller's read and the write. Callers re-read and re-validate.
var ErrConflict = errors.New("concurrent modification")

// ValidationError covers malformed or incomplete input, including unknown
// drink ids referenced by order items. Maps to 400.
type ValidationError struct {
	Message       string
	MissingDrinks []string
}

func (e *ValidationError) Error() string {
	if len(e.MissingDrinks) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.MissingDrinks, ", "))
	}
	return e.Message
}

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError covers a missing order (or other resource). Maps to 404.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InvalidTransitionError covers a status change that violates the order state
// machine. Maps to 409; the request was well-formed but arrived too late.
type InvalidTransitionError struct {
	From domain.OrderStatus
	To   domain.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// StoreError wraps a persistence failure. Maps to 500.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// UpstreamError wraps a failed or timed-out catalog call. Maps to 500.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("upstream: %s: %v", e.Op, e.Err) }
func (e *UpstreamError) Unwrap() error { return e.Err }
