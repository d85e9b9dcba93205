// Package controllers implements the per-screen coordination layer: each
// controller fetches its slice of backend state, validates user actions
// against the workflow guard, applies optimistic local patches, and keeps
// itself consistent with sibling screens through the event bus.
package controllers

import (
	"errors"
	"sync"

	"github.com/pminsight/client/internal/api"
)

// ErrForbidden is surfaced when the local guard (or the server) rejects an
// action. Screens render it as a toast; no state is mutated.
var ErrForbidden = errors.New("acción no permitida para su rol")

// genericFailure is shown when the server provided no message of its own.
const genericFailure = "ocurrió un error, intente nuevamente"

// UserMessage maps an action error to the text a screen shows. Server
// messages pass through verbatim; 403/409 render exactly like a local
// guard rejection.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrForbidden) {
		return ErrForbidden.Error()
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if apiErr.Forbidden() && apiErr.Message == "" {
			return ErrForbidden.Error()
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	if errors.Is(err, api.ErrSessionExpired) {
		return "su sesión ha expirado, inicie sesión nuevamente"
	}
	return genericFailure
}

// list holds a screen's fetched slice with the stale-response discard
// policy: only the most recently issued fetch may install results, so an
// overlapping older response can never overwrite fresher data.
type list[T any] struct {
	mu      sync.Mutex
	seq     uint64
	items   []T
	loading bool
}

// begin marks a new fetch and returns its ticket.
func (l *list[T]) begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.loading = true
	return l.seq
}

// install applies the result of fetch ticket if it is still the latest.
// Returns false when the response was superseded and discarded.
func (l *list[T]) install(ticket uint64, items []T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ticket != l.seq {
		return false
	}
	l.items = items
	l.loading = false
	return true
}

// fail clears the loading flag for the latest fetch without touching the
// current items.
func (l *list[T]) fail(ticket uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ticket == l.seq {
		l.loading = false
	}
}

// snapshot copies the current items.
func (l *list[T]) snapshot() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.items...)
}

// Loading reports whether a fetch is outstanding.
func (l *list[T]) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// patch applies fn to the first item matching pred, returning the previous
// value so a failed mutation can revert the optimistic change.
func (l *list[T]) patch(pred func(T) bool, fn func(T) T) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var zero T
	for i, item := range l.items {
		if pred(item) {
			l.items[i] = fn(item)
			return item, true
		}
	}
	return zero, false
}

// replace swaps the first item matching pred for value.
func (l *list[T]) replace(pred func(T) bool, value T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, item := range l.items {
		if pred(item) {
			l.items[i] = value
			return
		}
	}
}

// drop removes the first item matching pred.
func (l *list[T]) drop(pred func(T) bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, item := range l.items {
		if pred(item) {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return
		}
	}
}

// subscriptions collects bus unsubscribe functions for release on Close.
type subscriptions []func()

func (s *subscriptions) add(unsub func()) {
	*s = append(*s, unsub)
}

func (s *subscriptions) release() {
	for _, unsub := range *s {
		unsub()
	}
	*s = nil
}
