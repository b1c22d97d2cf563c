// Package pending tracks in-flight wallet requests by correlation id.
package pending

import (
	"sync"

	apperrors "github.com/better-wallet/trustlink/pkg/errors"
)

// FulfillFunc receives the result of a successful request
type FulfillFunc func(result string)

// RejectFunc receives the error of a failed request
type RejectFunc func(err *apperrors.AppError)

type entry struct {
	fulfill FulfillFunc
	reject  RejectFunc
}

// Table maps correlation ids to their completion callbacks.
// Every entry is settled or dropped at most once.
type Table struct {
	mu      sync.Mutex
	entries map[string]entry
}

// New creates an empty table
func New() *Table {
	return &Table{
		entries: make(map[string]entry),
	}
}

// Register adds an entry. A duplicate id is a programming fault and returns ErrDuplicateID.
func (t *Table) Register(id string, fulfill FulfillFunc, reject RejectFunc) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.entries[id]; exists {
		return apperrors.DuplicateID(id)
	}
	t.entries[id] = entry{fulfill: fulfill, reject: reject}
	return nil
}

// Resolve removes the entry and invokes its fulfill callback.
// It returns false without doing anything if id is not pending.
func (t *Table) Resolve(id, result string) bool {
	e, ok := t.take(id)
	if !ok {
		return false
	}
	if e.fulfill != nil {
		e.fulfill(result)
	}
	return true
}

// Reject removes the entry and invokes its reject callback.
// It returns false without doing anything if id is not pending.
func (t *Table) Reject(id string, err *apperrors.AppError) bool {
	e, ok := t.take(id)
	if !ok {
		return false
	}
	if e.reject != nil {
		e.reject(err)
	}
	return true
}

// Remove drops an entry without settling it
func (t *Table) Remove(id string) bool {
	_, ok := t.take(id)
	return ok
}

// Clear drops every entry without invoking any callback and returns how many were dropped
func (t *Table) Clear() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(t.entries)
	t.entries = make(map[string]entry)
	return n
}

// Len returns the number of pending entries
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Has reports whether id is pending
func (t *Table) Has(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.entries[id]
	return ok
}

// take removes the entry under the lock; callbacks run after it is released
func (t *Table) take(id string) (entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if ok {
		delete(t.entries, id)
	}
	return e, ok
}
