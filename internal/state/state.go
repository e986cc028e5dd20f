// Package state holds reactive in-memory values shared across the client.
package state

import "sync"

// Var is a single mutable cell readable by any number of consumers.
// Reads never block on other reads and always see the latest Set.
type Var[T any] struct {
	mu    sync.RWMutex
	value T
}

// NewVar creates a Var holding initial.
func NewVar[T any](initial T) *Var[T] {
	return &Var[T]{value: initial}
}

// Get returns the current value.
func (v *Var[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set overwrites the current value.
func (v *Var[T]) Set(value T) {
	v.mu.Lock()
	v.value = value
	v.mu.Unlock()
}

// Credential reports whether a credential is currently stored.
// credential.Accessor satisfies it.
type Credential interface {
	Present() bool
}

// NewLoginFlag creates the logged-in flag, initialised from credential presence.
func NewLoginFlag(cred Credential) *Var[bool] {
	return NewVar(cred.Present())
}
