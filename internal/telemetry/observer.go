package telemetry

import (
	"sync"

	"github.com/google/uuid"
)

// Observer receives every snapshot published after it was attached.
//
// Update runs on the reader goroutine while the registry holds its read lock,
// so it must not call Attach or Detach synchronously. Observers are compared
// by identity and must be comparable (typically pointers).
type Observer interface {
	Update(s *Snapshot)
}

// FuncObserver adapts a plain callback to the Observer interface. Each call to
// Func yields a distinct observer, so the same callback can be attached twice
// through two adapters, and detached through the adapter that attached it.
type FuncObserver struct {
	id string
	fn func(*Snapshot)
}

// Func wraps fn as an Observer.
func Func(fn func(*Snapshot)) *FuncObserver {
	return &FuncObserver{id: uuid.NewString(), fn: fn}
}

// Update calls the wrapped function.
func (f *FuncObserver) Update(s *Snapshot) {
	if f.fn != nil {
		f.fn(s)
	}
}

// ID returns the adapter's identifier, used in log lines.
func (f *FuncObserver) ID() string {
	return f.id
}

// Registry is a thread-safe set of observers.
//
// Notify holds the read lock for the whole delivery, so once Detach returns
// the detached observer receives nothing further, even if a publish was in
// flight when Detach was called.
type Registry struct {
	mu        sync.RWMutex
	observers map[Observer]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{observers: make(map[Observer]struct{})}
}

// Attach adds o. It returns false if o was nil or already attached.
func (r *Registry) Attach(o Observer) bool {
	if o == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.observers[o]; ok {
		return false
	}
	r.observers[o] = struct{}{}
	return true
}

// Detach removes o. It returns false if o was not attached.
func (r *Registry) Detach(o Observer) bool {
	if o == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.observers[o]; !ok {
		return false
	}
	delete(r.observers, o)
	return true
}

// Len returns the number of attached observers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.observers)
}

// Notify delivers s to every attached observer.
func (r *Registry) Notify(s *Snapshot) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for o := range r.observers {
		o.Update(s)
	}
}
