package registry

import (
	"reflect"
	"sort"
	"sync"

	"github.com/pulse-state/pulse-go/pkg/observable"
)

// entryKey identifies one stored observable.
// Keying by concrete type makes a type-mismatched GetOrCreate create a
// distinct entry instead of failing; see the package documentation.
type entryKey struct {
	name string
	typ  reflect.Type
}

// Registry is a concurrent map from string keys to observables.
// The zero value is not usable; call New.
type Registry struct {
	mu      sync.RWMutex
	entries map[entryKey]any
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[entryKey]any),
	}
}

// GetOrCreate returns the observable stored under key with value type T,
// creating and storing a new one seeded with def if none exists. The lookup
// matches the exact type T: a key already holding a different type silently
// gets a second, independent entry for T. Safe under concurrent calls for
// identical and disjoint keys.
func GetOrCreate[T any](r *Registry, key string, def T) *observable.Observable[T] {
	ek := entryKey{name: key, typ: reflect.TypeOf((*T)(nil)).Elem()}

	r.mu.RLock()
	stored, exists := r.entries[ek]
	r.mu.RUnlock()
	if exists {
		return stored.(*observable.Observable[T])
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, exists := r.entries[ek]; exists {
		return stored.(*observable.Observable[T])
	}
	obs := observable.New(def)
	r.entries[ek] = obs
	return obs
}

// Lookup returns the observable stored under key with value type T, or false
// if none exists. It never creates an entry.
func Lookup[T any](r *Registry, key string) (*observable.Observable[T], bool) {
	ek := entryKey{name: key, typ: reflect.TypeOf((*T)(nil)).Elem()}

	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, exists := r.entries[ek]
	if !exists {
		return nil, false
	}
	return stored.(*observable.Observable[T]), true
}

// Remove drops every typed entry stored under key. Handles already held by
// callers remain usable; a later GetOrCreate constructs a fresh observable.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for ek := range r.entries {
		if ek.name == key {
			delete(r.entries, ek)
		}
	}
}

// RemoveAll drops every entry.
func (r *Registry) RemoveAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[entryKey]any)
}

// Keys returns the distinct names present in the registry, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for ek := range r.entries {
		seen[ek.name] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for name := range seen {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored entries. Entries for the same name with
// different types count separately.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Convenience constructors for common value types.

// Bool returns the bool observable stored under key, creating it with def.
func Bool(r *Registry, key string, def bool) *observable.Observable[bool] {
	return GetOrCreate(r, key, def)
}

// Int returns the int64 observable stored under key, creating it with def.
func Int(r *Registry, key string, def int64) *observable.Observable[int64] {
	return GetOrCreate(r, key, def)
}

// Float returns the float64 observable stored under key, creating it with def.
func Float(r *Registry, key string, def float64) *observable.Observable[float64] {
	return GetOrCreate(r, key, def)
}

// String returns the string observable stored under key, creating it with def.
func String(r *Registry, key string, def string) *observable.Observable[string] {
	return GetOrCreate(r, key, def)
}
