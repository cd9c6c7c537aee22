// Package registry provides insertion-ordered storage of container entries
// keyed by reflect.Type.
//
// A Registry is written only while a container is being built. Once the
// build completes it is treated as immutable and may be read from many
// goroutines without synchronization.
package registry

import (
	"fmt"
	"reflect"
)

// Registry maps a type to a value and remembers the order in which types
// were registered. Iteration always follows that order.
type Registry[V any] struct {
	entries map[reflect.Type]V
	order   []reflect.Type
}

// New creates an empty Registry.
func New[V any]() *Registry[V] {
	return &Registry[V]{
		entries: make(map[reflect.Type]V),
	}
}

// Register stores value under typ.
// Returns an error if typ is nil or already registered.
func (r *Registry[V]) Register(typ reflect.Type, value V) error {
	if typ == nil {
		return fmt.Errorf("registry: type cannot be nil")
	}

	if _, exists := r.entries[typ]; exists {
		return &AlreadyRegisteredError{Type: typ}
	}

	r.entries[typ] = value
	r.order = append(r.order, typ)
	return nil
}

// Get returns the value stored under typ.
func (r *Registry[V]) Get(typ reflect.Type) (V, bool) {
	value, exists := r.entries[typ]
	return value, exists
}

// Has reports whether typ is registered.
func (r *Registry[V]) Has(typ reflect.Type) bool {
	_, exists := r.entries[typ]
	return exists
}

// Len returns the number of registered types.
func (r *Registry[V]) Len() int {
	return len(r.order)
}

// Types returns the registered types in registration order.
func (r *Registry[V]) Types() []reflect.Type {
	types := make([]reflect.Type, len(r.order))
	copy(types, r.order)
	return types
}

// Values returns the registered values in registration order.
func (r *Registry[V]) Values() []V {
	values := make([]V, 0, len(r.order))
	for _, typ := range r.order {
		values = append(values, r.entries[typ])
	}
	return values
}

// Find returns the first value, in registration order, whose type satisfies
// match, along with every other type that also matched.
func (r *Registry[V]) Find(match func(reflect.Type) bool) (V, []reflect.Type, bool) {
	var (
		found   V
		matches []reflect.Type
	)

	for _, typ := range r.order {
		if !match(typ) {
			continue
		}
		if len(matches) == 0 {
			found = r.entries[typ]
		}
		matches = append(matches, typ)
	}

	return found, matches, len(matches) > 0
}

// AlreadyRegisteredError is returned when a type is registered twice.
type AlreadyRegisteredError struct {
	Type reflect.Type
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("type %v is already registered", e.Type)
}
