package level

import (
	"fmt"
	"slices"
)

// Handle is a typed index into a Registry. The zero Handle refers to
// nothing.
type Handle[T any] struct {
	index int // 1-based
}

// Valid reports whether h was returned by a registry.
func (h Handle[T]) Valid() bool { return h.index > 0 }

// Registry is a name-keyed, insert-once store. Iteration follows sorted
// name order.
type Registry[T any] struct {
	kind   string
	index  map[string]int
	items  []T
	sorted []string
}

// NewRegistry creates an empty registry; kind names it in errors.
func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{kind: kind, index: make(map[string]int)}
}

// Kind returns the registry's name.
func (r *Registry[T]) Kind() string { return r.kind }

// Add inserts v under name. An existing name is never overwritten.
func (r *Registry[T]) Add(name string, v T) (Handle[T], error) {
	if _, ok := r.index[name]; ok {
		return Handle[T]{}, &DuplicateNameError{Registry: r.kind, Name: name}
	}
	r.items = append(r.items, v)
	r.index[name] = len(r.items)

	i, _ := slices.BinarySearch(r.sorted, name)
	r.sorted = slices.Insert(r.sorted, i, name)

	return Handle[T]{index: len(r.items)}, nil
}

// Has reports whether name is present.
func (r *Registry[T]) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Find returns the handle stored under name.
func (r *Registry[T]) Find(name string) (Handle[T], error) {
	i, ok := r.index[name]
	if !ok {
		return Handle[T]{}, fmt.Errorf("%s %q: %w", r.kind, name, ErrUnknownName)
	}
	return Handle[T]{index: i}, nil
}

// Get returns the entry behind h, or nil for an invalid handle.
func (r *Registry[T]) Get(h Handle[T]) *T {
	if h.index <= 0 || h.index > len(r.items) {
		return nil
	}
	return &r.items[h.index-1]
}

// Lookup is Find followed by Get.
func (r *Registry[T]) Lookup(name string) (*T, error) {
	h, err := r.Find(name)
	if err != nil {
		return nil, err
	}
	return r.Get(h), nil
}

// Len returns the number of entries.
func (r *Registry[T]) Len() int { return len(r.items) }

// Names returns every name in sorted order.
func (r *Registry[T]) Names() []string {
	return slices.Clone(r.sorted)
}

// Each calls fn for every entry in sorted name order and stops at the
// first error.
func (r *Registry[T]) Each(fn func(name string, v *T) error) error {
	for _, name := range r.sorted {
		if err := fn(name, &r.items[r.index[name]-1]); err != nil {
			return err
		}
	}
	return nil
}
