// core/plan/registry.go
package plan

import (
	"fmt"

	"agpsplice-core/agp"
)

// Registry holds the fragments produced for one plan, keyed symbolically so
// assembly does not depend on file paths. Insertion order is kept.
type Registry struct {
	order  []Key
	tables map[Key]agp.Table
}

func NewRegistry() *Registry {
	return &Registry{tables: make(map[Key]agp.Table)}
}

// Put stores t under k; a second Put for the same key replaces the table but
// keeps its original position.
func (r *Registry) Put(k Key, t agp.Table) {
	if _, ok := r.tables[k]; !ok {
		r.order = append(r.order, k)
	}
	r.tables[k] = t
}

func (r *Registry) Get(k Key) (agp.Table, bool) {
	t, ok := r.tables[k]
	return t, ok
}

// Keys returns fragment keys in insertion order.
func (r *Registry) Keys() []Key { return append([]Key(nil), r.order...) }

// Assemble concatenates the layout's fragments in order.
func (r *Registry) Assemble(l Layout) (agp.Table, error) {
	parts := make([]agp.Table, 0, len(l.Fragments))
	for _, k := range l.Fragments {
		t, ok := r.tables[k]
		if !ok {
			return nil, fmt.Errorf("assemble %s: fragment %s not built", l.CombinedName, k)
		}
		parts = append(parts, t)
	}
	return agp.Concat(parts...), nil
}
