package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// A Registry collects compiled models and answers lookups by name, by
// bound Go type, and by owned-navigation target. It is safe for
// concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Model
	byType map[reflect.Type]*Model
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Model),
		byType: make(map[reflect.Type]*Model),
	}
}

// Add registers compiled models. Registering two models with the same
// name or the same Go type is an error.
func (r *Registry) Add(models ...*Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range models {
		if prev, ok := r.byName[m.Name()]; ok && prev != m {
			return fmt.Errorf("schema: duplicate model name %s", m.Name())
		}
		if prev, ok := r.byType[m.GoType()]; ok && prev != m {
			return fmt.Errorf("schema: models %s and %s both bind %s", prev.Name(), m.Name(), m.GoType())
		}
		r.byName[m.Name()] = m
		r.byType[m.GoType()] = m
	}
	return nil
}

// Model returns the registered model with the given name.
func (r *Registry) Model(name string) (*Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byName[name]
	return m, ok
}

// ModelFor returns the registered model bound to the Go type. Pointer
// types resolve to their element.
func (r *Registry) ModelFor(t reflect.Type) (*Model, bool) {
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byType[t]
	return m, ok
}

// Models returns the registered models sorted by name.
func (r *Registry) Models() []*Model {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ms := make([]*Model, 0, len(r.byName))
	for _, m := range r.byName {
		ms = append(ms, m)
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i].Name() < ms[j].Name() })
	return ms
}

// Owner finds the model declaring an owned navigation with the given
// member name and target. The declaring model cannot be inferred when
// two models declare the same member name to the same target; that
// lookup fails with an error naming the candidates, and the caller must
// resolve the navigation through the declaring model instead.
func (r *Registry) Owner(member string, target *Model) (*Model, *FieldDef, error) {
	type hit struct {
		owner *Model
		def   *FieldDef
	}
	var hits []hit
	for _, m := range r.Models() {
		for _, fd := range m.Navigations() {
			if fd.Name == member && fd.Target() == target {
				hits = append(hits, hit{m, fd})
			}
		}
	}
	switch len(hits) {
	case 1:
		return hits[0].owner, hits[0].def, nil
	case 0:
		return nil, nil, fmt.Errorf("schema: no model owns a navigation %s to %s", member, target.Name())
	default:
		owners := make([]string, len(hits))
		for i, h := range hits {
			owners[i] = h.owner.Name()
		}
		return nil, nil, fmt.Errorf("schema: navigation %s to %s is ambiguous, owned by %s",
			member, target.Name(), strings.Join(owners, " and "))
	}
}
