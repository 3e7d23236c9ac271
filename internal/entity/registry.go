package entity

import "sort"

// DeleteMode selects the deletion policy applied to an entity kind.
type DeleteMode int

const (
	// DeleteSimple removes the row with no dependents to consider.
	DeleteSimple DeleteMode = iota

	// DeleteRestrict refuses deletion while other rows still reference the
	// entity.
	DeleteRestrict

	// DeleteCascade removes owned child rows first, then the entity itself.
	DeleteCascade
)

// Descriptor is the static description of one entity kind: its identity
// field, its declared field surface, and its deletion policy.
type Descriptor struct {
	Kind       string
	IDField    string
	DeleteMode DeleteMode
	Spec       Spec
}

// Registry holds the descriptors for all known entity kinds.
type Registry struct {
	byKind map[string]Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKind: make(map[string]Descriptor)}
}

// Register adds a descriptor. Registering the same kind twice replaces the
// earlier entry.
func (r *Registry) Register(d Descriptor) {
	r.byKind[d.Kind] = d
}

// Lookup returns the descriptor for a kind.
func (r *Registry) Lookup(kind string) (Descriptor, bool) {
	d, ok := r.byKind[kind]
	return d, ok
}

// Kinds returns all registered kind names in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.byKind))
	for k := range r.byKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
