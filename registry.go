package pdm

// Registry is the process-wide mapping from logical source name to its
// canonical table. It is built exactly once per pipeline run and read-only
// afterward.
type Registry struct {
	tables map[string]*Table
	names  []string
	built  bool
}

// BuildRegistry assembles the registry from the canonical tables. It either
// produces a registry holding all five sources or fails with no registry;
// there is no partial build. Referential checking is the caller's
// responsibility and must have passed before building.
func BuildRegistry(specs *SpecSet, tables map[string]*Table) (*Registry, error) {
	r := &Registry{tables: make(map[string]*Table, len(tables))}
	for _, name := range specs.Names() {
		t, ok := tables[name]
		if !ok || t == nil {
			return nil, &UnknownSourceError{Name: name}
		}
		r.tables[name] = t
		r.names = append(r.names, name)
	}
	for name := range tables {
		if _, err := specs.Get(name); err != nil {
			return nil, err
		}
	}
	r.built = true
	return r, nil
}

// Get returns the canonical table for the named source.
func (r *Registry) Get(name string) (*Table, error) {
	if r == nil || !r.built {
		return nil, &NotBuiltError{}
	}
	t, ok := r.tables[name]
	if !ok {
		return nil, &UnknownSourceError{Name: name}
	}
	return t, nil
}

// Names returns the source names in registration order.
func (r *Registry) Names() []string {
	if r == nil || !r.built {
		return nil
	}
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}
