package di

// ConflictPolicy controls what happens when a second binding is registered
// for a (type, name) that already has an entry.
type ConflictPolicy int

const (
	// ConflictThrow rejects the duplicate registration with
	// ErrBindingConflict. This is the default.
	ConflictThrow ConflictPolicy = iota

	// ConflictKeep silently discards the new entry, keeping the existing
	// one. It is rejected on a multi-binding built with ConflictAppend.
	ConflictKeep

	// ConflictReplace removes the existing entry and installs the new one.
	// It is rejected on a multi-binding built with ConflictAppend.
	ConflictReplace

	// ConflictAppend promotes the bucket to an ordered multi-binding and
	// appends the new entry. Valid only when every existing entry at that
	// id was itself registered with ConflictAppend.
	ConflictAppend
)

// bucket holds every entry registered for one Key, in insertion order, plus
// whether the bucket is a multi-binding (append-built) set.
type bucket struct {
	entries []*Entry
	isMulti bool
}

// registrar is the builder-assembled binding table. It is created by
// NewBuilder, filled by the Builder's bind calls, and never mutated again
// once Builder.Build seals it; Scope holds a shared pointer to one
// registrar for its whole tree.
type registrar struct {
	buckets   map[string]*bucket // keyed by Key.id()
	keys      map[string]Key     // id -> canonical Key, for Types()/ForEach order
	order     []string           // ids in first-registration order
	aliases   map[string]Key     // from-id -> to-Key (one level; cycles rejected at bind time)
	aliasFrom map[string]Key     // from-id -> canonical from-Key, for Aliases()
}

func newRegistrar() *registrar {
	return &registrar{
		buckets:   make(map[string]*bucket),
		keys:      make(map[string]Key),
		aliases:   make(map[string]Key),
		aliasFrom: make(map[string]Key),
	}
}

// register installs entry under policy. It is only ever called while the
// owning Builder is unsealed.
func (r *registrar) register(entry *Entry, policy ConflictPolicy) error {
	id := entry.Key.id()
	existing, found := r.buckets[id]

	if !found {
		r.buckets[id] = &bucket{entries: []*Entry{entry}, isMulti: policy == ConflictAppend}
		r.keys[id] = entry.Key
		r.order = append(r.order, id)
		return nil
	}

	if existing.isMulti && policy != ConflictAppend {
		return ErrBindingConflict{Key: entry.Key, Reason: "this id is a multi-binding; every further registration must also use append"}
	}

	switch policy {
	case ConflictThrow:
		return ErrBindingConflict{Key: entry.Key, Reason: "duplicate binding (use a conflict policy to allow it)"}
	case ConflictKeep:
		return nil
	case ConflictReplace:
		existing.entries = []*Entry{entry}
		existing.isMulti = false
		return nil
	case ConflictAppend:
		if !existing.isMulti {
			return ErrBindingConflict{Key: entry.Key, Reason: "append requires every prior registration at this id to also use append"}
		}
		existing.entries = append(existing.entries, entry)
		return nil
	default:
		return ErrBindingConflict{Key: entry.Key, Reason: "unknown conflict policy"}
	}
}

// registerAlias installs a redirection from -> to, honoring policy the same
// way register does, and rejecting cycles.
func (r *registrar) registerAlias(from, to Key, policy ConflictPolicy) error {
	fromID := from.id()

	if err := r.checkAliasCycle(from, to); err != nil {
		return err
	}

	if _, exists := r.aliases[fromID]; exists {
		switch policy {
		case ConflictThrow:
			return ErrBindingConflict{Key: from, Reason: "duplicate alias (use a conflict policy to allow it)"}
		case ConflictKeep:
			return nil
		case ConflictReplace, ConflictAppend:
			r.aliases[fromID] = to
			r.aliasFrom[fromID] = from
			return nil
		}
	}

	r.aliases[fromID] = to
	r.aliasFrom[fromID] = from
	return nil
}

// checkAliasCycle walks the alias chain starting at `to` and fails if it
// ever lands back on `from`, so that resolveAlias, which follows the chain
// hop by hop, always terminates.
func (r *registrar) checkAliasCycle(from, to Key) error {
	seen := map[string]bool{from.id(): true}
	cur := to
	for {
		if seen[cur.id()] {
			return ErrAliasCycle{From: from, To: to}
		}
		seen[cur.id()] = true
		next, ok := r.aliases[cur.id()]
		if !ok {
			return nil
		}
		cur = next
	}
}

// resolveAlias rewrites (type, name) through the alias map, following a
// chain of aliases to its final target. The walk terminates because alias
// introduction rejects cycles.
func (r *registrar) resolveAlias(key Key) Key {
	for {
		to, ok := r.aliases[key.id()]
		if !ok {
			return key
		}
		key = to
	}
}

// Aliases returns the redirection map used by lookups: from -> to, one
// entry per alias introduced with BindAlias. The returned map is a copy;
// mutating it has no effect on the registrar.
func (r *registrar) Aliases() map[Key]Key {
	out := make(map[Key]Key, len(r.aliases))
	for fromID, to := range r.aliases {
		out[r.aliasFrom[fromID]] = to
	}
	return out
}

// HasType reports whether key (after alias resolution) has at least one
// bound entry.
func (r *registrar) HasType(key Key) bool {
	key = r.resolveAlias(key)
	_, ok := r.buckets[key.id()]
	return ok
}

// Find returns the first entry bound for key (after alias resolution), or
// nil if none.
func (r *registrar) Find(key Key) *Entry {
	key = r.resolveAlias(key)
	b, ok := r.buckets[key.id()]
	if !ok || len(b.entries) == 0 {
		return nil
	}
	return b.entries[0]
}

// FindAll returns every entry bound for key (after alias resolution), in
// registration order. Empty (not nil) when absent.
func (r *registrar) FindAll(key Key) []*Entry {
	key = r.resolveAlias(key)
	b, ok := r.buckets[key.id()]
	if !ok {
		return []*Entry{}
	}
	out := make([]*Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// ForEach enumerates every entry across every bucket, in registration
// order, flattening multi-bindings in their own insertion order.
func (r *registrar) ForEach(cb func(*Entry)) {
	for _, id := range r.order {
		for _, e := range r.buckets[id].entries {
			cb(e)
		}
	}
}

// Types returns every bound Key, in registration order.
func (r *registrar) Types() []Key {
	out := make([]Key, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.keys[id])
	}
	return out
}
