package game

// EntityPool reconciles sparse server snapshots against the client's live
// objects. A sweep runs Mark, then Set for every entity present in the
// snapshot, then CleanUp: entries not re-Set since Mark are reported removed
// and purged, survivors are retained verbatim including in-place mutation.
//
// Operations are total and O(existing + incoming) per pass. The pool is not
// safe for concurrent use; callers confine it to the simulation thread.
type EntityPool[K comparable, V any] struct {
	items map[K]V
	seen  map[K]struct{}
}

// NewEntityPool returns an empty pool.
func NewEntityPool[K comparable, V any]() *EntityPool[K, V] {
	return &EntityPool[K, V]{
		items: make(map[K]V),
		seen:  make(map[K]struct{}),
	}
}

// Mark opens a sweep: the seen set resets, stored items stay.
func (p *EntityPool[K, V]) Mark() {
	clear(p.seen)
}

// Set inserts or overwrites an entry and marks it seen.
func (p *EntityPool[K, V]) Set(id K, item V) {
	p.items[id] = item
	p.seen[id] = struct{}{}
}

// Get returns the stored item for id. Callers use the ok result to decide
// between updating an existing entity and constructing a new one.
func (p *EntityPool[K, V]) Get(id K) (V, bool) {
	item, ok := p.items[id]
	return item, ok
}

// CleanUp closes a sweep: every entry stored before Mark and not re-Set
// since is passed to onRemoved (so callers can release attached resources)
// and then dropped.
func (p *EntityPool[K, V]) CleanUp(onRemoved func(id K, item V)) {
	for id, item := range p.items {
		if _, ok := p.seen[id]; ok {
			continue
		}
		if onRemoved != nil {
			onRemoved(id, item)
		}
		delete(p.items, id)
	}
}

// Clear drops everything unconditionally. Used on full session teardown; no
// removal callbacks fire.
func (p *EntityPool[K, V]) Clear() {
	clear(p.items)
	clear(p.seen)
}

// Len returns the number of live entries.
func (p *EntityPool[K, V]) Len() int {
	return len(p.items)
}

// Each visits every live entry in unspecified order.
func (p *EntityPool[K, V]) Each(fn func(id K, item V)) {
	for id, item := range p.items {
		fn(id, item)
	}
}
