package session

import (
	"container/list"
	"sync"
)

// Registry maps session ids to live pipelines with LRU eviction, so the
// orchestrating layer holds one injected registry instead of process-global
// state. Evicted sessions must be rebuilt from their source document.
type Registry struct {
	mu    sync.Mutex
	max   int
	order *list.List // front is most recently used
	items map[string]*list.Element
}

type registryEntry struct {
	id       string
	pipeline *Pipeline
}

// NewRegistry caps the number of retained sessions. max <= 0 means 64.
func NewRegistry(max int) *Registry {
	if max <= 0 {
		max = 64
	}
	return &Registry{
		max:   max,
		order: list.New(),
		items: make(map[string]*list.Element),
	}
}

// Put stores a pipeline under its id, evicting the least recently used
// session when the cap is exceeded.
func (r *Registry) Put(p *Pipeline) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if el, ok := r.items[p.ID]; ok {
		el.Value.(*registryEntry).pipeline = p
		r.order.MoveToFront(el)
		return
	}
	r.items[p.ID] = r.order.PushFront(&registryEntry{id: p.ID, pipeline: p})
	for r.order.Len() > r.max {
		oldest := r.order.Back()
		r.order.Remove(oldest)
		delete(r.items, oldest.Value.(*registryEntry).id)
	}
}

// Get returns the pipeline for an id and marks it recently used.
func (r *Registry) Get(id string) (*Pipeline, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	el, ok := r.items[id]
	if !ok {
		return nil, false
	}
	r.order.MoveToFront(el)
	return el.Value.(*registryEntry).pipeline, true
}

// Remove drops a session.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if el, ok := r.items[id]; ok {
		r.order.Remove(el)
		delete(r.items, id)
	}
}

// Len reports how many sessions are retained.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.order.Len()
}
