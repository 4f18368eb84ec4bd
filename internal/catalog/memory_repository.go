package catalog

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository keeps entries in memory for tests and one-shot CLI runs.
type MemoryRepository struct {
	mu          sync.RWMutex
	entries     map[string]*Entry
	broadcaster *changeBroadcaster
	now         func() time.Time
}

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		entries:     make(map[string]*Entry),
		broadcaster: newChangeBroadcaster(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// List returns entries ordered by slug.
func (r *MemoryRepository) List(context.Context) ([]*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, cloneEntry(entry))
	}
	sortBySlug(out)
	return out, nil
}

// Get retrieves an entry by slug.
func (r *MemoryRepository) Get(_ context.Context, slug string) (*Entry, error) {
	key := normalizeSlug(slug)
	if key == "" {
		return nil, ErrSlugRequired
	}

	r.mu.RLock()
	entry, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrRecipeNotFound
	}
	return cloneEntry(entry), nil
}

// Upsert creates or replaces the entry with the same slug. An existing
// entry keeps its ID and creation time.
func (r *MemoryRepository) Upsert(_ context.Context, entry *Entry) (*Entry, error) {
	if entry == nil {
		return nil, ErrEntryRequired
	}
	key := normalizeSlug(entry.Slug)
	if key == "" {
		return nil, ErrSlugRequired
	}

	stored := cloneEntry(entry)
	stored.Slug = key
	now := r.now()

	r.mu.Lock()
	existing, exists := r.entries[key]
	if exists {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.entries[key] = stored
	r.mu.Unlock()

	eventType := ChangeCreated
	if exists {
		eventType = ChangeUpdated
	}
	r.broadcaster.Broadcast(newChangeEvent(eventType, stored))
	return cloneEntry(stored), nil
}

// Delete removes an entry by slug.
func (r *MemoryRepository) Delete(_ context.Context, slug string) error {
	key := normalizeSlug(slug)
	if key == "" {
		return ErrSlugRequired
	}

	r.mu.Lock()
	entry, ok := r.entries[key]
	if !ok {
		r.mu.Unlock()
		return ErrRecipeNotFound
	}
	delete(r.entries, key)
	r.mu.Unlock()

	r.broadcaster.Broadcast(newChangeEvent(ChangeDeleted, entry))
	return nil
}

// Search returns entries carrying tag, ordered by slug. A blank tag lists everything.
func (r *MemoryRepository) Search(ctx context.Context, tag string) ([]*Entry, error) {
	if normalizeTag(tag) == "" {
		return r.List(ctx)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Entry
	for _, entry := range r.entries {
		if entry.HasTag(tag) {
			out = append(out, cloneEntry(entry))
		}
	}
	sortBySlug(out)
	return out, nil
}

// Subscribe delivers change events until the context is cancelled.
func (r *MemoryRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}

func sortBySlug(entries []*Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Slug < entries[j].Slug
	})
}
