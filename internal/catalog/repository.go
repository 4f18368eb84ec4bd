package catalog

import (
	"context"
	"errors"
)

var (
	// ErrRecipeNotFound indicates that no entry exists for a slug.
	ErrRecipeNotFound = errors.New("catalog: recipe not found")
	// ErrSlugRequired indicates that an operation needs a non-empty slug.
	ErrSlugRequired = errors.New("catalog: recipe slug is required")
	// ErrEntryRequired is returned when Upsert receives nil.
	ErrEntryRequired = errors.New("catalog: entry is required")
	// ErrDatabaseRequired is returned by Bun repositories built without a database.
	ErrDatabaseRequired = errors.New("catalog: bun repository requires a database")
)

// Repository exposes persistence operations for stored recipes.
type Repository interface {
	List(ctx context.Context) ([]*Entry, error)
	Get(ctx context.Context, slug string) (*Entry, error)
	Upsert(ctx context.Context, entry *Entry) (*Entry, error)
	Delete(ctx context.Context, slug string) error
	Search(ctx context.Context, tag string) ([]*Entry, error)
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// ChangeType enumerates catalog change events.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent reports catalog mutations to subscribers.
type ChangeEvent struct {
	Type  ChangeType
	Entry *Entry
}

func newChangeEvent(changeType ChangeType, entry *Entry) ChangeEvent {
	return ChangeEvent{Type: changeType, Entry: cloneEntry(entry)}
}
