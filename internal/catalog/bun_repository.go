package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/uptrace/bun"
)

const entryNamespace = "recipe"

// BunRepository persists entries with Bun. Writes run in a transaction that
// also maintains the tag index; reads go through the generic repository,
// optionally behind a cache.
type BunRepository struct {
	db           *bun.DB
	repo         repository.Repository[*Entry]
	cacheService cache.CacheService
	cachePrefix  string
	broadcaster  *changeBroadcaster
}

// NewBunRepository creates a repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a repository whose reads are cached.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	r := &BunRepository{db: db, broadcaster: newChangeBroadcaster()}
	if db == nil {
		return r
	}
	base := NewEntryRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		r.cacheService = cacheService
		r.cachePrefix = entryNamespace + cache.KeySeparator
	}
	r.repo = base
	return r
}

// List returns entries ordered by slug.
func (r *BunRepository) List(ctx context.Context) ([]*Entry, error) {
	if r.db == nil {
		return nil, ErrDatabaseRequired
	}
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.slug ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "")
	}
	return records, nil
}

// Get retrieves an entry by slug.
func (r *BunRepository) Get(ctx context.Context, slug string) (*Entry, error) {
	if r.db == nil {
		return nil, ErrDatabaseRequired
	}
	key := normalizeSlug(slug)
	if key == "" {
		return nil, ErrSlugRequired
	}
	record, err := r.repo.GetByIdentifier(ctx, key)
	if err != nil {
		return nil, mapRepositoryError(err, key)
	}
	return record, nil
}

// Search returns entries carrying tag, ordered by slug. A blank tag lists everything.
func (r *BunRepository) Search(ctx context.Context, tag string) ([]*Entry, error) {
	if r.db == nil {
		return nil, ErrDatabaseRequired
	}
	key := normalizeTag(tag)
	if key == "" {
		return r.List(ctx)
	}
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("r.id IN (SELECT rt.recipe_id FROM recipe_tags AS rt WHERE rt.tag = ?)", key).
				OrderExpr("r.slug ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "")
	}
	return records, nil
}

// Upsert creates or replaces the entry with the same slug. An existing
// entry keeps its ID and creation time.
func (r *BunRepository) Upsert(ctx context.Context, entry *Entry) (*Entry, error) {
	if r.db == nil {
		return nil, ErrDatabaseRequired
	}
	if entry == nil {
		return nil, ErrEntryRequired
	}
	key := normalizeSlug(entry.Slug)
	if key == "" {
		return nil, ErrSlugRequired
	}

	model := cloneEntry(entry)
	model.Slug = key
	created := false

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var existing Entry
		err := tx.NewSelect().Model(&existing).Where("?TableAlias.slug = ?", key).Scan(ctx)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			created = true
		case err != nil:
			return err
		}

		now := time.Now().UTC()
		model.UpdatedAt = now
		if created {
			model.CreatedAt = now
			if _, err := tx.NewInsert().Model(model).Exec(ctx); err != nil {
				return err
			}
		} else {
			model.ID = existing.ID
			model.CreatedAt = existing.CreatedAt
			if _, err := tx.NewUpdate().
				Model(model).
				Column("locale", "title", "path", "source_url", "draft", "checksum", "tags",
					"ingredient_count", "recipe", "markdown", "updated_at").
				WherePK().
				Exec(ctx); err != nil {
				return err
			}
		}

		if _, err := tx.NewDelete().Model((*tagRow)(nil)).Where("recipe_id = ?", model.ID).Exec(ctx); err != nil {
			return err
		}
		if rows := tagRows(model); len(rows) > 0 {
			if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog upsert %s: %w", key, err)
	}
	if err := r.InvalidateCache(ctx); err != nil {
		return nil, err
	}

	eventType := ChangeUpdated
	if created {
		eventType = ChangeCreated
	}
	r.broadcaster.Broadcast(newChangeEvent(eventType, model))
	return cloneEntry(model), nil
}

// Delete removes an entry and its tag rows.
func (r *BunRepository) Delete(ctx context.Context, slug string) error {
	if r.db == nil {
		return ErrDatabaseRequired
	}
	key := normalizeSlug(slug)
	if key == "" {
		return ErrSlugRequired
	}

	var existing Entry
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(&existing).Where("?TableAlias.slug = ?", key).Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRecipeNotFound
			}
			return err
		}
		if _, err := tx.NewDelete().Model((*tagRow)(nil)).Where("recipe_id = ?", existing.ID).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model(&existing).WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	if err := r.InvalidateCache(ctx); err != nil {
		return err
	}

	r.broadcaster.Broadcast(newChangeEvent(ChangeDeleted, &existing))
	return nil
}

// Subscribe delivers change events until the context is cancelled.
func (r *BunRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}

// InvalidateCache drops cached reads after a write.
func (r *BunRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, slug string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) || errors.Is(err, sql.ErrNoRows) {
		if slug == "" {
			return ErrRecipeNotFound
		}
		return fmt.Errorf("%w: %s", ErrRecipeNotFound, slug)
	}
	return fmt.Errorf("catalog repository error: %w", err)
}
