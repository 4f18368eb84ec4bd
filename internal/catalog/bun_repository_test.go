package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-recipemd/internal/runtimeconfig"
	"github.com/goliatone/go-recipemd/pkg/testsupport"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := testsupport.NewSQLiteMemoryDB("catalog_" + t.Name())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = db.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := EnsureSchema(ctx, db); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return db
}

func TestBunRepository_CRUDEvents(t *testing.T) {
	repo := NewBunRepository(newTestDB(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := repo.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	created, err := repo.Upsert(ctx, sampleEntry("water", "drink", "Drink"))
	if err != nil {
		t.Fatalf("Upsert() create error = %v", err)
	}
	assertEvent(t, events, ChangeCreated)

	fetched, err := repo.Get(ctx, "water")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if fetched.ID != created.ID || fetched.Title != "Recipe water" {
		t.Fatalf("Get() returned %+v", fetched)
	}
	if fetched.Recipe == nil || fetched.Recipe.IngredientCount() != 1 {
		t.Fatalf("expected recipe json to round trip, got %+v", fetched.Recipe)
	}

	update := sampleEntry("water", "drink", "cold")
	update.Title = "Cold water"
	updated, err := repo.Upsert(ctx, update)
	if err != nil {
		t.Fatalf("Upsert() update error = %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected id to be preserved, got %s want %s", updated.ID, created.ID)
	}
	assertEvent(t, events, ChangeUpdated)

	fetched, err = repo.Get(ctx, "water")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if fetched.Title != "Cold water" {
		t.Fatalf("expected updated title, got %q", fetched.Title)
	}

	cold, err := repo.Search(ctx, "COLD")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(cold) != 1 || cold[0].Slug != "water" {
		t.Fatalf("unexpected search result %v", slugs(cold))
	}

	if err := repo.Delete(ctx, "water"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	assertEvent(t, events, ChangeDeleted)

	if _, err := repo.Get(ctx, "water"); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "water"); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound on second delete, got %v", err)
	}
}

func TestBunRepository_ListAndSearch(t *testing.T) {
	repo := NewBunRepository(newTestDB(t))
	ctx := context.Background()

	for _, entry := range []*Entry{
		sampleEntry("water", "drink"),
		sampleEntry("bread", "baking"),
		sampleEntry("lemonade", "drink", "summer"),
	} {
		if _, err := repo.Upsert(ctx, entry); err != nil {
			t.Fatalf("Upsert(%s) error = %v", entry.Slug, err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got := slugs(list); len(got) != 3 || got[0] != "bread" || got[1] != "lemonade" || got[2] != "water" {
		t.Fatalf("unexpected list order %v", got)
	}

	drinks, err := repo.Search(ctx, "drink")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got := slugs(drinks); len(got) != 2 || got[0] != "lemonade" || got[1] != "water" {
		t.Fatalf("unexpected search result %v", got)
	}

	none, err := repo.Search(ctx, "savoury")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no matches, got %v", slugs(none))
	}
}

func TestBunRepository_WithCache(t *testing.T) {
	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	repo := NewBunRepositoryWithCache(newTestDB(t), cacheService, repocache.NewDefaultKeySerializer())
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, sampleEntry("toast", "breakfast")); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		got, err := repo.Get(ctx, "toast")
		if err != nil {
			t.Fatalf("Get() #%d error = %v", i, err)
		}
		if got.Slug != "toast" {
			t.Fatalf("Get() #%d returned %+v", i, got)
		}
	}
	if err := repo.InvalidateCache(ctx); err != nil {
		t.Fatalf("InvalidateCache() error = %v", err)
	}
}

func TestBunRepository_RequiresDatabase(t *testing.T) {
	repo := NewBunRepository(nil)
	ctx := context.Background()

	if _, err := repo.List(ctx); !errors.Is(err, ErrDatabaseRequired) {
		t.Fatalf("expected ErrDatabaseRequired, got %v", err)
	}
	if _, err := repo.Upsert(ctx, sampleEntry("x")); !errors.Is(err, ErrDatabaseRequired) {
		t.Fatalf("expected ErrDatabaseRequired, got %v", err)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open("mongo", "x"); !errors.Is(err, runtimeconfig.ErrStorageDriverUnknown) {
		t.Fatalf("expected ErrStorageDriverUnknown, got %v", err)
	}
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	mem, err := NewStore(ctx, runtimeconfig.StorageConfig{Driver: "memory"})
	if err != nil {
		t.Fatalf("NewStore(memory) error = %v", err)
	}
	if _, ok := mem.Repository.(*MemoryRepository); !ok {
		t.Fatalf("expected memory repository, got %T", mem.Repository)
	}
	if err := mem.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	sqlStore, err := NewStore(ctx, runtimeconfig.StorageConfig{
		Driver: "sqlite",
		DSN:    "file:catalog_store?mode=memory&cache=shared&_fk=1",
	})
	if err != nil {
		t.Fatalf("NewStore(sqlite) error = %v", err)
	}
	t.Cleanup(func() { _ = sqlStore.Close() })

	if _, err := sqlStore.Repository.Upsert(ctx, sampleEntry("soup", "dinner")); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	list, err := sqlStore.Repository.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one stored entry, got %v (%v)", list, err)
	}
}
