package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	cache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-recipemd/internal/runtimeconfig"
)

// Open connects to the SQL database named by driver. Only sqlite and
// postgres are SQL drivers; memory has no database.
func Open(driver, dsn string) (*bun.DB, error) {
	switch runtimeconfig.NormalizeDriver(driver) {
	case runtimeconfig.DriverSQLite:
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("catalog open sqlite: %w", err)
		}
		db := bun.NewDB(sqldb, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		return db, nil
	case runtimeconfig.DriverPostgres:
		sqldb, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("catalog open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageDriverUnknown, driver)
	}
}

// EnsureSchema creates the catalog tables when missing.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return ErrDatabaseRequired
	}
	models := []any{(*Entry)(nil), (*tagRow)(nil)}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("catalog create table: %w", err)
		}
	}
	if _, err := db.NewCreateIndex().
		Model((*tagRow)(nil)).
		Index("recipe_tags_tag_idx").
		Column("tag").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("catalog create index: %w", err)
	}
	return nil
}

// Store bundles a repository with the resources it owns.
type Store struct {
	Repository Repository
	DB         *bun.DB
}

// Close releases the database, if any.
func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// NewStore builds the repository described by cfg, creating the schema for
// SQL drivers.
func NewStore(ctx context.Context, cfg runtimeconfig.StorageConfig) (*Store, error) {
	driver := runtimeconfig.NormalizeDriver(cfg.Driver)
	if driver == runtimeconfig.DriverMemory {
		return &Store{Repository: NewMemoryRepository()}, nil
	}

	db, err := Open(driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if !cfg.Cache.Enabled {
		return &Store{Repository: NewBunRepository(db), DB: db}, nil
	}

	cacheCfg := cache.DefaultConfig()
	if cfg.Cache.TTL > 0 {
		cacheCfg.TTL = cfg.Cache.TTL
	} else {
		cacheCfg.TTL = time.Minute
	}
	cacheService, err := cache.NewCacheService(cacheCfg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog cache: %w", err)
	}
	repo := NewBunRepositoryWithCache(db, cacheService, cache.NewDefaultKeySerializer())
	return &Store{Repository: repo, DB: db}, nil
}
