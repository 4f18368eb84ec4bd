package catalog

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-recipemd/internal/library"
	"github.com/goliatone/go-recipemd/internal/logging"
	"github.com/goliatone/go-recipemd/pkg/interfaces"
)

var (
	ErrLoaderRequired     = errors.New("catalog importer: loader is required")
	ErrRepositoryRequired = errors.New("catalog importer: repository is required")
	ErrDuplicateSlug      = errors.New("catalog importer: slug used by more than one file")
)

// DocumentLoader is the part of library.Loader the importer needs.
type DocumentLoader interface {
	LoadFile(ctx context.Context, path string) (*library.Document, error)
	LoadDirectory(ctx context.Context, dir string, opts library.LoadParams) (*library.LoadResult, error)
}

// ImporterConfig encapsulates the importer dependencies.
type ImporterConfig struct {
	Loader     DocumentLoader
	Repository Repository
	Logger     interfaces.Logger
}

// ImportOptions tune a single import run.
type ImportOptions struct {
	Pattern         string
	Recursive       *bool
	ContinueOnError *bool
	// DryRun computes the result without writing.
	DryRun bool
	// DeleteOrphaned removes entries whose slug was not part of the run.
	DeleteOrphaned bool
}

// ImportResult lists affected slugs per outcome.
type ImportResult struct {
	Created   []string
	Updated   []string
	Unchanged []string
	Deleted   []string
	Failures  []library.Failure
}

// Importer loads recipe files and stores them in a catalog repository.
type Importer struct {
	loader DocumentLoader
	repo   Repository
	logger interfaces.Logger
}

// NewImporter builds an Importer from cfg.
func NewImporter(cfg ImporterConfig) *Importer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Importer{loader: cfg.Loader, repo: cfg.Repository, logger: logger}
}

// ImportDirectory loads dir and imports every document found.
func (i *Importer) ImportDirectory(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error) {
	if i.loader == nil {
		return nil, ErrLoaderRequired
	}
	loaded, err := i.loader.LoadDirectory(ctx, dir, library.LoadParams{
		Pattern:         opts.Pattern,
		Recursive:       opts.Recursive,
		ContinueOnError: opts.ContinueOnError,
	})
	if err != nil {
		return nil, err
	}

	// Files that exist but failed to parse still have a source; their
	// entries are never treated as orphans.
	failed := make(map[string]struct{}, len(loaded.Failures))
	for _, failure := range loaded.Failures {
		failed[failure.Path] = struct{}{}
	}

	result, err := i.importDocuments(ctx, loaded.Documents, opts, failed)
	if result != nil {
		result.Failures = append(loaded.Failures, result.Failures...)
	}
	return result, err
}

// ImportDocuments stores docs, skipping entries whose checksum is unchanged.
func (i *Importer) ImportDocuments(ctx context.Context, docs []*library.Document, opts ImportOptions) (*ImportResult, error) {
	return i.importDocuments(ctx, docs, opts, nil)
}

func (i *Importer) importDocuments(ctx context.Context, docs []*library.Document, opts ImportOptions, failed map[string]struct{}) (*ImportResult, error) {
	if i.repo == nil {
		return nil, ErrRepositoryRequired
	}

	result := &ImportResult{}
	seen := map[string]string{}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		entry := NewEntry(doc)
		if entry == nil {
			continue
		}
		key := normalizeSlug(entry.Slug)
		logger := logging.WithRecipeContext(i.logger, doc.Path, key, "import")

		if previous, dup := seen[key]; dup {
			err := goerrors.Wrap(ErrDuplicateSlug, goerrors.CategoryConflict, fmt.Sprintf("slug %s already imported from %s", key, previous)).
				WithTextCode("RECIPE_DUPLICATE_SLUG").
				WithMetadata(map[string]any{"path": doc.Path, "slug": key})
			result.Failures = append(result.Failures, library.Failure{Path: doc.Path, Err: err})
			logger.Warn("recipe import skipped duplicate slug", "previous_path", previous)
			continue
		}
		seen[key] = doc.Path

		existing, err := i.repo.Get(ctx, key)
		switch {
		case errors.Is(err, ErrRecipeNotFound):
			existing = nil
		case err != nil:
			return result, err
		}

		if existing != nil && existing.Checksum == entry.Checksum {
			result.Unchanged = append(result.Unchanged, key)
			continue
		}
		if !opts.DryRun {
			if _, err := i.repo.Upsert(ctx, entry); err != nil {
				return result, err
			}
		}
		if existing == nil {
			result.Created = append(result.Created, key)
			logger.Debug("recipe created")
		} else {
			result.Updated = append(result.Updated, key)
			logger.Debug("recipe updated")
		}
	}

	if opts.DeleteOrphaned {
		if err := i.deleteOrphaned(ctx, seen, failed, opts.DryRun, result); err != nil {
			return result, err
		}
	}

	i.logger.Info("recipe import completed",
		"created_count", len(result.Created),
		"updated_count", len(result.Updated),
		"unchanged_count", len(result.Unchanged),
		"deleted_count", len(result.Deleted),
		"failure_count", len(result.Failures),
		"dry_run", opts.DryRun,
	)
	return result, nil
}

func (i *Importer) deleteOrphaned(ctx context.Context, keep map[string]string, failed map[string]struct{}, dryRun bool, result *ImportResult) error {
	entries, err := i.repo.List(ctx)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if _, ok := keep[entry.Slug]; ok {
			continue
		}
		if _, ok := failed[entry.Path]; ok && entry.Path != "" {
			continue
		}
		if !dryRun {
			if err := i.repo.Delete(ctx, entry.Slug); err != nil && !errors.Is(err, ErrRecipeNotFound) {
				return err
			}
		}
		result.Deleted = append(result.Deleted, entry.Slug)
	}
	return nil
}
