package catalog

import (
	"context"
	"errors"
	"os"
	"sort"
	"testing"

	"github.com/goliatone/go-recipemd/internal/library"
)

func newTestImporter(t *testing.T, repo Repository) *Importer {
	t.Helper()
	loader := library.NewLoader(os.DirFS("../library/testdata"), library.Config{
		DefaultLocale: "en",
		Recursive:     true,
	}, nil)
	return NewImporter(ImporterConfig{Loader: loader, Repository: repo})
}

func sortedSlugs(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}

func TestImporter_ImportDirectory(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	importer := newTestImporter(t, repo)

	result, err := importer.ImportDirectory(ctx, "recipes", ImportOptions{})
	if err != nil {
		t.Fatalf("ImportDirectory() error = %v", err)
	}
	got := sortedSlugs(result.Created)
	want := []string{"agua", "fresh-water", "lemonade"}
	if len(got) != len(want) {
		t.Fatalf("expected created %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected created %v, got %v", want, got)
		}
	}

	stored, err := repo.Get(ctx, "fresh-water")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Title != "Water" {
		t.Fatalf("unexpected stored title %q", stored.Title)
	}

	again, err := importer.ImportDirectory(ctx, "recipes", ImportOptions{})
	if err != nil {
		t.Fatalf("second ImportDirectory() error = %v", err)
	}
	if len(again.Created) != 0 || len(again.Updated) != 0 {
		t.Fatalf("expected no changes on reimport, got %#v", again)
	}
	if len(again.Unchanged) != 3 {
		t.Fatalf("expected 3 unchanged entries, got %v", again.Unchanged)
	}
}

func TestImporter_DryRunDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	importer := newTestImporter(t, repo)

	result, err := importer.ImportDirectory(ctx, "recipes", ImportOptions{DryRun: true})
	if err != nil {
		t.Fatalf("ImportDirectory() error = %v", err)
	}
	if len(result.Created) != 3 {
		t.Fatalf("expected 3 planned creations, got %v", result.Created)
	}
	entries, _ := repo.List(ctx)
	if len(entries) != 0 {
		t.Fatalf("dry run should not write, found %d entries", len(entries))
	}
}

func TestImporter_UpdatesChangedChecksum(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	stale := sampleEntry("lemonade")
	stale.Checksum = "stale"
	if _, err := repo.Upsert(ctx, stale); err != nil {
		t.Fatalf("seed: %v", err)
	}

	result, err := newTestImporter(t, repo).ImportDirectory(ctx, "recipes/drinks", ImportOptions{})
	if err != nil {
		t.Fatalf("ImportDirectory() error = %v", err)
	}
	if len(result.Updated) != 1 || result.Updated[0] != "lemonade" {
		t.Fatalf("expected lemonade to be updated, got %#v", result)
	}
}

func TestImporter_DeleteOrphaned(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	if _, err := repo.Upsert(ctx, sampleEntry("retired")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	result, err := newTestImporter(t, repo).ImportDirectory(ctx, "recipes/drinks", ImportOptions{DeleteOrphaned: true})
	if err != nil {
		t.Fatalf("ImportDirectory() error = %v", err)
	}
	if len(result.Deleted) != 1 || result.Deleted[0] != "retired" {
		t.Fatalf("expected retired to be deleted, got %v", result.Deleted)
	}
	if _, err := repo.Get(ctx, "retired"); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("expected retired entry to be gone, got %v", err)
	}
}

func TestImporter_ContinueOnErrorCollectsFailures(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	continueOnError := true

	result, err := newTestImporter(t, repo).ImportDirectory(ctx, "broken", ImportOptions{ContinueOnError: &continueOnError})
	if err != nil {
		t.Fatalf("ImportDirectory() error = %v", err)
	}
	if len(result.Created) != 1 || result.Created[0] != "toast" {
		t.Fatalf("expected toast to be created, got %v", result.Created)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("expected one failure, got %#v", result.Failures)
	}
}

func TestImporter_SyncKeepsEntriesForUnparseableFiles(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	existing := sampleEntry("pancakes")
	existing.Path = "broken/missing-divider.md"
	if _, err := repo.Upsert(ctx, existing); err != nil {
		t.Fatalf("seed: %v", err)
	}
	continueOnError := true

	result, err := newTestImporter(t, repo).ImportDirectory(ctx, "broken", ImportOptions{
		ContinueOnError: &continueOnError,
		DeleteOrphaned:  true,
	})
	if err != nil {
		t.Fatalf("ImportDirectory() error = %v", err)
	}
	if len(result.Failures) != 1 || result.Failures[0].Path != "broken/missing-divider.md" {
		t.Fatalf("expected missing-divider failure, got %#v", result.Failures)
	}
	if len(result.Deleted) != 0 {
		t.Fatalf("expected no deletions, got %v", result.Deleted)
	}
	if _, err := repo.Get(ctx, "pancakes"); err != nil {
		t.Fatalf("expected pancakes entry to survive sync, got %v", err)
	}
}

func TestImporter_DuplicateSlug(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	importer := NewImporter(ImporterConfig{Repository: repo})

	first := &library.Document{Path: "a.md", Slug: "toast", Checksum: []byte{1}}
	second := &library.Document{Path: "b.md", Slug: "toast", Checksum: []byte{2}}

	result, err := importer.ImportDocuments(ctx, []*library.Document{first, second}, ImportOptions{})
	if err != nil {
		t.Fatalf("ImportDocuments() error = %v", err)
	}
	if len(result.Created) != 1 {
		t.Fatalf("expected a single creation, got %v", result.Created)
	}
	if len(result.Failures) != 1 || !errors.Is(result.Failures[0].Err, ErrDuplicateSlug) {
		t.Fatalf("expected duplicate slug failure, got %#v", result.Failures)
	}
}

func TestImporter_RequiresDependencies(t *testing.T) {
	if _, err := NewImporter(ImporterConfig{}).ImportDirectory(context.Background(), "x", ImportOptions{}); !errors.Is(err, ErrLoaderRequired) {
		t.Fatalf("expected ErrLoaderRequired, got %v", err)
	}
	if _, err := NewImporter(ImporterConfig{}).ImportDocuments(context.Background(), nil, ImportOptions{}); !errors.Is(err, ErrRepositoryRequired) {
		t.Fatalf("expected ErrRepositoryRequired, got %v", err)
	}
}
