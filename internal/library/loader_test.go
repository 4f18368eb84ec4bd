package library

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-recipemd/internal/identity"
	"github.com/goliatone/go-recipemd/internal/parser"
	"github.com/goliatone/go-recipemd/pkg/interfaces"
)

type messageLogger struct {
	mu       sync.Mutex
	messages []string
}

func (m *messageLogger) record(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *messageLogger) Trace(msg string, _ ...any) { m.record(msg) }
func (m *messageLogger) Debug(msg string, _ ...any) { m.record(msg) }
func (m *messageLogger) Info(msg string, _ ...any)  { m.record(msg) }
func (m *messageLogger) Warn(msg string, _ ...any)  { m.record(msg) }
func (m *messageLogger) Error(msg string, _ ...any) { m.record(msg) }
func (m *messageLogger) Fatal(msg string, _ ...any) { m.record(msg) }

func (m *messageLogger) WithContext(context.Context) interfaces.Logger { return m }

func newTestLoader(tb testing.TB, recursive bool) *Loader {
	tb.Helper()
	return NewLoader(os.DirFS("testdata"), Config{
		DefaultLocale: "en",
		Locales:       []string{"en", "es"},
		Recursive:     recursive,
	}, nil)
}

func TestLoaderLoadFile_FrontMatter(t *testing.T) {
	loader := newTestLoader(t, true)

	doc, err := loader.LoadFile(context.Background(), "recipes/water.md")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if doc.Slug != "fresh-water" {
		t.Fatalf("expected front matter slug, got %q", doc.Slug)
	}
	if doc.ID != identity.LocaleRecipeUUID("en", "fresh-water") {
		t.Fatalf("unexpected id %s", doc.ID)
	}
	if doc.FrontMatter.Source != "https://example.org/water" {
		t.Fatalf("unexpected source %q", doc.FrontMatter.Source)
	}
	if doc.FrontMatter.Custom["difficulty"] != "easy" {
		t.Fatalf("expected custom field, got %#v", doc.FrontMatter.Custom)
	}
	if doc.Recipe.Title != "Water" {
		t.Fatalf("unexpected title %q", doc.Recipe.Title)
	}
	if string(doc.Source[doc.BodyOffset:]) != string(doc.Body) {
		t.Fatalf("body offset does not point at the body")
	}
	if len(doc.Checksum) != 32 {
		t.Fatalf("expected sha256 checksum, got %d bytes", len(doc.Checksum))
	}

	tags := doc.Tags()
	want := []string{"drink", "non-alcoholic", "H2O", "basics"}
	if len(tags) != len(want) {
		t.Fatalf("expected merged tags %v, got %v", want, tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("expected merged tags %v, got %v", want, tags)
		}
	}
}

func TestLoaderLoadFile_SlugFromTitle(t *testing.T) {
	loader := newTestLoader(t, true)

	doc, err := loader.LoadFile(context.Background(), "recipes/drinks/lemonade.md")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if doc.Slug != "lemonade" {
		t.Fatalf("expected slug from title, got %q", doc.Slug)
	}
	if doc.Locale != "en" {
		t.Fatalf("expected default locale, got %q", doc.Locale)
	}
	if doc.Recipe.IngredientCount() != 3 {
		t.Fatalf("expected 3 ingredients, got %d", doc.Recipe.IngredientCount())
	}
}

func TestLoaderWithParseLoggerReceivesParseOutcomes(t *testing.T) {
	loaderLog := &messageLogger{}
	parseLog := &messageLogger{}
	base := NewLoader(os.DirFS("testdata"), Config{DefaultLocale: "en"}, loaderLog)
	loader := base.WithParseLogger(parseLog)

	if _, err := loader.LoadFile(context.Background(), "recipes/water.md"); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if _, err := loader.LoadFile(context.Background(), "broken/missing-divider.md"); err == nil {
		t.Fatal("expected parse error for missing divider")
	}

	want := []string{"recipe loaded", "recipe parse failed"}
	if len(parseLog.messages) != len(want) {
		t.Fatalf("expected parse messages %v, got %v", want, parseLog.messages)
	}
	for i := range want {
		if parseLog.messages[i] != want[i] {
			t.Fatalf("expected parse messages %v, got %v", want, parseLog.messages)
		}
	}
	if len(loaderLog.messages) != 0 {
		t.Fatalf("expected loader logger to stay quiet, got %v", loaderLog.messages)
	}
	if base.parseLogger != loaderLog {
		t.Fatal("WithParseLogger must not mutate the original loader")
	}
}

func TestLoaderLoadDirectory(t *testing.T) {
	loader := newTestLoader(t, true)

	result, err := loader.LoadDirectory(context.Background(), "recipes", LoadParams{})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(result.Documents) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(result.Documents))
	}

	paths := []string{"recipes/drinks/lemonade.md", "recipes/es/agua.md", "recipes/water.md"}
	for i, doc := range result.Documents {
		if doc.Path != paths[i] {
			t.Fatalf("expected %s at %d, got %s", paths[i], i, doc.Path)
		}
	}
}

func TestLoaderLoadDirectory_LocaleFromDirectory(t *testing.T) {
	loader := NewLoader(os.DirFS("testdata/recipes"), Config{
		DefaultLocale: "en",
		Locales:       []string{"en", "es"},
		Recursive:     true,
	}, nil)

	doc, err := loader.LoadFile(context.Background(), "es/agua.md")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if doc.Locale != "es" {
		t.Fatalf("expected es locale, got %q", doc.Locale)
	}
}

func TestLoaderLoadDirectory_NonRecursiveOverride(t *testing.T) {
	loader := newTestLoader(t, true)

	no := false
	result, err := loader.LoadDirectory(context.Background(), "recipes", LoadParams{Recursive: &no})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(result.Documents) != 1 || result.Documents[0].Path != "recipes/water.md" {
		t.Fatalf("expected only recipes/water.md, got %#v", result.Documents)
	}
}

func TestLoaderLoadDirectory_PatternOverride(t *testing.T) {
	loader := newTestLoader(t, true)

	result, err := loader.LoadDirectory(context.Background(), "recipes", LoadParams{Pattern: "lemon*.md"})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(result.Documents) != 1 || result.Documents[0].Slug != "lemonade" {
		t.Fatalf("expected only lemonade, got %#v", result.Documents)
	}
}

func TestLoaderLoadDirectory_FailFast(t *testing.T) {
	loader := newTestLoader(t, true)

	_, err := loader.LoadDirectory(context.Background(), "broken", LoadParams{})
	if err == nil {
		t.Fatalf("expected parse failure")
	}
	if !errors.Is(err, parser.ErrExpectedHorizontalLine) {
		t.Fatalf("expected horizontal line error, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}

	var gerr *goerrors.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected go-errors error, got %T", err)
	}
	if gerr.TextCode != "RECIPE_EXPECTED_HORIZONTAL_LINE" {
		t.Fatalf("unexpected text code %q", gerr.TextCode)
	}
	if gerr.Metadata["path"] != "broken/missing-divider.md" {
		t.Fatalf("unexpected path metadata %#v", gerr.Metadata)
	}
}

func TestLoaderLoadDirectory_ContinueOnError(t *testing.T) {
	loader := newTestLoader(t, true)

	yes := true
	result, err := loader.LoadDirectory(context.Background(), "broken", LoadParams{ContinueOnError: &yes})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(result.Documents) != 1 || result.Documents[0].Slug != "toast" {
		t.Fatalf("expected toast document, got %#v", result.Documents)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(result.Failures))
	}
	if result.Failures[0].Path != "broken/missing-divider.md" {
		t.Fatalf("unexpected failure path %q", result.Failures[0].Path)
	}
	if _, _, ok := Location(result.Failures[0].Err); !ok {
		t.Fatalf("expected location on failure")
	}
}

func TestLoaderLoadDirectory_Cancelled(t *testing.T) {
	loader := newTestLoader(t, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := loader.LoadDirectory(ctx, "recipes", LoadParams{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestLoaderMakeRelative(t *testing.T) {
	loader := NewLoader(os.DirFS("testdata"), Config{BasePath: "/srv/recipes"}, nil)

	rel, err := loader.makeRelative("/srv/recipes/water.md")
	if err != nil || rel != "water.md" {
		t.Fatalf("expected water.md, got %q (%v)", rel, err)
	}
	if _, err := loader.makeRelative("/etc/passwd"); !errors.Is(err, ErrPathOutsideBase) {
		t.Fatalf("expected outside base error, got %v", err)
	}
}

func TestValidPattern(t *testing.T) {
	if !ValidPattern("**/*.md") {
		t.Fatalf("expected recursive glob to be valid")
	}
	if ValidPattern("[") {
		t.Fatalf("expected malformed glob to be rejected")
	}
}
