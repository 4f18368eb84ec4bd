package di

import (
	"context"
	"os"
	"testing"

	"github.com/goliatone/go-recipemd/internal/catalog"
	recipecmd "github.com/goliatone/go-recipemd/internal/commands/recipes"
	"github.com/goliatone/go-recipemd/internal/commands/fixtures"
	"github.com/goliatone/go-recipemd/internal/logging/gologger"
	"github.com/goliatone/go-recipemd/internal/runtimeconfig"
)

func testConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Library.Dir = "../library/testdata"
	return cfg
}

func TestNewContainerDefaults(t *testing.T) {
	container, err := NewContainer(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.LoggerProvider() != nil {
		t.Fatalf("expected logging to be off by default")
	}
	if _, ok := container.Repository().(*catalog.MemoryRepository); !ok {
		t.Fatalf("expected memory repository, got %T", container.Repository())
	}
	if container.Loader() == nil || container.Importer() == nil || container.Renderer() == nil {
		t.Fatal("expected services to be built")
	}
	set := container.Commands()
	if set == nil || set.Import == nil || set.Sync == nil || set.Parse == nil {
		t.Fatalf("expected command handlers, got %#v", set)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Driver = "mongo"
	if _, err := NewContainer(context.Background(), cfg); err == nil {
		t.Fatal("expected invalid driver to fail")
	}
}

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := testConfig()
	cfg.Logging.Provider = runtimeconfig.LoggingGoLogger
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container, err := NewContainer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	provider, ok := container.LoggerProvider().(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", container.LoggerProvider())
	}
	if provider.GetLogger("recipemd.test") == nil {
		t.Fatal("expected logger from go-logger provider")
	}
}

func TestContainerImportsThroughCommands(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()
	container, err := NewContainer(context.Background(), testConfig(),
		WithLibraryFS(os.DirFS("../library/testdata")),
		WithCommandRegistry(reg),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if len(reg.Handlers) != 3 {
		t.Fatalf("expected handlers registered, got %d", len(reg.Handlers))
	}

	var result catalog.ImportResult
	err = container.Commands().Import.Execute(context.Background(), recipecmd.ImportDirectoryCommand{
		Directory: "recipes",
		Result:    &result,
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(result.Created) != 3 {
		t.Fatalf("expected 3 created recipes, got %v", result.Created)
	}
	if _, err := container.Repository().Get(context.Background(), "lemonade"); err != nil {
		t.Fatalf("expected lemonade in catalog: %v", err)
	}
}

func TestContainerSQLiteStorage(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Driver = runtimeconfig.DriverSQLite
	cfg.Storage.DSN = "file:di_container?mode=memory&cache=shared"
	cfg.Storage.Cache.Enabled = true

	container, err := NewContainer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if _, ok := container.Repository().(*catalog.MemoryRepository); ok {
		t.Fatal("expected sql repository")
	}
}
