package di

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-recipemd/internal/catalog"
	"github.com/goliatone/go-recipemd/internal/commands"
	recipecmd "github.com/goliatone/go-recipemd/internal/commands/recipes"
	"github.com/goliatone/go-recipemd/internal/library"
	"github.com/goliatone/go-recipemd/internal/logging"
	"github.com/goliatone/go-recipemd/internal/logging/gologger"
	"github.com/goliatone/go-recipemd/internal/render"
	"github.com/goliatone/go-recipemd/internal/runtimeconfig"
	"github.com/goliatone/go-recipemd/pkg/interfaces"
)

// Container wires the recipe services from one runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	libraryFS      fs.FS
	registry       commands.CommandRegistry

	repo     catalog.Repository
	store    *catalog.Store
	loader   *library.Loader
	importer *catalog.Importer
	renderer *render.Renderer
	handlers *recipecmd.HandlerSet
}

// Option mutates the container before services are built.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithLibraryFS reads recipes from fsys instead of Config.Library.Dir.
func WithLibraryFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.libraryFS = fsys
	}
}

// WithRepository replaces the catalog repository built from Config.Storage.
func WithRepository(repo catalog.Repository) Option {
	return func(c *Container) {
		c.repo = repo
	}
}

// WithCommandRegistry registers the recipe command handlers with reg.
func WithCommandRegistry(reg commands.CommandRegistry) Option {
	return func(c *Container) {
		c.registry = reg
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureLoader()
	if err := c.configureStorage(ctx); err != nil {
		return nil, err
	}
	c.importer = catalog.NewImporter(catalog.ImporterConfig{
		Loader:     c.loader,
		Repository: c.repo,
		Logger:     logging.CatalogLogger(c.loggerProvider),
	})
	c.renderer = render.New(render.Options{
		Extensions: cfg.Parser.Extensions,
		HardWraps:  cfg.Render.HardWraps,
		Unsafe:     cfg.Render.Unsafe,
		XHTML:      cfg.Render.XHTML,
	})
	if err := c.configureCommands(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	if strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) != runtimeconfig.LoggingGoLogger {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureLoader() {
	lib := c.Config.Library
	base := lib.Dir
	if strings.TrimSpace(base) == "" {
		base = "."
	}
	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}
	fsys := c.libraryFS
	if fsys == nil {
		fsys = os.DirFS(base)
	}
	c.loader = library.NewLoader(fsys, library.Config{
		BasePath:        base,
		DefaultLocale:   lib.DefaultLocale,
		Locales:         lib.Locales,
		Pattern:         lib.Pattern,
		Recursive:       lib.Recursive,
		ContinueOnError: lib.ContinueOnError,
		Extensions:      c.Config.Parser.Extensions,
	}, logging.LibraryLogger(c.loggerProvider)).
		WithParseLogger(logging.ParserLogger(c.loggerProvider))
}

func (c *Container) configureStorage(ctx context.Context) error {
	if c.repo != nil {
		return nil
	}
	store, err := catalog.NewStore(ctx, c.Config.Storage)
	if err != nil {
		return err
	}
	c.store = store
	c.repo = store.Repository
	return nil
}

func (c *Container) configureCommands() error {
	set, err := recipecmd.RegisterRecipeCommands(c.registry, c.importer, c.loader, c.loggerProvider,
		recipecmd.WithImportHandlerOptions(commands.WithTimeout[recipecmd.ImportDirectoryCommand](c.Config.Commands.Timeout)),
		recipecmd.WithSyncHandlerOptions(commands.WithTimeout[recipecmd.SyncDirectoryCommand](c.Config.Commands.Timeout)),
		recipecmd.WithParseHandlerOptions(commands.WithTimeout[recipecmd.ParseFileCommand](c.Config.Commands.Timeout)),
	)
	if err != nil {
		return err
	}
	c.handlers = set
	return nil
}

// LoggerProvider returns the configured provider, nil when logging is off.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// Loader returns the recipe file loader.
func (c *Container) Loader() *library.Loader { return c.loader }

// Repository returns the catalog repository.
func (c *Container) Repository() catalog.Repository { return c.repo }

// Importer returns the catalog importer.
func (c *Container) Importer() *catalog.Importer { return c.importer }

// Renderer returns the HTML renderer.
func (c *Container) Renderer() *render.Renderer { return c.renderer }

// Commands returns the recipe command handlers.
func (c *Container) Commands() *recipecmd.HandlerSet { return c.handlers }

// Close releases the database opened for SQL storage.
func (c *Container) Close() error {
	if c == nil || c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}
