package recipemd

import (
	"context"

	"github.com/goliatone/go-recipemd/internal/catalog"
	recipecmd "github.com/goliatone/go-recipemd/internal/commands/recipes"
	"github.com/goliatone/go-recipemd/internal/di"
	"github.com/goliatone/go-recipemd/internal/library"
	"github.com/goliatone/go-recipemd/internal/logging"
	"github.com/goliatone/go-recipemd/internal/model"
	"github.com/goliatone/go-recipemd/internal/parser"
	"github.com/goliatone/go-recipemd/internal/render"
	"github.com/goliatone/go-recipemd/pkg/interfaces"
)

// Recipe model.
type (
	Recipe          = model.Recipe
	IngredientGroup = model.IngredientGroup
	Ingredient      = model.Ingredient
	Amount          = model.Amount
	Factor          = model.Factor
	FactorKind      = model.FactorKind
)

const (
	FactorInteger  = model.FactorInteger
	FactorFraction = model.FactorFraction
	FactorFloat    = model.FactorFloat
)

// Parse errors.
type (
	ParseError     = parser.Error
	ParseErrorKind = parser.ErrorKind
	ParseOption    = parser.Option
)

const (
	ErrExpectedTitle               = parser.ErrExpectedTitle
	ErrExpectedHorizontalLine      = parser.ErrExpectedHorizontalLine
	ErrMultipleTagsSections        = parser.ErrMultipleTagsSections
	ErrMultipleYieldsSections      = parser.ErrMultipleYieldsSections
	ErrMultipleDescriptionSections = parser.ErrMultipleDescriptionSections
	ErrEmptyIngredient             = parser.ErrEmptyIngredient
	ErrEmptyIngredientGroup        = parser.ErrEmptyIngredientGroup
)

// Services exposed by Module.
type (
	Document        = library.Document
	Loader          = library.Loader
	CatalogEntry    = catalog.Entry
	Repository      = catalog.Repository
	Importer        = catalog.Importer
	ImportOptions   = catalog.ImportOptions
	ImportResult    = catalog.ImportResult
	Renderer        = render.Renderer
	CommandHandlers = recipecmd.HandlerSet
	LoggerProvider  = interfaces.LoggerProvider
)

// Parse converts a RecipeMD document into a Recipe.
func Parse(src string, opts ...ParseOption) (*Recipe, error) {
	return parser.Parse(src, opts...)
}

// ParseBytes is Parse for byte input.
func ParseBytes(src []byte, opts ...ParseOption) (*Recipe, error) {
	return parser.ParseBytes(src, opts...)
}

// WithExtensions enables goldmark extensions while parsing.
func WithExtensions(names ...string) ParseOption {
	return parser.WithExtensions(names...)
}

// Position converts a byte offset in src to a 1-based line and column.
func Position(src string, offset int) (line, column int) {
	return parser.Position(src, offset)
}

// Module is the top level runtime facade.
type Module struct {
	container *di.Container
}

// Option customises module wiring.
type Option = di.Option

var (
	WithLoggerProvider  = di.WithLoggerProvider
	WithLibraryFS       = di.WithLibraryFS
	WithRepository      = di.WithRepository
	WithCommandRegistry = di.WithCommandRegistry
)

// ContextWithLogFields annotates ctx with fields that command handlers add
// to their log entries.
func ContextWithLogFields(ctx context.Context, fields map[string]any) context.Context {
	return logging.ContextWithFields(ctx, fields)
}

// New constructs a module from cfg. Call Close when done.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

func (m *Module) Loader() *Loader {
	return m.container.Loader()
}

func (m *Module) Catalog() Repository {
	return m.container.Repository()
}

func (m *Module) Importer() *Importer {
	return m.container.Importer()
}

func (m *Module) Renderer() *Renderer {
	return m.container.Renderer()
}

func (m *Module) Commands() *CommandHandlers {
	return m.container.Commands()
}

// LoadFile parses one recipe file from the configured library.
func (m *Module) LoadFile(ctx context.Context, path string) (*Document, error) {
	return m.container.Loader().LoadFile(ctx, path)
}

// Import loads dir from the library into the catalog.
func (m *Module) Import(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error) {
	return m.container.Importer().ImportDirectory(ctx, dir, opts)
}

// Close releases storage resources.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
