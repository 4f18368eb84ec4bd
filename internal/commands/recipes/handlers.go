package recipecmd

import (
	"context"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-recipemd/internal/catalog"
	"github.com/goliatone/go-recipemd/internal/commands"
	"github.com/goliatone/go-recipemd/internal/library"
	"github.com/goliatone/go-recipemd/internal/logging"
	"github.com/goliatone/go-recipemd/internal/validation"
	"github.com/goliatone/go-recipemd/pkg/interfaces"
)

const (
	importOperation = "recipes.import_directory"
	syncOperation   = "recipes.sync_directory"
	parseOperation  = "recipes.parse_file"

	textCodeSchemaInvalid = "RECIPE_SCHEMA_INVALID"
)

var (
	_ command.Commander[ImportDirectoryCommand] = (*ImportDirectoryHandler)(nil)
	_ command.Commander[SyncDirectoryCommand]   = (*SyncDirectoryHandler)(nil)
	_ command.Commander[ParseFileCommand]       = (*ParseFileHandler)(nil)
)

// ImportService is satisfied by *catalog.Importer.
type ImportService interface {
	ImportDirectory(ctx context.Context, dir string, opts catalog.ImportOptions) (*catalog.ImportResult, error)
}

// FileLoader is satisfied by *library.Loader.
type FileLoader interface {
	LoadFile(ctx context.Context, path string) (*library.Document, error)
}

// ImportDirectoryHandler runs directory imports through the shared command handler.
type ImportDirectoryHandler struct {
	inner *commands.Handler[ImportDirectoryCommand]
}

// NewImportDirectoryHandler creates a handler bound to service.
func NewImportDirectoryHandler(service ImportService, logger interfaces.Logger, opts ...commands.HandlerOption[ImportDirectoryCommand]) *ImportDirectoryHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ImportDirectoryCommand) error {
		result, err := service.ImportDirectory(ctx, msg.Directory, catalog.ImportOptions{
			Pattern:         msg.Pattern,
			Recursive:       msg.Recursive,
			ContinueOnError: msg.ContinueOnError,
			DryRun:          msg.DryRun,
		})
		if err != nil {
			return err
		}
		logImportResult(baseLogger, "recipes.command.import_directory.completed", result, msg.DryRun)
		if msg.Result != nil && result != nil {
			*msg.Result = *result
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportDirectoryCommand]{
		commands.WithLogger[ImportDirectoryCommand](baseLogger),
		commands.WithOperation[ImportDirectoryCommand](importOperation),
		commands.WithMessageFields(func(msg ImportDirectoryCommand) map[string]any {
			return directoryFields(msg.Directory, msg.Pattern, msg.DryRun)
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportDirectoryHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ImportDirectoryCommand].
func (h *ImportDirectoryHandler) Execute(ctx context.Context, msg ImportDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SyncDirectoryHandler imports a directory and prunes orphaned entries.
type SyncDirectoryHandler struct {
	inner *commands.Handler[SyncDirectoryCommand]
}

// NewSyncDirectoryHandler creates a handler bound to service.
func NewSyncDirectoryHandler(service ImportService, logger interfaces.Logger, opts ...commands.HandlerOption[SyncDirectoryCommand]) *SyncDirectoryHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg SyncDirectoryCommand) error {
		result, err := service.ImportDirectory(ctx, msg.Directory, catalog.ImportOptions{
			Pattern:         msg.Pattern,
			Recursive:       msg.Recursive,
			ContinueOnError: msg.ContinueOnError,
			DryRun:          msg.DryRun,
			DeleteOrphaned:  msg.DeleteOrphaned,
		})
		if err != nil {
			return err
		}
		logImportResult(baseLogger, "recipes.command.sync_directory.completed", result, msg.DryRun)
		if msg.Result != nil && result != nil {
			*msg.Result = *result
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SyncDirectoryCommand]{
		commands.WithLogger[SyncDirectoryCommand](baseLogger),
		commands.WithOperation[SyncDirectoryCommand](syncOperation),
		commands.WithMessageFields(func(msg SyncDirectoryCommand) map[string]any {
			fields := directoryFields(msg.Directory, msg.Pattern, msg.DryRun)
			if msg.DeleteOrphaned {
				fields["delete_orphaned"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncDirectoryHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SyncDirectoryCommand].
func (h *SyncDirectoryHandler) Execute(ctx context.Context, msg SyncDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ParseFileHandler loads and parses a single recipe file.
type ParseFileHandler struct {
	inner *commands.Handler[ParseFileCommand]
}

// NewParseFileHandler creates a handler bound to loader.
func NewParseFileHandler(loader FileLoader, logger interfaces.Logger, opts ...commands.HandlerOption[ParseFileCommand]) *ParseFileHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ParseFileCommand) error {
		doc, err := loader.LoadFile(ctx, msg.Path)
		if err != nil {
			return err
		}
		if msg.CheckSchema {
			if err := validation.ValidateRecipe(doc.Recipe); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryValidation, "recipe does not match schema").
					WithTextCode(textCodeSchemaInvalid).
					WithMetadata(map[string]any{
						"path":   doc.Path,
						"issues": validation.Issues(err),
					})
			}
		}
		if msg.Result != nil {
			*msg.Result = *doc
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ParseFileCommand]{
		commands.WithLogger[ParseFileCommand](baseLogger),
		commands.WithOperation[ParseFileCommand](parseOperation),
		commands.WithMessageFields(func(msg ParseFileCommand) map[string]any {
			fields := map[string]any{"path": msg.Path}
			if msg.CheckSchema {
				fields["check_schema"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ParseFileCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ParseFileHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ParseFileCommand].
func (h *ParseFileHandler) Execute(ctx context.Context, msg ParseFileCommand) error {
	return h.inner.Execute(ctx, msg)
}

func directoryFields(dir, pattern string, dryRun bool) map[string]any {
	fields := map[string]any{"directory": dir}
	if pattern != "" {
		fields["pattern"] = pattern
	}
	if dryRun {
		fields["dry_run"] = true
	}
	return fields
}

func logImportResult(logger interfaces.Logger, msg string, result *catalog.ImportResult, dryRun bool) {
	if result == nil {
		return
	}
	logging.WithFields(logger, map[string]any{
		"created_count":   len(result.Created),
		"updated_count":   len(result.Updated),
		"unchanged_count": len(result.Unchanged),
		"deleted_count":   len(result.Deleted),
		"failure_count":   len(result.Failures),
		"dry_run":         dryRun,
	}).Info(msg)
}
