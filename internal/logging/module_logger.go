package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-recipemd/pkg/interfaces"
)

const (
	rootModule     = "recipemd"
	parserModule   = "recipemd.parser"
	libraryModule  = "recipemd.library"
	catalogModule  = "recipemd.catalog"
	commandsModule = "recipemd.commands"
)

const (
	fieldRecipePath = "recipe_path"
	fieldRecipeSlug = "slug"
	fieldAction     = "action"
)

// ModuleLogger returns a logger scoped to module, falling back to a no-op
// logger when provider is nil. The module name is attached as a field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ParserLogger returns the logger for parse outcomes reported by the loader.
func ParserLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, parserModule)
}

// LibraryLogger returns the logger for recipe directory loading.
func LibraryLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, libraryModule)
}

// CatalogLogger returns the logger for catalog repositories.
func CatalogLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, catalogModule)
}

// CommandsLogger returns the logger for a group of command handlers. An
// empty group selects the commands root module.
func CommandsLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	module := commandsModule
	if group = strings.TrimSpace(group); group != "" {
		module += "." + group
	}
	return ModuleLogger(provider, module)
}

// WithRecipeContext adds the recipe path, slug and action fields. Empty
// values are skipped.
func WithRecipeContext(logger interfaces.Logger, path, slug, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldRecipePath] = trimmed
	}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields[fieldRecipeSlug] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldAction] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
