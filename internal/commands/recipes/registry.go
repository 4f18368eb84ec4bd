package recipecmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-recipemd/internal/commands"
	"github.com/goliatone/go-recipemd/pkg/interfaces"
)

// HandlerSet groups the handlers produced by RegisterRecipeCommands.
type HandlerSet struct {
	Import *ImportDirectoryHandler
	Sync   *SyncDirectoryHandler
	Parse  *ParseFileHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	importHandlerOpts []commands.HandlerOption[ImportDirectoryCommand]
	syncHandlerOpts   []commands.HandlerOption[SyncDirectoryCommand]
	parseHandlerOpts  []commands.HandlerOption[ParseFileCommand]
}

// WithImportHandlerOptions forwards options to the ImportDirectoryHandler constructor.
func WithImportHandlerOptions(opts ...commands.HandlerOption[ImportDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.importHandlerOpts = append(cfg.importHandlerOpts, opts...)
	}
}

// WithSyncHandlerOptions forwards options to the SyncDirectoryHandler constructor.
func WithSyncHandlerOptions(opts ...commands.HandlerOption[SyncDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.syncHandlerOpts = append(cfg.syncHandlerOpts, opts...)
	}
}

// WithParseHandlerOptions forwards options to the ParseFileHandler constructor.
func WithParseHandlerOptions(opts ...commands.HandlerOption[ParseFileCommand]) Option {
	return func(cfg *options) {
		cfg.parseHandlerOpts = append(cfg.parseHandlerOpts, opts...)
	}
}

// RegisterRecipeCommands builds the recipe handlers and registers them with
// reg when it is non-nil.
func RegisterRecipeCommands(reg commands.CommandRegistry, service ImportService, loader FileLoader, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("recipe command registration: import service is nil")
	}
	if loader == nil {
		return nil, errors.New("recipe command registration: loader is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "recipes")
	set := &HandlerSet{
		Import: NewImportDirectoryHandler(service, logger, cfg.importHandlerOpts...),
		Sync:   NewSyncDirectoryHandler(service, logger, cfg.syncHandlerOpts...),
		Parse:  NewParseFileHandler(loader, logger, cfg.parseHandlerOpts...),
	}

	if reg != nil {
		for _, handler := range []any{set.Import, set.Sync, set.Parse} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

// RegisterRecipeCron schedules msg on reg. The handler runs with a background context.
func RegisterRecipeCron(reg commands.CronRegistrar, handler *SyncDirectoryHandler, cfg command.HandlerConfig, msg SyncDirectoryCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
