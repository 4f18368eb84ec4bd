package recipecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-recipemd/internal/catalog"
	"github.com/goliatone/go-recipemd/internal/library"
)

const (
	importDirectoryMessageType = "recipemd.recipes.import_directory"
	syncDirectoryMessageType   = "recipemd.recipes.sync_directory"
	parseFileMessageType       = "recipemd.recipes.parse_file"
)

// ImportDirectoryCommand loads every recipe under Directory into the catalog.
type ImportDirectoryCommand struct {
	// Directory is resolved against the loader base path.
	Directory string `json:"directory"`
	// Pattern overrides the configured discovery glob.
	Pattern   string `json:"pattern,omitempty"`
	Recursive *bool  `json:"recursive,omitempty"`
	// ContinueOnError records per-file failures instead of aborting.
	ContinueOnError *bool `json:"continue_on_error,omitempty"`
	DryRun          bool  `json:"dry_run,omitempty"`

	// Result receives the import outcome when set.
	Result *catalog.ImportResult `json:"-"`
}

// Type implements command.Message.
func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(requireDirectory(importDirectoryMessageType))),
		validation.Field(&cmd.Pattern, validation.By(validPattern(importDirectoryMessageType))),
	)
}

// SyncDirectoryCommand imports Directory and removes catalog entries that no
// longer have a source file.
type SyncDirectoryCommand struct {
	Directory       string `json:"directory"`
	Pattern         string `json:"pattern,omitempty"`
	Recursive       *bool  `json:"recursive,omitempty"`
	ContinueOnError *bool  `json:"continue_on_error,omitempty"`
	DryRun          bool   `json:"dry_run,omitempty"`
	// DeleteOrphaned removes entries without a matching file when true.
	DeleteOrphaned bool `json:"delete_orphaned,omitempty"`

	Result *catalog.ImportResult `json:"-"`
}

// Type implements command.Message.
func (SyncDirectoryCommand) Type() string { return syncDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd SyncDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(requireDirectory(syncDirectoryMessageType))),
		validation.Field(&cmd.Pattern, validation.By(validPattern(syncDirectoryMessageType))),
	)
}

// ParseFileCommand parses a single recipe file.
type ParseFileCommand struct {
	Path string `json:"path"`
	// CheckSchema validates the parsed recipe against the recipe JSON schema.
	CheckSchema bool `json:"check_schema,omitempty"`

	Result *library.Document `json:"-"`
}

// Type implements command.Message.
func (ParseFileCommand) Type() string { return parseFileMessageType }

// Validate ensures a path is present.
func (cmd ParseFileCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError(parseFileMessageType+".path_required", "path is required")
			}
			return nil
		})),
	)
}

func requireDirectory(messageType string) validation.RuleFunc {
	return func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError(messageType+".directory_required", "directory is required")
		}
		return nil
	}
}

func validPattern(messageType string) validation.RuleFunc {
	return func(value any) error {
		pattern, _ := value.(string)
		if pattern == "" || library.ValidPattern(pattern) {
			return nil
		}
		return validation.NewError(messageType+".pattern_invalid", "pattern is not a valid glob")
	}
}
