package runtimeconfig

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-recipemd/internal/markup"
)

var ErrParserExtensionUnknown = errors.New("recipemd config: parser extension is not supported")
var ErrLibraryPatternInvalid = errors.New("recipemd config: library pattern is not a valid glob")
var ErrStorageDriverUnknown = errors.New("recipemd config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("recipemd config: storage dsn is required for sql drivers")
var ErrCacheTTLInvalid = errors.New("recipemd config: cache ttl must be positive when the cache is enabled")
var ErrLoggingProviderUnknown = errors.New("recipemd config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("recipemd config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("recipemd config: logging format is invalid")
var ErrCommandTimeoutInvalid = errors.New("recipemd config: command timeout must be zero or positive")

// Storage drivers understood by the catalog.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Logging providers.
const (
	LoggingNone     = "none"
	LoggingGoLogger = "gologger"
)

// Config is the top level runtime configuration.
type Config struct {
	Parser   ParserConfig
	Library  LibraryConfig
	Storage  StorageConfig
	Render   RenderConfig
	Commands CommandsConfig
	Logging  LoggingConfig
}

// ParserConfig selects goldmark extensions used while parsing recipes.
type ParserConfig struct {
	Extensions []string
}

// LibraryConfig describes where recipe documents live.
type LibraryConfig struct {
	Dir             string
	Pattern         string
	Recursive       bool
	DefaultLocale   string
	// Locales names first-level directories that select a locale.
	Locales         []string
	ContinueOnError bool
}

// StorageConfig selects the catalog backend.
type StorageConfig struct {
	Driver string
	DSN    string
	Cache  CacheConfig
}

// CacheConfig toggles the read-through cache in front of SQL repositories.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// RenderConfig controls HTML rendering of descriptions and instructions.
type RenderConfig struct {
	HardWraps bool
	Unsafe    bool
	XHTML     bool
}

// CommandsConfig applies to every command handler.
type CommandsConfig struct {
	Timeout time.Duration
}

type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns a memory backed configuration reading *.md files
// from ./recipes.
func DefaultConfig() Config {
	return Config{
		Library: LibraryConfig{
			Dir:           "recipes",
			Pattern:       "*.md",
			Recursive:     true,
			DefaultLocale: "en",
		},
		Storage: StorageConfig{
			Driver: DriverMemory,
			Cache: CacheConfig{
				TTL: time.Minute,
			},
		},
		Commands: CommandsConfig{
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: LoggingNone,
			Level:    "info",
		},
	}
}

// Validate performs consistency checks and returns the first problem found.
func (cfg Config) Validate() error {
	for _, ext := range cfg.Parser.Extensions {
		if !markup.IsSupportedExtension(ext) {
			return fmt.Errorf("%w: %s", ErrParserExtensionUnknown, ext)
		}
	}
	if pattern := strings.TrimSpace(cfg.Library.Pattern); pattern != "" {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("%w: %s", ErrLibraryPatternInvalid, pattern)
		}
	}

	switch driver := NormalizeDriver(cfg.Storage.Driver); driver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, driver)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if cfg.Storage.Cache.Enabled && cfg.Storage.Cache.TTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Commands.Timeout < 0 {
		return ErrCommandTimeoutInvalid
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == LoggingGoLogger {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// NormalizeDriver lowercases the driver name and maps common aliases. An
// empty driver means memory.
func NormalizeDriver(driver string) string {
	switch d := strings.ToLower(strings.TrimSpace(driver)); d {
	case "":
		return DriverMemory
	case "sqlite3":
		return DriverSQLite
	case "postgresql", "pg":
		return DriverPostgres
	default:
		return d
	}
}

func normalizeProvider(provider string) string {
	if p := strings.ToLower(strings.TrimSpace(provider)); p != "" {
		return p
	}
	return LoggingNone
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case LoggingNone, LoggingGoLogger:
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
