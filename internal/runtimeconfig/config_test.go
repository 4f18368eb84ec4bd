package runtimeconfig_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-recipemd/internal/runtimeconfig"
)

func TestConfigValidate_DefaultsAreValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_RejectsUnknownExtension(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Parser.Extensions = []string{"table", "mermaid"}

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrParserExtensionUnknown) {
		t.Fatalf("expected ErrParserExtensionUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsBadPattern(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Library.Pattern = "[*.md"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLibraryPatternInvalid) {
		t.Fatalf("expected ErrLibraryPatternInvalid, got %v", err)
	}
}

func TestConfigValidate_Storage(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "SQLite3"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}

	cfg.Storage.DSN = "file:recipes.db"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected sqlite config to validate, got %v", err)
	}

	cfg.Storage.Driver = "mongo"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageDriverUnknown) {
		t.Fatalf("expected ErrStorageDriverUnknown, got %v", err)
	}
}

func TestConfigValidate_CacheTTL(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Cache.Enabled = true
	cfg.Storage.Cache.TTL = 0

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrCacheTTLInvalid) {
		t.Fatalf("expected ErrCacheTTLInvalid, got %v", err)
	}
}

func TestConfigValidate_CommandTimeout(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Commands.Timeout = -time.Second

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrCommandTimeoutInvalid) {
		t.Fatalf("expected ErrCommandTimeoutInvalid, got %v", err)
	}
}

func TestConfigValidate_Logging(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}

	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}

	cfg.Logging.Format = "pretty"
	cfg.Logging.Level = "chatty"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}

func TestNormalizeDriver(t *testing.T) {
	cases := map[string]string{
		"":           runtimeconfig.DriverMemory,
		" PG ":       runtimeconfig.DriverPostgres,
		"postgresql": runtimeconfig.DriverPostgres,
		"sqlite3":    runtimeconfig.DriverSQLite,
	}
	for in, want := range cases {
		if got := runtimeconfig.NormalizeDriver(in); got != want {
			t.Fatalf("NormalizeDriver(%q) = %q, want %q", in, got, want)
		}
	}
}
