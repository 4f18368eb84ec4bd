package recipemd

import "github.com/goliatone/go-recipemd/internal/runtimeconfig"

var (
	ErrParserExtensionUnknown = runtimeconfig.ErrParserExtensionUnknown
	ErrLibraryPatternInvalid  = runtimeconfig.ErrLibraryPatternInvalid
	ErrStorageDriverUnknown   = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired     = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid        = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrCommandTimeoutInvalid  = runtimeconfig.ErrCommandTimeoutInvalid
)

type (
	Config         = runtimeconfig.Config
	ParserConfig   = runtimeconfig.ParserConfig
	LibraryConfig  = runtimeconfig.LibraryConfig
	StorageConfig  = runtimeconfig.StorageConfig
	CacheConfig    = runtimeconfig.CacheConfig
	RenderConfig   = runtimeconfig.RenderConfig
	CommandsConfig = runtimeconfig.CommandsConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
)

const (
	DriverMemory   = runtimeconfig.DriverMemory
	DriverSQLite   = runtimeconfig.DriverSQLite
	DriverPostgres = runtimeconfig.DriverPostgres
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
