package notes

import "github.com/namaewanam/notes/internal/runtimeconfig"

var (
	ErrContentDirRequired      = runtimeconfig.ErrContentDirRequired
	ErrContentExtensionInvalid = runtimeconfig.ErrContentExtensionInvalid
	ErrExportOutputRequired    = runtimeconfig.ErrExportOutputRequired
	ErrExportBaseURLRequired   = runtimeconfig.ErrExportBaseURLRequired
	ErrSearchLimitInvalid      = runtimeconfig.ErrSearchLimitInvalid
	ErrSearchMinQueryInvalid   = runtimeconfig.ErrSearchMinQueryInvalid
	ErrCacheSizeInvalid        = runtimeconfig.ErrCacheSizeInvalid
	ErrWatchRequiresCache      = runtimeconfig.ErrWatchRequiresCache
	ErrWatchDebounceInvalid    = runtimeconfig.ErrWatchDebounceInvalid
	ErrServerAddrRequired      = runtimeconfig.ErrServerAddrRequired
	ErrViewsProviderUnknown    = runtimeconfig.ErrViewsProviderUnknown
	ErrViewsDSNRequired        = runtimeconfig.ErrViewsDSNRequired
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config        = runtimeconfig.Config
	ContentConfig = runtimeconfig.ContentConfig
	ExportConfig  = runtimeconfig.ExportConfig
	SearchConfig  = runtimeconfig.SearchConfig
	CacheConfig   = runtimeconfig.CacheConfig
	WatchConfig   = runtimeconfig.WatchConfig
	ServerConfig  = runtimeconfig.ServerConfig
	ViewsConfig   = runtimeconfig.ViewsConfig
	LoggingConfig = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads defaults, an optional YAML file and NOTES_* overrides.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
