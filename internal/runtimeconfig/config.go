package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrContentDirRequired = errors.New("notes config: content directory is required")
var ErrContentExtensionInvalid = errors.New("notes config: content extension must start with a dot")
var ErrExportOutputRequired = errors.New("notes config: export output path is required")
var ErrExportBaseURLRequired = errors.New("notes config: export base url is required when sitemap is enabled")
var ErrSearchLimitInvalid = errors.New("notes config: search limit must be positive")
var ErrSearchMinQueryInvalid = errors.New("notes config: search min query length must be positive")

// ErrCacheSizeInvalid guards the bounded LRU used by the cached content source.
var ErrCacheSizeInvalid = errors.New("notes config: cache size must be positive when cache is enabled")

// ErrWatchRequiresCache keeps the watcher from running with nothing to invalidate.
var ErrWatchRequiresCache = errors.New("notes config: watch requires the cache to be enabled")
var ErrWatchDebounceInvalid = errors.New("notes config: watch debounce must be zero or positive")
var ErrServerAddrRequired = errors.New("notes config: server address is required")
var ErrViewsProviderUnknown = errors.New("notes config: views provider is invalid")
var ErrViewsDSNRequired = errors.New("notes config: views dsn is required for the sqlite provider")
var ErrLoggingProviderRequired = errors.New("notes config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("notes config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("notes config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("notes config: logging format is invalid")

// Config aggregates every runtime knob of the notes engine. The yaml tags
// define the on-disk configuration file layout.
type Config struct {
	Content ContentConfig `yaml:"content"`
	Export  ExportConfig  `yaml:"export"`
	Search  SearchConfig  `yaml:"search"`
	Cache   CacheConfig   `yaml:"cache"`
	Watch   WatchConfig   `yaml:"watch"`
	Server  ServerConfig  `yaml:"server"`
	Views   ViewsConfig   `yaml:"views"`
	Logging LoggingConfig `yaml:"logging"`
}

// ContentConfig points the indexer at the docs tree.
type ContentConfig struct {
	Dir       string `yaml:"dir"`
	Extension string `yaml:"extension"`
}

// ExportConfig captures snapshot generation behaviour.
type ExportConfig struct {
	OutputPath string `yaml:"output_path"`
	Manifest   bool   `yaml:"manifest"`
	Sitemap    bool   `yaml:"sitemap"`
	BaseURL    string `yaml:"base_url"`
}

type SearchConfig struct {
	SnapshotPath   string `yaml:"snapshot_path"`
	MinQueryLength int    `yaml:"min_query_length"`
	Limit          int    `yaml:"limit"`
}

// CacheConfig toggles memoised category walks.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ViewsConfig selects the view-count store. Provider is memory or sqlite.
type ViewsConfig struct {
	Provider string `yaml:"provider"`
	DSN      string `yaml:"dsn"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns defaults that index ./docs and export to public/posts.json.
func DefaultConfig() Config {
	return Config{
		Content: ContentConfig{
			Dir:       "docs",
			Extension: ".md",
		},
		Export: ExportConfig{
			OutputPath: "public/posts.json",
			Manifest:   true,
		},
		Search: SearchConfig{
			SnapshotPath:   "public/posts.json",
			MinQueryLength: 2,
			Limit:          10,
		},
		Cache: CacheConfig{
			Size: 64,
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Views: ViewsConfig{
			Provider: "memory",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if ext := strings.TrimSpace(cfg.Content.Extension); ext != "" && !strings.HasPrefix(ext, ".") {
		return fmt.Errorf("%w: %s", ErrContentExtensionInvalid, ext)
	}
	if strings.TrimSpace(cfg.Export.OutputPath) == "" {
		return ErrExportOutputRequired
	}
	if cfg.Export.Sitemap && strings.TrimSpace(cfg.Export.BaseURL) == "" {
		return ErrExportBaseURLRequired
	}
	if cfg.Search.Limit <= 0 {
		return ErrSearchLimitInvalid
	}
	if cfg.Search.MinQueryLength <= 0 {
		return ErrSearchMinQueryInvalid
	}
	if cfg.Cache.Enabled && cfg.Cache.Size <= 0 {
		return ErrCacheSizeInvalid
	}
	if cfg.Watch.Enabled && !cfg.Cache.Enabled {
		return ErrWatchRequiresCache
	}
	if cfg.Watch.Debounce < 0 {
		return ErrWatchDebounceInvalid
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return ErrServerAddrRequired
	}

	switch provider := normalize(cfg.Views.Provider); provider {
	case "", "memory":
	case "sqlite":
		if strings.TrimSpace(cfg.Views.DSN) == "" {
			return ErrViewsDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrViewsProviderUnknown, provider)
	}

	provider := normalize(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
