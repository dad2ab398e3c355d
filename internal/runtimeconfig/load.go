package runtimeconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces the environment overrides, e.g. NOTES_CONTENT_DIR.
const EnvPrefix = "NOTES_"

// Load builds a Config from defaults, an optional YAML file and NOTES_*
// environment variables, in that order of precedence. An empty path or a
// missing file leaves the defaults in place.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if err := cfg.loadYAML(path); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (cfg *Config) loadYAML(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	// yaml.v3 leaves fields absent from the document untouched, so the
	// defaults survive a partial file.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func (cfg *Config) applyEnv(lookup lookupFunc) error {
	strs := map[string]*string{
		"CONTENT_DIR":          &cfg.Content.Dir,
		"CONTENT_EXTENSION":    &cfg.Content.Extension,
		"EXPORT_OUTPUT_PATH":   &cfg.Export.OutputPath,
		"EXPORT_BASE_URL":      &cfg.Export.BaseURL,
		"SEARCH_SNAPSHOT_PATH": &cfg.Search.SnapshotPath,
		"SERVER_ADDR":          &cfg.Server.Addr,
		"VIEWS_PROVIDER":       &cfg.Views.Provider,
		"VIEWS_DSN":            &cfg.Views.DSN,
		"LOG_PROVIDER":         &cfg.Logging.Provider,
		"LOG_LEVEL":            &cfg.Logging.Level,
		"LOG_FORMAT":           &cfg.Logging.Format,
	}
	for key, target := range strs {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*target = v
		}
	}

	bools := map[string]*bool{
		"EXPORT_MANIFEST": &cfg.Export.Manifest,
		"EXPORT_SITEMAP":  &cfg.Export.Sitemap,
		"CACHE_ENABLED":   &cfg.Cache.Enabled,
		"WATCH_ENABLED":   &cfg.Watch.Enabled,
	}
	for key, target := range bools {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("env %s%s: %w", EnvPrefix, key, err)
		}
		*target = parsed
	}

	ints := map[string]*int{
		"SEARCH_MIN_QUERY_LENGTH": &cfg.Search.MinQueryLength,
		"SEARCH_LIMIT":            &cfg.Search.Limit,
		"CACHE_SIZE":              &cfg.Cache.Size,
	}
	for key, target := range ints {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("env %s%s: %w", EnvPrefix, key, err)
		}
		*target = parsed
	}

	if v, ok := lookup(EnvPrefix + "WATCH_DEBOUNCE"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("env %sWATCH_DEBOUNCE: %w", EnvPrefix, err)
		}
		cfg.Watch.Debounce = d
	}
	return nil
}
