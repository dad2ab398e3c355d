package logging

import (
	"context"
	"strings"

	"github.com/namaewanam/notes/pkg/interfaces"
)

const (
	rootModule    = "notes"
	contentModule = "notes.content"
	exportModule  = "notes.export"
	searchModule  = "notes.search"
	watchModule   = "notes.watch"
	httpModule    = "notes.http"
	viewsModule   = "notes.views"
)

const (
	fieldCategory = "category"
	fieldPath     = "path"
	fieldAction   = "action"
)

// ModuleLogger returns a logger scoped to module. A nil provider yields a
// no-op logger so services can run with logging disabled.
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

// ContentLogger returns the logger used by the indexer and query surface.
func ContentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, contentModule)
}

// ExportLogger returns the logger used by snapshot exports.
func ExportLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, exportModule)
}

// SearchLogger returns the logger used by snapshot search.
func SearchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, searchModule)
}

// WatchLogger returns the logger used by the content watcher.
func WatchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, watchModule)
}

// HTTPLogger returns the logger used by the JSON API.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// ViewsLogger returns the logger used by view-count repositories.
func ViewsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, viewsModule)
}

// WithContentContext adds category, path and action fields, skipping blanks.
func WithContentContext(logger interfaces.Logger, category, path, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(category); trimmed != "" {
		fields[fieldCategory] = trimmed
	}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldPath] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldAction] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
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
