// Package gologger backs the notes logging contract with
// github.com/goliatone/go-logger.
package gologger

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/namaewanam/notes/internal/logging"
	"github.com/namaewanam/notes/pkg/interfaces"
)

// ErrUnsupportedFormat is returned for an output format go-logger cannot render.
var ErrUnsupportedFormat = errors.New("gologger: unsupported format")

// Config selects the go-logger output. Format is one of json, console or pretty.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	// Focus restricts output to the named module loggers, e.g. notes.content.
	Focus []string
}

// Provider hands out module loggers derived from one go-logger root.
type Provider struct {
	root *glog.BaseLogger
}

var _ interfaces.LoggerProvider = (*Provider)(nil)

func NewProvider(cfg Config) (*Provider, error) {
	options, err := buildOptions(cfg)
	if err != nil {
		return nil, err
	}

	root := glog.NewLogger(options...)
	if focus := compact(cfg.Focus); len(focus) > 0 {
		root.Focus(focus...)
	}
	return &Provider{root: root}, nil
}

func buildOptions(cfg Config) ([]glog.Option, error) {
	var options []glog.Option
	if level, ok := levels[strings.ToLower(strings.TrimSpace(cfg.Level))]; ok {
		options = append(options, glog.WithLevel(level))
	}

	switch format := strings.ToLower(strings.TrimSpace(cfg.Format)); format {
	case "", "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, cfg.Format)
	}

	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}
	return options, nil
}

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

// GetLogger returns the root logger for an empty name.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	if name = strings.TrimSpace(name); name == "" {
		return adapt(p.root)
	}
	return adapt(p.root.GetLogger(name))
}

func adapt(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return &bridge{inner: inner}
}

type bridge struct {
	inner glog.Logger
}

var _ interfaces.FieldsLogger = (*bridge)(nil)

func (b *bridge) Trace(msg string, args ...any) { b.inner.Trace(msg, args...) }
func (b *bridge) Debug(msg string, args ...any) { b.inner.Debug(msg, args...) }
func (b *bridge) Info(msg string, args ...any)  { b.inner.Info(msg, args...) }
func (b *bridge) Warn(msg string, args ...any)  { b.inner.Warn(msg, args...) }
func (b *bridge) Error(msg string, args ...any) { b.inner.Error(msg, args...) }
func (b *bridge) Fatal(msg string, args ...any) { b.inner.Fatal(msg, args...) }

func (b *bridge) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return b
	}
	if with, ok := b.inner.(glog.FieldsLogger); ok {
		return adapt(with.WithFields(maps.Clone(fields)))
	}
	return b
}

func (b *bridge) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return b
	}
	return adapt(b.inner.WithContext(ctx))
}

func compact(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}
