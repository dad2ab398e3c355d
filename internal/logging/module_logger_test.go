package logging

import (
	"context"
	"testing"

	"github.com/namaewanam/notes/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "notes.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerAnnotatesModuleField(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	ModuleLogger(provider, exportModule).Info("with provider")

	if len(provider.requested) != 1 || provider.requested[0] != exportModule {
		t.Fatalf("expected module %s, got %v", exportModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != exportModule {
		t.Fatalf("expected module field %s, got %v", exportModule, rec.fields)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, "")

	if provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestNamedModuleLoggers(t *testing.T) {
	cases := map[string]func(interfaces.LoggerProvider) interfaces.Logger{
		contentModule: ContentLogger,
		searchModule:  SearchLogger,
		watchModule:   WatchLogger,
		httpModule:    HTTPLogger,
		viewsModule:   ViewsLogger,
	}
	for module, fn := range cases {
		provider := &stubProvider{logger: &recordingLogger{}}
		_ = fn(provider)
		if len(provider.requested) == 0 || provider.requested[0] != module {
			t.Fatalf("expected %s request, got %v", module, provider.requested)
		}
	}
}

func TestWithContentContextSkipsBlankValues(t *testing.T) {
	rec := &recordingLogger{}
	_ = WithContentContext(rec, "java", " ", "walk")

	if len(rec.fields) != 1 {
		t.Fatalf("expected fields applied once, got %d", len(rec.fields))
	}
	got := rec.fields[0]
	if got[fieldCategory] != "java" || got[fieldAction] != "walk" {
		t.Fatalf("unexpected fields %v", got)
	}
	if _, ok := got[fieldPath]; ok {
		t.Fatalf("expected blank path to be skipped, got %v", got)
	}
}

func TestContextFieldsMerge(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"request_id": "a"})
	ctx = ContextWithFields(ctx, map[string]any{"route": "/api/posts"})

	fields := ContextFields(ctx)
	if fields["request_id"] != "a" || fields["route"] != "/api/posts" {
		t.Fatalf("expected merged fields, got %v", fields)
	}

	fields["request_id"] = "mutated"
	if ContextFields(ctx)["request_id"] != "a" {
		t.Fatal("expected ContextFields to return a copy")
	}
}
