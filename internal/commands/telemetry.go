package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/namaewanam/notes/internal/logging"
	"github.com/namaewanam/notes/pkg/interfaces"
)

// TelemetryStatus classifies how a command ended.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo is handed to a Telemetry callback once per execution.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry replaces the handler's own outcome logging when installed.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs one entry per execution with its duration and status.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	logger = logging.Ensure(logger)
	return func(_ context.Context, _ T, info TelemetryInfo) {
		entry := logging.WithFields(logger, info.Fields)
		args := []any{
			"duration_ms", info.Duration.Milliseconds(),
			"status", string(info.Status),
		}
		if info.Status == TelemetryStatusSuccess {
			entry.Info("command.execute.success", args...)
			return
		}
		args = append(args, "error", info.Error)
		if info.Status == TelemetryStatusContextError {
			entry.Error("command.execute.context_error", args...)
			return
		}
		entry.Error("command.execute.failed", args...)
	}
}
