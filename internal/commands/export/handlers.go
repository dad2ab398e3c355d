package exportcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"
	"github.com/namaewanam/notes/internal/commands"
	"github.com/namaewanam/notes/internal/export"
	"github.com/namaewanam/notes/internal/logging"
	"github.com/namaewanam/notes/pkg/interfaces"
)

const exportOperation = "export.snapshot"

// Text codes carried by errors returned from ExportSnapshotHandler.
var (
	CodeSnapshotInvalid  = commands.ErrorCode(exportOperation, commands.StageInvalid)
	CodeSnapshotCanceled = commands.ErrorCode(exportOperation, commands.StageCanceled)
	CodeSnapshotTimeout  = commands.ErrorCode(exportOperation, commands.StageTimeout)
	CodeSnapshotFailed   = commands.ErrorCode(exportOperation, commands.StageFailed)
)

// ErrExporterRequired is returned when the handler has nothing to export with.
var ErrExporterRequired = errors.New("export command: exporter is nil")

// Exporter is the part of export.Exporter the handler needs.
type Exporter interface {
	Export(ctx context.Context, opts export.Options) (export.Result, error)
}

var _ command.Commander[ExportSnapshotCommand] = (*ExportSnapshotHandler)(nil)

// ExportSnapshotHandler runs snapshot exports through the shared command handler.
type ExportSnapshotHandler struct {
	inner *commands.Handler[ExportSnapshotCommand]
}

func NewExportSnapshotHandler(exporter Exporter, logger interfaces.Logger, opts ...commands.HandlerOption[ExportSnapshotCommand]) *ExportSnapshotHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg ExportSnapshotCommand) error {
		if exporter == nil {
			return ErrExporterRequired
		}
		result, err := exporter.Export(ctx, msg.options())
		if err != nil {
			return err
		}
		if msg.ResultCallback != nil {
			msg.ResultCallback(ResultEnvelope{
				Result: result,
				Metadata: map[string]any{
					"operation": exportOperation,
					"build_id":  result.BuildID,
				},
			})
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportSnapshotCommand]{
		commands.WithLogger[ExportSnapshotCommand](baseLogger),
		commands.WithOperation[ExportSnapshotCommand](exportOperation),
		commands.WithMessageFields(func(msg ExportSnapshotCommand) map[string]any {
			fields := map[string]any{
				"output_path": msg.OutputPath,
			}
			if msg.Manifest {
				fields["manifest"] = true
			}
			if msg.Sitemap {
				fields["sitemap"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ExportSnapshotCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ExportSnapshotHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ExportSnapshotCommand].
func (h *ExportSnapshotHandler) Execute(ctx context.Context, msg ExportSnapshotCommand) error {
	return h.inner.Execute(ctx, msg)
}
