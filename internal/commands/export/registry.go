package exportcmd

import (
	"errors"

	"github.com/namaewanam/notes/internal/commands"
	"github.com/namaewanam/notes/pkg/interfaces"
)

// CommandRegistry is the registration contract used when wiring handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// RegisterExportCommands builds the export handler and registers it with reg
// when one is supplied.
func RegisterExportCommands(reg CommandRegistry, exporter Exporter, provider interfaces.LoggerProvider, opts ...commands.HandlerOption[ExportSnapshotCommand]) (*ExportSnapshotHandler, error) {
	if exporter == nil {
		return nil, errors.New("export command registration: exporter is nil")
	}
	handler := NewExportSnapshotHandler(exporter, commands.CommandLogger(provider, "export"), opts...)
	if reg != nil {
		if err := reg.RegisterCommand(handler); err != nil {
			return nil, err
		}
	}
	return handler, nil
}
