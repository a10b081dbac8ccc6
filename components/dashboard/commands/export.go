package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-bi-dashboard/components/dashboard"
)

// ExportReportInput identifies the viewer whose results are exported.
type ExportReportInput struct {
	Viewer dashboard.ViewerContext
}

type reportExporter interface {
	Export(ctx context.Context, viewer dashboard.ViewerContext) (string, error)
}

// ExportReportCommand writes the viewer's report and records where it landed.
type ExportReportCommand struct {
	exporter  reportExporter
	telemetry Telemetry

	// LastPath holds the most recent export destination for transports that
	// want to surface it. Guarded by the command being used serially.
	LastPath string
}

// NewExportReportCommand creates the command.
func NewExportReportCommand(exporter reportExporter, telemetry Telemetry) *ExportReportCommand {
	return &ExportReportCommand{exporter: exporter, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ExportReportInput] = (*ExportReportCommand)(nil)

// Execute writes the report file.
func (c *ExportReportCommand) Execute(ctx context.Context, msg ExportReportInput) error {
	if c.exporter == nil {
		return errors.New("export command requires exporter")
	}
	path, err := c.exporter.Export(ctx, msg.Viewer)
	if err != nil {
		return err
	}
	c.LastPath = path
	c.telemetry.Record(ctx, "dashboard.command.export", map[string]any{
		"viewer": msg.Viewer.UserID,
		"path":   path,
	})
	return nil
}
