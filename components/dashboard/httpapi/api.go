// Package httpapi adapts the shared dashboard commands into a transport
// neutral execution surface consumed by routers.
package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-bi-dashboard/components/dashboard"
	"github.com/goliatone/go-bi-dashboard/components/dashboard/commands"
)

// Executor is the command surface the HTTP layer dispatches into.
type Executor interface {
	Assign(ctx context.Context, msg dashboard.AddWidgetRequest) error
	Remove(ctx context.Context, msg commands.RemoveWidgetInput) error
	Reorder(ctx context.Context, msg commands.ReorderWidgetsInput) error
	Refresh(ctx context.Context, msg commands.RefreshWidgetInput) error
	Preferences(ctx context.Context, msg commands.SaveLayoutPreferencesInput) error
	SubmitSales(ctx context.Context, msg commands.SubmitSalesInput) error
	SubmitMaintenance(ctx context.Context, msg commands.SubmitMaintenanceInput) error
	SendChat(ctx context.Context, msg commands.SendChatInput) error
	Export(ctx context.Context, msg commands.ExportReportInput) (string, error)
}

// CommandExecutor bundles commanders into the Executor surface.
type CommandExecutor struct {
	AssignCommander      gocommand.Commander[dashboard.AddWidgetRequest]
	RemoveCommander      gocommand.Commander[commands.RemoveWidgetInput]
	ReorderCommander     gocommand.Commander[commands.ReorderWidgetsInput]
	RefreshCommander     gocommand.Commander[commands.RefreshWidgetInput]
	PreferencesCommander gocommand.Commander[commands.SaveLayoutPreferencesInput]
	SalesCommander       gocommand.Commander[commands.SubmitSalesInput]
	MaintenanceCommander gocommand.Commander[commands.SubmitMaintenanceInput]
	ChatCommander        gocommand.Commander[commands.SendChatInput]
	ExportCommander      *commands.ExportReportCommand
}

var _ Executor = (*CommandExecutor)(nil)

var errCommandMissing = errors.New("httpapi: command not configured")

// Assign creates and places a widget.
func (e *CommandExecutor) Assign(ctx context.Context, msg dashboard.AddWidgetRequest) error {
	if e.AssignCommander == nil {
		return errCommandMissing
	}
	return e.AssignCommander.Execute(ctx, msg)
}

// Remove deletes a widget instance.
func (e *CommandExecutor) Remove(ctx context.Context, msg commands.RemoveWidgetInput) error {
	if e.RemoveCommander == nil {
		return errCommandMissing
	}
	return e.RemoveCommander.Execute(ctx, msg)
}

// Reorder changes widget ordering within an area.
func (e *CommandExecutor) Reorder(ctx context.Context, msg commands.ReorderWidgetsInput) error {
	if e.ReorderCommander == nil {
		return errCommandMissing
	}
	return e.ReorderCommander.Execute(ctx, msg)
}

// Refresh emits a widget refresh notification.
func (e *CommandExecutor) Refresh(ctx context.Context, msg commands.RefreshWidgetInput) error {
	if e.RefreshCommander == nil {
		return errCommandMissing
	}
	return e.RefreshCommander.Execute(ctx, msg)
}

// Preferences saves per-viewer layout overrides.
func (e *CommandExecutor) Preferences(ctx context.Context, msg commands.SaveLayoutPreferencesInput) error {
	if e.PreferencesCommander == nil {
		return errCommandMissing
	}
	return e.PreferencesCommander.Execute(ctx, msg)
}

// SubmitSales runs the sales prediction widget.
func (e *CommandExecutor) SubmitSales(ctx context.Context, msg commands.SubmitSalesInput) error {
	if e.SalesCommander == nil {
		return errCommandMissing
	}
	return e.SalesCommander.Execute(ctx, msg)
}

// SubmitMaintenance runs the maintenance prediction widget.
func (e *CommandExecutor) SubmitMaintenance(ctx context.Context, msg commands.SubmitMaintenanceInput) error {
	if e.MaintenanceCommander == nil {
		return errCommandMissing
	}
	return e.MaintenanceCommander.Execute(ctx, msg)
}

// SendChat sends a prompt to the assistant widget.
func (e *CommandExecutor) SendChat(ctx context.Context, msg commands.SendChatInput) error {
	if e.ChatCommander == nil {
		return errCommandMissing
	}
	return e.ChatCommander.Execute(ctx, msg)
}

// Export writes the viewer's report and returns the file path.
func (e *CommandExecutor) Export(ctx context.Context, msg commands.ExportReportInput) (string, error) {
	if e.ExportCommander == nil {
		return "", errCommandMissing
	}
	if err := e.ExportCommander.Execute(ctx, msg); err != nil {
		return "", err
	}
	return e.ExportCommander.LastPath, nil
}
