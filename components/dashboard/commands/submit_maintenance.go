package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-bi-dashboard/components/dashboard"
)

// SubmitMaintenanceInput carries the drafted sensor readings to the controller.
type SubmitMaintenanceInput struct {
	Form dashboard.MaintenanceForm
}

// SubmitMaintenanceCommand drives the maintenance widget's submit.
type SubmitMaintenanceCommand struct {
	controller *dashboard.MaintenanceController
	telemetry  Telemetry
}

// NewSubmitMaintenanceCommand creates the command.
func NewSubmitMaintenanceCommand(controller *dashboard.MaintenanceController, telemetry Telemetry) *SubmitMaintenanceCommand {
	return &SubmitMaintenanceCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SubmitMaintenanceInput] = (*SubmitMaintenanceCommand)(nil)

// Execute stores the draft and submits it.
func (c *SubmitMaintenanceCommand) Execute(ctx context.Context, msg SubmitMaintenanceInput) error {
	if c.controller == nil {
		return errors.New("submit maintenance command requires controller")
	}
	c.controller.SetForm(msg.Form)
	if err := c.controller.Submit(ctx); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.submit_maintenance", nil)
	return nil
}
