package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-bi-dashboard/components/dashboard"
)

// SubmitSalesInput carries the drafted sales form to the controller.
type SubmitSalesInput struct {
	Form dashboard.SalesForm
}

// SubmitSalesCommand drives the sales widget's submit from any transport.
type SubmitSalesCommand struct {
	controller *dashboard.SalesController
	telemetry  Telemetry
}

// NewSubmitSalesCommand creates the command.
func NewSubmitSalesCommand(controller *dashboard.SalesController, telemetry Telemetry) *SubmitSalesCommand {
	return &SubmitSalesCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SubmitSalesInput] = (*SubmitSalesCommand)(nil)

// Execute stores the draft and submits it.
func (c *SubmitSalesCommand) Execute(ctx context.Context, msg SubmitSalesInput) error {
	if c.controller == nil {
		return errors.New("submit sales command requires controller")
	}
	c.controller.SetForm(msg.Form)
	if err := c.controller.Submit(ctx); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.submit_sales", map[string]any{
		"region": msg.Form.Region,
	})
	return nil
}
