package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-bi-dashboard/components/dashboard"
)

// SendChatInput carries a chat prompt to the assistant controller.
type SendChatInput struct {
	Prompt string
}

// SendChatCommand drives the assistant widget's submit.
type SendChatCommand struct {
	controller *dashboard.ChatController
	telemetry  Telemetry
}

// NewSendChatCommand creates the command.
func NewSendChatCommand(controller *dashboard.ChatController, telemetry Telemetry) *SendChatCommand {
	return &SendChatCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SendChatInput] = (*SendChatCommand)(nil)

// Execute drafts the prompt and submits it.
func (c *SendChatCommand) Execute(ctx context.Context, msg SendChatInput) error {
	if c.controller == nil {
		return errors.New("chat command requires controller")
	}
	c.controller.SetDraft(msg.Prompt)
	if err := c.controller.Submit(ctx); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.chat", map[string]any{
		"chars": len(msg.Prompt),
	})
	return nil
}
