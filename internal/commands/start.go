package commands

import (
	"context"
	"fmt"

	"gtaskbot/internal/output"
	"gtaskbot/internal/service"
)

func init() {
	Register(&StartCmd{})
}

// StartCmd greets the user and reports the chat ID, which the operator
// needs for TARGET_CHAT_ID and TELEGRAM_OWNER_ID.
type StartCmd struct{}

func (c *StartCmd) Name() string      { return "start" }
func (c *StartCmd) Aliases() []string { return nil }
func (c *StartCmd) Synopsis() string  { return "Show your chat ID" }
func (c *StartCmd) Usage() string     { return "/start" }
func (c *StartCmd) NeedsStore() bool  { return false }

func (c *StartCmd) Validate(args string) error { return nil }

func (c *StartCmd) Run(ctx context.Context, req Request, svc service.Service) (output.Message, error) {
	return output.Text(fmt.Sprintf("Hello! Your Chat ID is: %d", req.ChatID)), nil
}
