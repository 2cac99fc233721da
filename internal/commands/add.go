package commands

import (
	"context"
	"strings"

	"gtaskbot/internal/output"
	"gtaskbot/internal/service"
)

// AddUsageHint is shown when an add has no title.
const AddUsageHint = "Usage: /add <task title>"

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command. Free-text messages are routed here too.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"new"} }
func (c *AddCmd) Synopsis() string  { return "Add a task" }
func (c *AddCmd) Usage() string     { return "/add <task title>" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) Validate(args string) error {
	if strings.TrimSpace(args) == "" {
		return &ValidationError{Err: ErrTitleRequired, Hint: AddUsageHint}
	}
	return nil
}

func (c *AddCmd) Run(ctx context.Context, req Request, svc service.Service) (output.Message, error) {
	if err := c.Validate(req.Args); err != nil {
		return output.Message{}, err
	}

	task, err := svc.CreateTask(ctx, strings.TrimSpace(req.Args))
	if err != nil {
		return output.Message{}, err
	}
	return output.Text("✅ Added: " + task.Title), nil
}
