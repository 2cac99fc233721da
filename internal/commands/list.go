package commands

import (
	"context"

	"gtaskbot/internal/output"
	"gtaskbot/internal/service"
	"gtaskbot/internal/snapshot"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command: fetch, index, render.
type ListCmd struct{}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"show", "tasks"} }
func (c *ListCmd) Synopsis() string  { return "Show pending tasks" }
func (c *ListCmd) Usage() string     { return "/list" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) Validate(args string) error { return nil }

func (c *ListCmd) Run(ctx context.Context, req Request, svc service.Service) (output.Message, error) {
	tasks, err := svc.ListOpenTasks(ctx)
	if err != nil {
		return output.Message{}, err
	}
	return output.RenderList(snapshot.Index(tasks)), nil
}
