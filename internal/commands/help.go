package commands

import (
	"context"
	"fmt"
	"strings"

	"gtaskbot/internal/output"
	"gtaskbot/internal/service"
)

func init() {
	Register(NewHelpCmd(DefaultRegistry))
}

// HelpCmd lists the commands of a registry.
type HelpCmd struct {
	registry *Registry
}

// NewHelpCmd creates a help command describing registry.
func NewHelpCmd(registry *Registry) *HelpCmd {
	return &HelpCmd{registry: registry}
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "/help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) Validate(args string) error { return nil }

func (c *HelpCmd) Run(ctx context.Context, req Request, svc service.Service) (output.Message, error) {
	return output.Text(c.Text()), nil
}

// Text returns the help message.
func (c *HelpCmd) Text() string {
	var b strings.Builder
	b.WriteString("Usage:\n")
	for _, cmd := range c.registry.All() {
		fmt.Fprintf(&b, "%s - %s\n", cmd.Usage(), cmd.Synopsis())
	}
	b.WriteString("\nAny other message is added as a task.")
	return b.String()
}
