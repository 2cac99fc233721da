// Package commands provides the chat command interface and implementations.
package commands

import (
	"context"

	"gtaskbot/internal/output"
	"gtaskbot/internal/service"
)

// Request carries the caller's context for one command invocation.
type Request struct {
	ChatID int64
	UserID int64
	Args   string // text after the command, untrimmed
}

// Command defines the interface for chat commands.
type Command interface {
	// Name returns the primary command name, without the slash.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command talks to the task store.
	// Commands like start and help return false.
	NeedsStore() bool

	// Validate checks the arguments before a store handle is created.
	// A non-nil error is a *ValidationError.
	Validate(args string) error

	// Run executes the command.
	// svc is nil if NeedsStore() returns false.
	Run(ctx context.Context, req Request, svc service.Service) (output.Message, error)
}

// ControlHandler handles inline button tokens starting with Prefix.
type ControlHandler interface {
	// Prefix returns the token prefix this handler owns.
	Prefix() string

	// Handle executes the control. svc is always non-nil.
	Handle(ctx context.Context, token string, svc service.Service) (output.Message, error)
}
