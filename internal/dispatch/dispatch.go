// Package dispatch routes chat actions to commands and control handlers.
package dispatch

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"gtaskbot/internal/commands"
	"gtaskbot/internal/config"
	"gtaskbot/internal/logging"
	"gtaskbot/internal/metrics"
	"gtaskbot/internal/output"
	"gtaskbot/internal/service"
)

// ServiceFactory creates a Service from config.
// Called once per action that needs the store; the handle is dropped afterwards.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Kind tells the dispatcher how to interpret an Action.
type Kind int

const (
	// KindCommand is a slash command; Command holds the name, Payload the arguments.
	KindCommand Kind = iota
	// KindText is free text, added as a task.
	KindText
	// KindControl is an inline button token in Payload.
	KindControl
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindText:
		return "text"
	case KindControl:
		return "control"
	default:
		return "unknown"
	}
}

// Action is one user interaction.
type Action struct {
	Kind    Kind
	ChatID  int64
	UserID  int64
	Command string
	Payload string
}

// UnknownCommandHint follows the "Unknown command" reply.
const UnknownCommandHint = "Use /help to see available commands."

// Dispatcher turns actions into reply messages.
// It holds no mutable state and is safe for concurrent use.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	cfg      *config.Config
	log      *zerolog.Logger
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory, cfg *config.Config, log *zerolog.Logger) *Dispatcher {
	if log == nil {
		log = logging.Nop()
	}
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		cfg:      cfg,
		log:      log,
	}
}

// Dispatch handles a. Errors never escape: they become reply text.
// An empty Message means there is nothing to send.
func (d *Dispatcher) Dispatch(ctx context.Context, a Action) output.Message {
	req := commands.Request{ChatID: a.ChatID, UserID: a.UserID, Args: a.Payload}

	switch a.Kind {
	case KindText:
		return d.runNamed(ctx, KindText, "add", req)
	case KindControl:
		return d.ResolveControl(ctx, a.Payload)
	case KindCommand:
		cmd, ok := d.registry.Find(a.Command)
		if !ok {
			logging.With(ctx, d.log).Debug().Str("command", a.Command).Msg("unknown command")
			metrics.IncAction(KindCommand.String(), "unknown")
			return output.Text("Unknown command: /" + a.Command + "\n" + UnknownCommandHint)
		}
		return d.run(ctx, KindCommand, cmd, req)
	default:
		metrics.IncAction(a.Kind.String(), "ignored")
		return output.Message{}
	}
}

// Add adds text as a new task.
func (d *Dispatcher) Add(ctx context.Context, text string) output.Message {
	return d.runNamed(ctx, KindText, "add", commands.Request{Args: text})
}

// Show renders the current list with delete controls.
func (d *Dispatcher) Show(ctx context.Context) output.Message {
	return d.runNamed(ctx, KindCommand, "list", commands.Request{})
}

// ResolveControl executes an inline button token.
// Tokens with no registered prefix are ignored.
func (d *Dispatcher) ResolveControl(ctx context.Context, token string) output.Message {
	h, ok := d.registry.FindControl(token)
	if !ok {
		logging.With(ctx, d.log).Debug().Str("token", token).Msg("ignoring control with unknown prefix")
		metrics.IncAction(KindControl.String(), "ignored")
		return output.Message{}
	}

	svc, err := d.factory(ctx, d.cfg)
	if err != nil {
		return d.fail(ctx, KindControl, &service.StoreError{Op: "connect", Err: err})
	}

	msg, err := h.Handle(ctx, token, svc)
	if err != nil {
		return d.fail(ctx, KindControl, err)
	}
	metrics.IncAction(KindControl.String(), "ok")
	return msg
}

func (d *Dispatcher) runNamed(ctx context.Context, kind Kind, name string, req commands.Request) output.Message {
	cmd, ok := d.registry.Find(name)
	if !ok {
		return d.fail(ctx, kind, errors.New("command not registered: "+name))
	}
	return d.run(ctx, kind, cmd, req)
}

func (d *Dispatcher) run(ctx context.Context, kind Kind, cmd commands.Command, req commands.Request) output.Message {
	if err := cmd.Validate(req.Args); err != nil {
		return d.fail(ctx, kind, err)
	}

	var svc service.Service
	if cmd.NeedsStore() {
		var err error
		svc, err = d.factory(ctx, d.cfg)
		if err != nil {
			return d.fail(ctx, kind, &service.StoreError{Op: "connect", Err: err})
		}
	}

	msg, err := cmd.Run(ctx, req, svc)
	if err != nil {
		return d.fail(ctx, kind, err)
	}
	logging.With(ctx, d.log).Debug().Str("command", cmd.Name()).Str("kind", kind.String()).Msg("action handled")
	metrics.IncAction(kind.String(), "ok")
	return msg
}

// fail converts err into the reply the user sees.
func (d *Dispatcher) fail(ctx context.Context, kind Kind, err error) output.Message {
	log := logging.With(ctx, d.log)

	var vErr *commands.ValidationError
	if errors.As(err, &vErr) {
		var stale *commands.StaleReferenceError
		if errors.As(err, &stale) {
			metrics.IncStaleReference()
			log.Info().Str("detail", stale.Detail()).Msg("stale task reference")
		} else {
			log.Debug().Err(err).Msg("rejected input")
		}
		metrics.IncAction(kind.String(), "invalid")

		text := vErr.Hint
		if text == "" {
			text = vErr.Error()
		}
		return output.Text(output.FormatWarning(text))
	}

	var storeErr *service.StoreError
	if errors.As(err, &storeErr) {
		log.Error().Err(errors.Unwrap(storeErr)).Str("op", storeErr.Op).Msg("task store call failed")
	} else {
		log.Error().Err(err).Msg("action failed")
	}
	metrics.IncAction(kind.String(), "store_error")
	return output.Text(output.FormatStoreError(err))
}
