package commands

import (
	"context"

	"gtaskbot/internal/output"
	"gtaskbot/internal/service"
	"gtaskbot/internal/snapshot"
)

func init() {
	RegisterControl(&DeleteControl{})
}

// DeleteControl handles "del_<position>" buttons produced by the list command.
type DeleteControl struct{}

func (h *DeleteControl) Prefix() string { return snapshot.DeletePrefix }

func (h *DeleteControl) Handle(ctx context.Context, token string, svc service.Service) (output.Message, error) {
	position, err := snapshot.ParseDeleteToken(token)
	if err != nil {
		return output.Message{}, &ValidationError{Err: err, Hint: "Invalid action. Use /list to refresh."}
	}

	task, err := NewResolver(svc).Resolve(ctx, position)
	if err != nil {
		return output.Message{}, err
	}
	return output.Text("🗑 Deleted: " + task.Title), nil
}
