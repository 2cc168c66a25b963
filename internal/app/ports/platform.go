package ports

import (
	"context"

	"relaybot/internal/domain/completion"
	"relaybot/internal/domain/interaction"
)

type RegisteredCommand struct {
	ID      string
	Name    string
	Version string
}

type PlatformClient interface {
	RegisterCommand(ctx context.Context, appID string, cmd interaction.CommandDescriptor) (RegisteredCommand, error)
	Defer(ctx context.Context, in interaction.Interaction) error
	SendFollowUp(ctx context.Context, appID, token string, msg interaction.FollowUpMessage) error
}

// Completer always produces user-visible text. Failures come back as a
// diagnostic string instead of an error.
type Completer interface {
	Generate(ctx context.Context, req completion.Request) string
}

type TaskRunner interface {
	Submit(name string, fn func(ctx context.Context)) error
}
