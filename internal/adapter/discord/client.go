package discord

import (
	"context"
	"fmt"

	"relaybot/internal/adapter/rest"
	"relaybot/internal/app/ports"
	"relaybot/internal/domain/interaction"

	"github.com/bytedance/sonic"
)

// Client talks to the platform's REST API with the bot token.
type Client struct {
	rest     *rest.Client
	apiBase  string
	botToken string
}

func NewClient(r *rest.Client, apiBase, botToken string) *Client {
	if apiBase == "" {
		apiBase = interaction.DefaultAPIBase
	}
	return &Client{rest: r, apiBase: apiBase, botToken: botToken}
}

type registeredCommand struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (c *Client) RegisterCommand(ctx context.Context, appID string, cmd interaction.CommandDescriptor) (ports.RegisteredCommand, error) {
	reply, err := c.rest.PostJSON(ctx, interaction.CommandsURL(c.apiBase, appID), c.authorization(), cmd)
	if err != nil {
		return ports.RegisteredCommand{}, err
	}
	if err := reply.Err(); err != nil {
		return ports.RegisteredCommand{}, fmt.Errorf("register command %s: %w", cmd.Name, err)
	}

	out := ports.RegisteredCommand{Name: cmd.Name}
	var body registeredCommand
	if err := sonic.Unmarshal(reply.Body, &body); err == nil {
		out.ID = body.ID
		out.Version = body.Version
		if body.Name != "" {
			out.Name = body.Name
		}
	}
	return out, nil
}

func (c *Client) Defer(ctx context.Context, in interaction.Interaction) error {
	ack := interaction.Acknowledgment{Type: interaction.AckDeferred}
	reply, err := c.rest.PostJSON(ctx, interaction.DeferralURL(c.apiBase, in), c.authorization(), ack)
	if err != nil {
		return err
	}
	if err := reply.Err(); err != nil {
		return fmt.Errorf("defer interaction %s: %w", in.ID, err)
	}
	return nil
}

func (c *Client) SendFollowUp(ctx context.Context, appID, token string, msg interaction.FollowUpMessage) error {
	reply, err := c.rest.PostJSON(ctx, interaction.WebhookURL(c.apiBase, appID, token), c.authorization(), msg)
	if err != nil {
		return err
	}
	if err := reply.Err(); err != nil {
		return fmt.Errorf("send follow-up: %w", err)
	}
	return nil
}

func (c *Client) authorization() string {
	return "Bot " + c.botToken
}
