package config

import (
	"fmt"
	"os"

	"relaybot/internal/domain/interaction"

	"github.com/bytedance/sonic"
	"github.com/tidwall/jsonc"
)

// LoadCommand reads a descriptor from a JSON file that may contain comments
// and trailing commas. An empty path yields the built-in chat command.
func LoadCommand(path string) (interaction.CommandDescriptor, error) {
	if path == "" {
		return interaction.DefaultChatCommand(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return interaction.CommandDescriptor{}, fmt.Errorf("read command file: %w", err)
	}
	var cmd interaction.CommandDescriptor
	if err := sonic.Unmarshal(jsonc.ToJSON(raw), &cmd); err != nil {
		return interaction.CommandDescriptor{}, fmt.Errorf("parse command file: %w", err)
	}
	if err := cmd.Validate(); err != nil {
		return interaction.CommandDescriptor{}, err
	}
	return cmd, nil
}
