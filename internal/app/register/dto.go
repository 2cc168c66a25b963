package register

import (
	"time"

	"relaybot/internal/domain/interaction"
)

type Request struct {
	AppID   string
	Command interaction.CommandDescriptor
}

type Response struct {
	CommandID    string    `json:"command_id"`
	Name         string    `json:"name"`
	Fingerprint  string    `json:"fingerprint"`
	Changed      bool      `json:"changed"`
	RegisteredAt time.Time `json:"registered_at"`
}
