package ports

import (
	"context"
	"time"
)

type CommandRegistrationRecord struct {
	AppID        string
	CommandName  string
	CommandID    string
	Fingerprint  string
	RegisteredAt time.Time
}

type CommandRegistrationRepository interface {
	Get(ctx context.Context, appID, commandName string) (CommandRegistrationRecord, error)
	Save(ctx context.Context, record CommandRegistrationRecord) error
}
