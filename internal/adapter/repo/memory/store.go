package memory

import (
	"sync"

	"relaybot/internal/app/ports"
)

type Store struct {
	mu            sync.RWMutex
	registrations map[string]ports.CommandRegistrationRecord
}

func NewStore() *Store {
	return &Store{
		registrations: make(map[string]ports.CommandRegistrationRecord),
	}
}

func registrationKey(appID, commandName string) string {
	return appID + "::" + commandName
}
