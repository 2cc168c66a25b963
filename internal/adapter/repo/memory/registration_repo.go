package memory

import (
	"context"

	"relaybot/internal/app/ports"
)

// CommandRegistrationRepo locks the store itself unless the call runs
// inside TxManager.RunInTx on the same store.
type CommandRegistrationRepo struct {
	store *Store
}

func NewCommandRegistrationRepo(store *Store) CommandRegistrationRepo {
	return CommandRegistrationRepo{store: store}
}

func (r CommandRegistrationRepo) Get(ctx context.Context, appID, commandName string) (ports.CommandRegistrationRecord, error) {
	if !inTx(ctx, r.store) {
		r.store.mu.RLock()
		defer r.store.mu.RUnlock()
	}
	rec, ok := r.store.registrations[registrationKey(appID, commandName)]
	if !ok {
		return ports.CommandRegistrationRecord{}, ports.ErrNotFound
	}
	return rec, nil
}

func (r CommandRegistrationRepo) Save(ctx context.Context, record ports.CommandRegistrationRecord) error {
	if !inTx(ctx, r.store) {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	r.store.registrations[registrationKey(record.AppID, record.CommandName)] = record
	return nil
}
