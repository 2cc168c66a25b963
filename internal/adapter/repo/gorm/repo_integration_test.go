package gormrepo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"relaybot/internal/app/ports"
	"relaybot/migrations"
)

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("RELAYBOT_DB_DSN")
	if dsn == "" {
		t.Skip("RELAYBOT_DB_DSN is required for integration test")
	}
	return dsn
}

func TestCommandRegistrationRepo_UpsertRoundTrip(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	ctx := context.Background()
	if _, err := ApplyMigrations(ctx, db, migrations.FS); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	appID := "it-registration-roundtrip"
	_ = db.Exec("DELETE FROM command_registrations WHERE app_id = ?", appID).Error

	repo := NewCommandRegistrationRepo(db)
	if _, err := repo.Get(ctx, appID, "chat"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	first := ports.CommandRegistrationRecord{
		AppID:        appID,
		CommandName:  "chat",
		CommandID:    "1",
		Fingerprint:  "fp-1",
		RegisteredAt: time.Unix(1700000000, 0).UTC(),
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := first
	second.Fingerprint = "fp-2"
	second.RegisteredAt = first.RegisteredAt.Add(time.Hour)
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.Get(ctx, appID, "chat")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Fingerprint != "fp-2" || got.CommandID != "1" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if !got.RegisteredAt.Equal(second.RegisteredAt) {
		t.Fatalf("registered_at=%v want %v", got.RegisteredAt, second.RegisteredAt)
	}
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	ctx := context.Background()
	if _, err := ApplyMigrations(ctx, db, migrations.FS); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	appID := "it-registration-rollback"
	_ = db.Exec("DELETE FROM command_registrations WHERE app_id = ?", appID).Error

	repo := NewCommandRegistrationRepo(db)
	boom := errors.New("boom")
	err = NewTxManager(db).RunInTx(ctx, func(txCtx context.Context) error {
		if err := repo.Save(txCtx, ports.CommandRegistrationRecord{
			AppID:        appID,
			CommandName:  "chat",
			Fingerprint:  "fp",
			RegisteredAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := repo.Get(ctx, appID, "chat"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected rollback, got %v", err)
	}
}
