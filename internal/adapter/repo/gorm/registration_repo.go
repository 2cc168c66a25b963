package gormrepo

import (
	"context"
	"errors"
	"time"

	"relaybot/internal/adapter/repo/gorm/model"
	"relaybot/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommandRegistrationRepo struct {
	db *gorm.DB
}

func NewCommandRegistrationRepo(db *gorm.DB) CommandRegistrationRepo {
	return CommandRegistrationRepo{db: db}
}

func (r CommandRegistrationRepo) Get(ctx context.Context, appID, commandName string) (ports.CommandRegistrationRecord, error) {
	var row model.CommandRegistration
	err := dbFromContext(ctx, r.db).
		Where(&model.CommandRegistration{AppID: appID, CommandName: commandName}).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CommandRegistrationRecord{}, ports.ErrNotFound
		}
		return ports.CommandRegistrationRecord{}, err
	}
	return ports.CommandRegistrationRecord{
		AppID:        row.AppID,
		CommandName:  row.CommandName,
		CommandID:    row.CommandID,
		Fingerprint:  row.Fingerprint,
		RegisteredAt: row.RegisteredAt,
	}, nil
}

func (r CommandRegistrationRepo) Save(ctx context.Context, record ports.CommandRegistrationRecord) error {
	row := model.CommandRegistration{
		AppID:        record.AppID,
		CommandName:  record.CommandName,
		CommandID:    record.CommandID,
		Fingerprint:  record.Fingerprint,
		RegisteredAt: record.RegisteredAt,
		UpdatedAt:    time.Now().UTC(),
	}
	return dbFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "app_id"}, {Name: "command_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"command_id", "fingerprint", "registered_at", "updated_at"}),
		}).
		Create(&row).Error
}
