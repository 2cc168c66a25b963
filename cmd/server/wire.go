package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"relaybot/internal/adapter/discord"
	httpadapter "relaybot/internal/adapter/http"
	metricsinmem "relaybot/internal/adapter/metrics/inmemory"
	"relaybot/internal/adapter/openai"
	gormrepo "relaybot/internal/adapter/repo/gorm"
	"relaybot/internal/adapter/repo/memory"
	"relaybot/internal/adapter/rest"
	"relaybot/internal/adapter/worker"
	"relaybot/internal/app/dispatch"
	"relaybot/internal/app/ports"
	"relaybot/internal/app/register"
	"relaybot/internal/config"
	"relaybot/internal/domain/interaction"
	"relaybot/migrations"

	"go.uber.org/zap"
)

type application struct {
	cfg      config.Config
	command  interaction.CommandDescriptor
	pool     *worker.Pool
	recorder *metricsinmem.Recorder
	register register.UseCase
	handler  httpadapter.Handler
	closers  []func()
}

func buildApplication(ctx context.Context, cfg config.Config, logger *zap.Logger) (*application, error) {
	command, err := config.LoadCommand(cfg.Discord.CommandFile)
	if err != nil {
		return nil, err
	}
	publicKey, err := cfg.PublicKey()
	if err != nil {
		return nil, err
	}
	httpClient, err := rest.New(cfg.Server.HTTPTimeout)
	if err != nil {
		return nil, err
	}

	a := &application{cfg: cfg, command: command, recorder: metricsinmem.NewRecorder()}
	registrations, txManager, err := a.buildLedger(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	platform := discord.NewClient(httpClient, cfg.Discord.APIBase, cfg.Discord.BotToken)
	completer := openai.NewClient(httpClient, cfg.Completion.Endpoint, cfg.Completion.APIKey, a.recorder, logger.Named("completion"))
	a.pool = worker.NewPool(context.Background(), cfg.Server.MaxInFlight, logger.Named("worker"))

	a.register = register.UseCase{
		Platform:      platform,
		Registrations: registrations,
		TxManager:     txManager,
		Logger:        logger.Named("register"),
		Now:           time.Now,
	}
	a.handler = httpadapter.Handler{
		DispatchUC: dispatch.UseCase{
			Platform:     platform,
			Completer:    completer,
			Tasks:        a.pool,
			Metrics:      a.recorder,
			Logger:       logger.Named("dispatch"),
			AppID:        cfg.Discord.ApplicationID,
			Model:        cfg.Completion.Model,
			MaxTokens:    cfg.Completion.MaxTokens,
			DeferTimeout: cfg.Server.DeferTimeout,
		},
		KPI:       a.recorder,
		Dropped:   a.recorder,
		Logger:    logger.Named("http"),
		PublicKey: publicKey,
	}
	return a, nil
}

// buildLedger keeps registrations in memory unless a database is configured.
func (a *application) buildLedger(ctx context.Context, cfg config.Config, logger *zap.Logger) (ports.CommandRegistrationRepository, ports.TxManager, error) {
	if cfg.Storage.DSN == "" {
		store := memory.NewStore()
		return memory.NewCommandRegistrationRepo(store), memory.NewTxManager(store), nil
	}

	db, err := gormrepo.OpenPostgres(cfg.Storage.DSN)
	if err != nil {
		return nil, nil, err
	}
	a.closers = append(a.closers, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	var schema fs.FS = migrations.FS
	if cfg.Storage.MigrationsDir != "" {
		schema = os.DirFS(cfg.Storage.MigrationsDir)
	}
	applied, err := gormrepo.ApplyMigrations(ctx, db, schema)
	if err != nil {
		return nil, nil, fmt.Errorf("apply migrations: %w", err)
	}
	if len(applied) > 0 {
		logger.Info("migrations applied", zap.Strings("versions", applied))
	}
	return gormrepo.NewCommandRegistrationRepo(db), gormrepo.NewTxManager(db), nil
}

func (a *application) registerCommand(ctx context.Context) (register.Response, error) {
	return a.register.Execute(ctx, register.Request{AppID: a.cfg.Discord.ApplicationID, Command: a.command})
}

func (a *application) close() {
	drainCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	_ = a.pool.Close(drainCtx)
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
