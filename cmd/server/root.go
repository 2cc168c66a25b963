package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"relaybot/internal/config"
	"relaybot/internal/logging"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	configPath string
	listen     string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "relaybot",
		Short: "Relay slash commands to a text completion service",
		Long: `relaybot registers a chat slash command, listens for interactions,
acknowledges them within the platform deadline, and posts the completion
as a follow-up message.

Run without a subcommand to register the command and serve.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&opts.listen, "listen", "", "listen address (overrides server.listen_addr)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides log.level)")

	root.AddCommand(&cobra.Command{
		Use:   "register",
		Short: "Register the slash command and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRegister(cmd.Context(), opts)
		},
	})
	return root
}

func loadConfig(opts *options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if v := strings.TrimSpace(opts.listen); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := strings.TrimSpace(opts.logLevel); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func setup(ctx context.Context, opts *options) (*application, *zap.Logger, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		if errors.Is(err, config.ErrMissingCredentials) {
			return nil, nil, fmt.Errorf("startup: %w (set RELAYBOT_APPLICATION_ID, RELAYBOT_BOT_TOKEN and RELAYBOT_COMPLETION_API_KEY)", err)
		}
		return nil, nil, fmt.Errorf("startup: %w", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	a, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("build application failed", zap.Error(err))
		_ = logger.Sync()
		return nil, nil, err
	}
	return a, logger, nil
}

func runRegister(ctx context.Context, opts *options) error {
	a, logger, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	defer a.close()

	_, err = a.registerCommand(ctx)
	return err
}

func runServe(ctx context.Context, opts *options) error {
	a, logger, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	defer a.close()

	if _, err := a.registerCommand(ctx); err != nil {
		logger.Warn("command registration failed, serving anyway", zap.Error(err))
	}

	s := server.Default(
		server.WithHostPorts(a.cfg.Server.ListenAddr),
		server.WithMaxRequestBodySize(a.cfg.Server.MaxBodyBytes),
		server.WithExitWaitTime(a.cfg.Server.ShutdownTimeout),
	)
	a.handler.RegisterRoutes(s)
	s.OnShutdown = append(s.OnShutdown, func(ctx context.Context) {
		if err := a.pool.Close(ctx); err != nil {
			logger.Warn("follow-up drain incomplete", zap.Error(err))
			return
		}
		logger.Info("follow-up work drained")
	})

	logger.Info("relaybot listening",
		zap.String("addr", a.cfg.Server.ListenAddr),
		zap.Bool("signature_check", len(a.handler.PublicKey) > 0))
	s.Spin()
	return nil
}
