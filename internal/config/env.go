package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func (c *Config) applyEnvOverrides() {
	stringEnv("RELAYBOT_APPLICATION_ID", &c.Discord.ApplicationID)
	stringEnv("RELAYBOT_BOT_TOKEN", &c.Discord.BotToken)
	stringEnv("RELAYBOT_PUBLIC_KEY", &c.Discord.PublicKey)
	stringEnv("RELAYBOT_API_BASE", &c.Discord.APIBase)
	stringEnv("RELAYBOT_COMMAND_FILE", &c.Discord.CommandFile)

	// The provider's conventional variable is honoured when the
	// relaybot-specific one is absent.
	if c.Completion.APIKey == "" {
		stringEnv("OPENAI_API_KEY", &c.Completion.APIKey)
	}
	stringEnv("RELAYBOT_COMPLETION_API_KEY", &c.Completion.APIKey)
	stringEnv("RELAYBOT_COMPLETION_ENDPOINT", &c.Completion.Endpoint)
	stringEnv("RELAYBOT_COMPLETION_MODEL", &c.Completion.Model)
	c.Completion.MaxTokens = intEnv("RELAYBOT_COMPLETION_MAX_TOKENS", c.Completion.MaxTokens)

	stringEnv("RELAYBOT_LISTEN_ADDR", &c.Server.ListenAddr)
	c.Server.MaxInFlight = intEnv("RELAYBOT_MAX_IN_FLIGHT", c.Server.MaxInFlight)
	c.Server.HTTPTimeout = durationEnv("RELAYBOT_HTTP_TIMEOUT", c.Server.HTTPTimeout)
	c.Server.DeferTimeout = durationEnv("RELAYBOT_DEFER_TIMEOUT", c.Server.DeferTimeout)
	c.Server.ShutdownTimeout = durationEnv("RELAYBOT_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.MaxBodyBytes = intEnv("RELAYBOT_MAX_BODY_BYTES", c.Server.MaxBodyBytes)

	stringEnv("RELAYBOT_DB_DSN", &c.Storage.DSN)
	stringEnv("RELAYBOT_MIGRATIONS_DIR", &c.Storage.MigrationsDir)

	stringEnv("RELAYBOT_LOG_LEVEL", &c.Log.Level)
	stringEnv("RELAYBOT_LOG_FORMAT", &c.Log.Format)
}

func stringEnv(key string, dst *string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
