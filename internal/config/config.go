package config

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"relaybot/internal/domain/completion"
	"relaybot/internal/domain/interaction"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidConfig      = errors.New("invalid config")
)

type Config struct {
	Discord    DiscordConfig    `yaml:"discord"`
	Completion CompletionConfig `yaml:"completion"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
}

type DiscordConfig struct {
	ApplicationID string `yaml:"application_id"`
	BotToken      string `yaml:"bot_token"`
	// PublicKey is the hex Ed25519 key used to verify inbound requests.
	// Verification is off when empty.
	PublicKey   string `yaml:"public_key"`
	APIBase     string `yaml:"api_base"`
	CommandFile string `yaml:"command_file"`
}

type CompletionConfig struct {
	APIKey    string `yaml:"api_key"`
	Endpoint  string `yaml:"endpoint"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

type ServerConfig struct {
	ListenAddr      string        `yaml:"listen_addr"`
	MaxBodyBytes    int           `yaml:"max_body_bytes"`
	MaxInFlight     int           `yaml:"max_in_flight"`
	HTTPTimeout     time.Duration `yaml:"http_timeout"`
	DeferTimeout    time.Duration `yaml:"defer_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type StorageConfig struct {
	DSN           string `yaml:"dsn"`
	MigrationsDir string `yaml:"migrations_dir"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		Discord: DiscordConfig{APIBase: interaction.DefaultAPIBase},
		Completion: CompletionConfig{
			Endpoint:  completion.DefaultEndpoint,
			Model:     completion.DefaultModel,
			MaxTokens: completion.DefaultMaxTokens,
		},
		Server: ServerConfig{
			ListenAddr:      "127.0.0.1:3000",
			MaxBodyBytes:    1 << 20,
			MaxInFlight:     16,
			HTTPTimeout:     60 * time.Second,
			DeferTimeout:    3 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads the optional YAML file at path over the defaults, then applies
// RELAYBOT_* environment overrides. It does not validate.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := osOpen(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config file: %w", err)
		}
		defer f.Close()

		raw, err := io.ReadAll(f)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse config yaml: %w", err)
		}
	}
	cfg.applyEnvOverrides()
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.Discord.ApplicationID = strings.TrimSpace(c.Discord.ApplicationID)
	c.Discord.BotToken = strings.TrimSpace(c.Discord.BotToken)
	c.Discord.PublicKey = strings.TrimSpace(c.Discord.PublicKey)
	c.Discord.APIBase = strings.TrimRight(strings.TrimSpace(c.Discord.APIBase), "/")
	c.Completion.APIKey = strings.TrimSpace(c.Completion.APIKey)
	c.Completion.Endpoint = strings.TrimSpace(c.Completion.Endpoint)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))

	def := Default()
	if c.Discord.APIBase == "" {
		c.Discord.APIBase = def.Discord.APIBase
	}
	if c.Completion.Endpoint == "" {
		c.Completion.Endpoint = def.Completion.Endpoint
	}
	if strings.TrimSpace(c.Completion.Model) == "" {
		c.Completion.Model = def.Completion.Model
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = def.Server.ListenAddr
	}
}

// Validate reports missing credentials as ErrMissingCredentials and any
// other unusable setting as ErrInvalidConfig.
func (c Config) Validate() error {
	var missing []string
	if c.Discord.ApplicationID == "" {
		missing = append(missing, "discord.application_id")
	}
	if c.Discord.BotToken == "" {
		missing = append(missing, "discord.bot_token")
	}
	if c.Completion.APIKey == "" {
		missing = append(missing, "completion.api_key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	if c.Discord.PublicKey != "" {
		if _, err := c.PublicKey(); err != nil {
			return err
		}
	}
	if c.Completion.MaxTokens <= 0 {
		return fmt.Errorf("%w: completion.max_tokens must be positive", ErrInvalidConfig)
	}
	if c.Server.MaxInFlight <= 0 {
		return fmt.Errorf("%w: server.max_in_flight must be positive", ErrInvalidConfig)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: server.max_body_bytes must be positive", ErrInvalidConfig)
	}
	for _, d := range []struct {
		key   string
		value time.Duration
	}{
		{key: "server.http_timeout", value: c.Server.HTTPTimeout},
		{key: "server.defer_timeout", value: c.Server.DeferTimeout},
		{key: "server.shutdown_timeout", value: c.Server.ShutdownTimeout},
	} {
		if d.value <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, d.key)
		}
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// PublicKey decodes discord.public_key. It returns nil when unset.
func (c Config) PublicKey() (ed25519.PublicKey, error) {
	if c.Discord.PublicKey == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(c.Discord.PublicKey)
	if err != nil || len(b) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: discord.public_key must be %d hex-encoded bytes", ErrInvalidConfig, ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(b), nil
}

// osOpen is separated for testability.
var osOpen = func(path string) (io.ReadCloser, error) {
	return os.Open(path)
}
