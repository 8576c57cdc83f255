// Package config loads environment variables into a typed Config.
// Defaults let the binary start with only the credentials of the platforms it should connect to;
// use ValidateTwitch / ValidateTrovo before starting a platform.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Config aggregates configuration read from the environment
type Config struct {
	Twitch      TwitchConfig
	Trovo       TrovoConfig
	Log         LogConfig
	MetricsAddr string
}

// TwitchConfig holds the IRC login and the channels to join
type TwitchConfig struct {
	User      string
	Password  string
	Channels  []string
	Transport string
}

// TrovoConfig holds the open platform application credentials
type TrovoConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TokenFile    string
}

// LogConfig selects slog level and handler
type LogConfig struct {
	Level  string
	Format string
}

const (
	TransportWebSocket = "websocket"
	TransportTCP       = "tcp"
)

var ErrMissingCredentials = errors.New("missing credentials")

// Load reads environment variables and applies defaults
func Load() (*Config, error) {
	cfg := &Config{
		Twitch: TwitchConfig{
			User:      strings.TrimSpace(os.Getenv("TWITCH_USER")),
			Password:  strings.TrimSpace(os.Getenv("TWITCH_PASSWORD")),
			Channels:  splitAndTrim(os.Getenv("TWITCH_CHANNEL")),
			Transport: strings.ToLower(strings.TrimSpace(os.Getenv("TWITCH_TRANSPORT"))),
		},
		Trovo: TrovoConfig{
			ClientID:     strings.TrimSpace(os.Getenv("TROVO_CLIENT_ID")),
			ClientSecret: strings.TrimSpace(os.Getenv("TROVO_CLIENT_SECRET")),
			RedirectURL:  strings.TrimSpace(os.Getenv("TROVO_REDIRECT_URL")),
			TokenFile:    strings.TrimSpace(os.Getenv("TROVO_TOKEN_FILE")),
		},
		Log: LogConfig{
			Level:  strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
			Format: strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT"))),
		},
		MetricsAddr: strings.TrimSpace(os.Getenv("METRICS_ADDR")),
	}

	if cfg.Twitch.Transport == "" {
		cfg.Twitch.Transport = TransportWebSocket
	}
	if cfg.Twitch.Transport != TransportWebSocket && cfg.Twitch.Transport != TransportTCP {
		return nil, fmt.Errorf("invalid TWITCH_TRANSPORT %q (websocket|tcp)", cfg.Twitch.Transport)
	}
	if cfg.Twitch.Password != "" && !strings.HasPrefix(cfg.Twitch.Password, "oauth:") {
		cfg.Twitch.Password = "oauth:" + cfg.Twitch.Password
	}

	if cfg.Trovo.RedirectURL == "" {
		cfg.Trovo.RedirectURL = "https://fr.iarazumov.com/trovo"
	}
	if cfg.Trovo.TokenFile == "" {
		cfg.Trovo.TokenFile = "trovo.json"
	}

	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	return cfg, nil
}

// TwitchEnabled reports whether any Twitch setting was provided
func (c *Config) TwitchEnabled() bool {
	return c.Twitch.User != "" || c.Twitch.Password != "" || len(c.Twitch.Channels) > 0
}

// TrovoEnabled reports whether Trovo application credentials were provided
func (c *Config) TrovoEnabled() bool {
	return c.Trovo.ClientID != "" || c.Trovo.ClientSecret != ""
}

// ValidateTwitch ensures the chat login is complete
func (c *Config) ValidateTwitch() error {
	var missing []string
	if c.Twitch.User == "" {
		missing = append(missing, "TWITCH_USER")
	}
	if c.Twitch.Password == "" {
		missing = append(missing, "TWITCH_PASSWORD")
	}
	if len(c.Twitch.Channels) == 0 {
		missing = append(missing, "TWITCH_CHANNEL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateTrovo ensures the open platform credentials are complete
func (c *Config) ValidateTrovo() error {
	var missing []string
	if c.Trovo.ClientID == "" {
		missing = append(missing, "TROVO_CLIENT_ID")
	}
	if c.Trovo.ClientSecret == "" {
		missing = append(missing, "TROVO_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// SlogLevel maps Level to a slog.Level. ok is false for unknown values, which map to info.
func (l LogConfig) SlogLevel() (level slog.Level, ok bool) {
	switch l.Level {
	case "debug":
		return slog.LevelDebug, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	case "info", "":
		return slog.LevelInfo, true
	default:
		return slog.LevelInfo, false
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(p), "#"))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
