// Package config loads settings for the long-running toolbox server and CLI.
// Values come from, in increasing precedence: built-in defaults, a
// toolbox.yaml file, a .env file and TOOLBOX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "TOOLBOX"

type Config struct {
	Addr           string
	MaxUploadBytes int64
	RequestTimeout time.Duration
	SessionTTL     time.Duration
	SweepInterval  time.Duration
	LogLevel       slog.Level
	// ConfigFile is the file the values were read from, empty when none was found.
	ConfigFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_mb", 50)
	v.SetDefault("server.request_timeout", "60s")
	v.SetDefault("sessions.ttl", "30m")
	v.SetDefault("sessions.sweep_interval", "1m")
	v.SetDefault("log.level", "info")
}

// Load reads the configuration. An explicit path must exist; otherwise
// toolbox.yaml is looked up in the working directory and ~/.config/toolbox.
func Load(path string) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("toolbox")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "toolbox"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Addr:           v.GetString("server.addr"),
		MaxUploadBytes: v.GetInt64("server.max_upload_mb") << 20,
		RequestTimeout: v.GetDuration("server.request_timeout"),
		SessionTTL:     v.GetDuration("sessions.ttl"),
		SweepInterval:  v.GetDuration("sessions.sweep_interval"),
		ConfigFile:     v.ConfigFileUsed(),
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log.level"))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", v.GetString("log.level"), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("server.addr must be set")
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("server.max_upload_mb must be positive")
	case c.RequestTimeout <= 0:
		return fmt.Errorf("server.request_timeout must be positive")
	case c.SessionTTL <= 0 || c.SweepInterval <= 0:
		return fmt.Errorf("session ttl and sweep interval must be positive")
	}
	return nil
}
