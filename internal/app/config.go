package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/hadrian75/campusfound/internal/database"
	"github.com/hadrian75/campusfound/internal/storage"
	"github.com/hadrian75/campusfound/pkg/mail"
)

// Config is the full application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    database.Config   `mapstructure:"database"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Tokens      TokenConfig       `mapstructure:"tokens"`
	Email       mail.Settings     `mapstructure:"email"`
	Storage     storage.Settings  `mapstructure:"storage"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	LogLevel    string            `mapstructure:"log_level"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	CORSOrigin string `mapstructure:"cors_origin"`
}

// AuthConfig holds JWT settings.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// TokenConfig holds the lifetimes for verification and reset tokens.
type TokenConfig struct {
	VerificationTTL time.Duration `mapstructure:"verification_ttl"`
	ResetTTL        time.Duration `mapstructure:"reset_ttl"`
}

// MaintenanceConfig holds the background cleanup settings.
type MaintenanceConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// LoadConfig reads configuration from an optional YAML file and CLFS_
// environment variables. Environment variables win.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/campusfound.db")
	v.SetDefault("auth.issuer", "campusfound")
	v.SetDefault("auth.token_ttl", "12h")
	v.SetDefault("tokens.verification_ttl", "30m")
	v.SetDefault("tokens.reset_ttl", "30m")
	v.SetDefault("email.port", 587)
	v.SetDefault("email.timeout", "10s")
	v.SetDefault("storage.timeout", "30s")
	v.SetDefault("maintenance.enabled", true)
	v.SetDefault("maintenance.schedule", "@hourly")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("CLFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	return nil
}

// Addr returns the listener address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
