// Package config loads snipshare configuration.
//
// Values are layered: built-in defaults, then an optional TOML file, then
// SNIPSHARE_* environment variables (SNIPSHARE_STORAGE_PATH overrides
// storage.path, and so on). The result is validated before use.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/sakif/snipshare/internal/model"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "SNIPSHARE"

// Config is the top-level configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage" toml:"storage"`
	Server  ServerConfig  `mapstructure:"server" toml:"server"`
	Auth    AuthConfig    `mapstructure:"auth" toml:"auth"`
	Seed    SeedConfig    `mapstructure:"seed" toml:"seed"`
	Log     LogConfig     `mapstructure:"log" toml:"log"`
}

// StorageConfig selects the key-value backend.
// Path is only read for the sqlite backend.
type StorageConfig struct {
	Type string `mapstructure:"type" toml:"type" validate:"oneof=sqlite memory"` // "sqlite" or "memory"
	Path string `mapstructure:"path" toml:"path,omitempty" validate:"required_if=Type sqlite"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" toml:"port" validate:"min=1,max=65535"`
}

// AuthConfig controls credentials handling.
// JWTSecret empty disables the HTTP API's authenticated routes.
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret" toml:"jwt_secret" validate:"omitempty,min=16"`
	TokenTTL      time.Duration `mapstructure:"token_ttl" toml:"token_ttl" validate:"gt=0"`
	HashPasswords bool          `mapstructure:"hash_passwords" toml:"hash_passwords"`
	BcryptCost    int           `mapstructure:"bcrypt_cost" toml:"bcrypt_cost" validate:"min=4,max=31"`
}

// SeedConfig describes the admin account created on first run.
type SeedConfig struct {
	Enabled       bool   `mapstructure:"enabled" toml:"enabled"`
	AdminUsername string `mapstructure:"admin_username" toml:"admin_username" validate:"required_if=Enabled true,username"`
	AdminPassword string `mapstructure:"admin_password" toml:"admin_password" validate:"required_if=Enabled true"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" toml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" toml:"format" validate:"oneof=text json"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{Type: "sqlite", Path: filepath.Join("data", "snipshare.db")},
		Server:  ServerConfig{Port: 8080},
		Auth: AuthConfig{
			TokenTTL:   15 * time.Minute,
			BcryptCost: 12,
		},
		Seed: SeedConfig{
			Enabled:       true,
			AdminUsername: "dapsz1",
			AdminPassword: "082197",
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load builds a Config from defaults, the file at path (if non-empty) and
// the environment. With an empty path, ./snipshare.toml and
// ./config/snipshare.toml are tried and silently skipped when absent.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	} else {
		v.SetConfigName("snipshare")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("storage.type", d.Storage.Type)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("auth.jwt_secret", d.Auth.JWTSecret)
	v.SetDefault("auth.token_ttl", d.Auth.TokenTTL)
	v.SetDefault("auth.hash_passwords", d.Auth.HashPasswords)
	v.SetDefault("auth.bcrypt_cost", d.Auth.BcryptCost)
	v.SetDefault("seed.enabled", d.Seed.Enabled)
	v.SetDefault("seed.admin_username", d.Seed.AdminUsername)
	v.SetDefault("seed.admin_password", d.Seed.AdminPassword)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

var validate = newValidator()

// newValidator adds the "username" tag: empty or letters, digits and underscores.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		return name == "" || model.ValidUsername(name)
	})
	return v
}

// Validate checks every field constraint and reports all violations at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: validating: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("config: invalid configuration: %s", strings.Join(msgs, "; "))
}

// WriteFile encodes cfg as TOML at path, creating parent directories.
func WriteFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: creating directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: creating file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("config: encoding %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to path unless a file already exists there.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: file already exists at %s", path)
	}
	return WriteFile(path, cfg)
}
