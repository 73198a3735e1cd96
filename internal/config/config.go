// Package config loads runtime settings from flags, environment, .env and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides: CIVICSCRIBE_STORE_DRIVER and so on.
const EnvPrefix = "CIVICSCRIBE"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// Config is the complete runtime configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Pacing  time.Duration `mapstructure:"pacing" validate:"gte=0"`
	Store   StoreConfig   `mapstructure:"store"`
	Server  ServerConfig  `mapstructure:"server"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Session SessionConfig `mapstructure:"session"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type StoreConfig struct {
	Driver string      `mapstructure:"driver" validate:"oneof=memory file redis"`
	Path   string      `mapstructure:"path" validate:"required_if=Driver file"`
	Redis  RedisConfig `mapstructure:"redis"`
	// EncryptionKey is a base64 AES-256 key. Empty disables encryption at rest.
	EncryptionKey string `mapstructure:"encryption_key" validate:"omitempty,base64"`
	// PIIMask stores a masked copy of contact fields. Masked sessions cannot be resumed faithfully.
	PIIMask bool `mapstructure:"pii_mask"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr" validate:"required,hostname_port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db" validate:"gte=0,lte=15"`
	Prefix   string        `mapstructure:"prefix" validate:"required"`
	TTL      time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type SessionConfig struct {
	LockTTL time.Duration `mapstructure:"lock_ttl" validate:"gt=0"`
}

// SetDefaults registers every key so environment overrides are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("pacing", "0s")
	v.SetDefault("store.driver", DriverFile)
	v.SetDefault("store.path", ".civicscribe/sessions")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "civicscribe:session:")
	v.SetDefault("store.redis.ttl", "720h")
	v.SetDefault("store.encryption_key", "")
	v.SetDefault("store.pii_mask", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("session.lock_ttl", "30s")
}

// Load reads configuration into a fresh viper instance.
// Precedence, highest first: values already set on v (bound flags), environment
// (including .env files), the config file, defaults.
// configFile may be empty, in which case civicscribe.yaml is looked up in the
// working directory and ~/.civicscribe, and its absence is not an error.
func Load(v *viper.Viper, configFile string, envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("civicscribe")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.civicscribe")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFiles applies .env files without overriding variables already set.
// Missing files are skipped.
func loadEnvFiles(paths []string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("error loading %s: %w", p, err)
		}
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the shape of the configuration. Redis settings are only
// checked when the redis driver is selected.
func (c *Config) Validate() error {
	if err := validate.StructExcept(c, "Store.Redis"); err != nil {
		return describe(err)
	}
	if c.Store.Driver == DriverRedis {
		if err := validate.Struct(c.Store.Redis); err != nil {
			return describe(err)
		}
	}
	return nil
}

// describe flattens validator errors into one readable message.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
	}
	return errors.New(strings.Join(msgs, "; "))
}
