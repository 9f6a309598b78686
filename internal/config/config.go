// Package config provides Viper-based configuration loading for the lobby server.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override file settings,
// e.g. LOBBY_LOBBY_GRPC_PORT overrides lobby.grpc_port.
const EnvPrefix = "LOBBY"

// ServerConfig holds top-level server settings.
type ServerConfig struct {
	// Name identifies this server instance in logs.
	Name string `mapstructure:"name" validate:"required"`
}

// LobbyConfig holds the lobby gRPC service settings.
type LobbyConfig struct {
	// GRPCHost is the bind/connect address for the lobby gRPC service.
	GRPCHost string `mapstructure:"grpc_host" validate:"required"`
	// GRPCPort is the TCP port for the lobby gRPC service.
	GRPCPort int `mapstructure:"grpc_port" validate:"min=1,max=65535"`
	// MaxMessageBytes caps the size of a single request or response, which in
	// practice bounds the size of an uploaded or downloaded file.
	MaxMessageBytes int `mapstructure:"max_message_bytes" validate:"min=1024"`
	// ShutdownTimeout bounds how long a graceful stop waits for in-flight calls.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// Addr returns the "host:port" gRPC address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (l LobbyConfig) Addr() string {
	return fmt.Sprintf("%s:%d", l.GRPCHost, l.GRPCPort)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Lobby   LobbyConfig   `mapstructure:"lobby"`
	Logging LoggingConfig `mapstructure:"logging"`
}

var validate = newValidator()

// newValidator reports fields by their mapstructure key so that messages read
// like the YAML the operator wrote.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating configuration: %w", err)
	}
	errs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, describe(fe))
	}
	return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s must not be empty", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	case "min", "gte":
		return fmt.Sprintf("%s must be >= %s, got %v", field, fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("%s must be <= %s, got %v", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %q validation, got %v", field, fe.Tag(), fe.Value())
	}
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the built-in defaults.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "lobby")

	v.SetDefault("lobby.grpc_host", "0.0.0.0")
	v.SetDefault("lobby.grpc_port", 8100)
	v.SetDefault("lobby.max_message_bytes", 10<<20)
	v.SetDefault("lobby.shutdown_timeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
