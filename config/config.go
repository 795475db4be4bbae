package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

const (
	DefaultHost = "0.0.0.0"
	DefaultPort = 8000
	FileName    = "config.json"
)

// SupabaseConfig is the optional connection section for the remote REST store.
// Empty values mean the backend is not configured.
type SupabaseConfig struct {
	URL     string `mapstructure:"url"`
	AnonKey string `mapstructure:"anonKey"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Root        string `mapstructure:"root"`
	Environment string `mapstructure:"environment"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Supabase SupabaseConfig `mapstructure:"supabase"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Default returns the configuration used when nothing could be loaded.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        DefaultHost,
			Port:        DefaultPort,
			Environment: EnvDev,
		},
		Logging: LoggingConfig{
			Level: LogLevelInfo,
		},
	}
}

// Load reads the JSON configuration at path and overlays environment variables.
// It never fails: read and decode problems are logged and defaults are used instead.
func Load(path string) *Config {
	v := viper.New()

	def := Default()
	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.anonKey", "")
	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.root", "")
	v.SetDefault("server.environment", def.Server.Environment)
	v.SetDefault("logging.level", def.Logging.Level)

	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		slog.Warn("failed to read config file, using defaults and environment variables",
			slog.String("file", path),
			slog.String("error", err.Error()))
	} else {
		slog.Info("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Warn("failed to decode config, using defaults", slog.String("error", err.Error()))
		return Default()
	}

	cfg.sanitize()

	return &cfg
}

// sanitize replaces invalid server or logging sections with their defaults.
// Sections that pass validation are left untouched.
func (c *Config) sanitize() {
	err := c.Validate()
	if err == nil {
		return
	}

	errs, ok := err.(validation.Errors)
	if !ok {
		errs = validation.Errors{fieldServer: err, fieldLogging: err}
	}

	def := Default()

	if serr := errs[fieldServer]; serr != nil {
		slog.Warn("invalid server configuration, using defaults", slog.String("error", serr.Error()))
		root := c.Server.Root
		c.Server = def.Server
		c.Server.Root = root
	}

	if lerr := errs[fieldLogging]; lerr != nil {
		slog.Warn("invalid logging configuration, using defaults", slog.String("error", lerr.Error()))
		c.Logging = def.Logging
	}
}

// Keys of the validation.Errors returned by Validate.
const (
	fieldServer  = "Server"
	fieldLogging = "Logging"
)

// Validate checks the server and logging sections. The supabase section is
// not checked: empty values there disable the probe.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server, validation.By(func(value interface{}) error {
			sc, ok := value.(ServerConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be a ServerConfig")
			}
			return validateServer(sc)
		})),
		validation.Field(&c.Logging, validation.By(func(value interface{}) error {
			lc, ok := value.(LoggingConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
			}
			return validateLogging(lc)
		})),
	)
}

func validateServer(sc ServerConfig) error {
	return validation.ValidateStruct(&sc,
		validation.Field(&sc.Host, validation.Required, is.Host),
		validation.Field(&sc.Port, validation.Min(0), validation.Max(65535)),
		validation.Field(&sc.Environment,
			validation.Required,
			validation.In(EnvDev, EnvStaging, EnvProd),
		),
	)
}

func validateLogging(lc LoggingConfig) error {
	return validation.ValidateStruct(&lc,
		validation.Field(&lc.Level,
			validation.Required,
			validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
		),
	)
}

// RootDir returns the directory static files are served from.
func (c *Config) RootDir() string {
	if c.Server.Root != "" {
		if abs, err := filepath.Abs(c.Server.Root); err == nil {
			return abs
		}
		return c.Server.Root
	}
	return ExecutableDir()
}

// ExecutableDir returns the directory holding the running binary, falling back
// to the working directory when it cannot be determined.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			return filepath.Dir(resolved)
		}
		return filepath.Dir(exe)
	}

	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// DefaultPath is the well-known configuration location next to the binary.
func DefaultPath() string {
	return filepath.Join(ExecutableDir(), FileName)
}
