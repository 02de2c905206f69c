package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"agroprod/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	API      APIConfig      `mapstructure:"api"`
	Session  SessionConfig  `mapstructure:"session"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds dashboard web server settings
type ServerConfig struct {
	Port        string `mapstructure:"port"`
	GinMode     string `mapstructure:"gin_mode"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb"`
}

// APIConfig holds settings of the stateless JSON API
type APIConfig struct {
	Port        string `mapstructure:"port"`
	CORSOrigins string `mapstructure:"cors_origins"`
}

// SessionConfig controls how long an idle dashboard session keeps its dataset
type SessionConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// AnalysisConfig holds aggregation settings
type AnalysisConfig struct {
	TopN int `mapstructure:"top_n"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MaxUploadBytes is the request body limit for uploads.
func (s ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}

// Origins splits the comma separated CORS origin list.
func (a APIConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(a.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// keys maps config keys to the environment variables they are read from.
var keys = map[string]string{
	"server.port":            "PORT",
	"server.gin_mode":        "GIN_MODE",
	"server.max_upload_mb":   "MAX_UPLOAD_MB",
	"api.port":               "API_PORT",
	"api.cors_origins":       "CORS_ORIGINS",
	"session.ttl":            "SESSION_TTL",
	"session.sweep_interval": "SESSION_SWEEP_INTERVAL",
	"analysis.top_n":         "TOP_N",
	"log.level":              "LOG_LEVEL",
	"log.format":             "LOG_FORMAT",
}

// Load reads configuration from an optional .env file and the environment,
// then validates it.
func Load() (*Config, error) {
	// .env is optional; variables already set win
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	for key, env := range keys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, errors.Wrapf(err, "failed to bind %s", env)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrap(err, "failed to decode configuration"))
	}

	cfg.Log.Level = strings.ToUpper(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	if err := validateConfig(&cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("server.max_upload_mb", 50)
	v.SetDefault("api.port", "8081")
	v.SetDefault("api.cors_origins", "*")
	v.SetDefault("session.ttl", 2*time.Hour)
	v.SetDefault("session.sweep_interval", 10*time.Minute)
	v.SetDefault("analysis.top_n", 5)
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.format", "json")
}

func validateConfig(config *Config) error {
	if !validPort(config.Server.Port) {
		return errors.ConfigInvalid("PORT must be a TCP port number")
	}
	if !validPort(config.API.Port) {
		return errors.ConfigInvalid("API_PORT must be a TCP port number")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	if config.Server.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Session.TTL <= 0 || config.Session.SweepInterval <= 0 {
		return errors.ConfigInvalid("SESSION_TTL and SESSION_SWEEP_INTERVAL must be positive")
	}
	if config.Analysis.TopN < 1 {
		return errors.ConfigInvalid("TOP_N must be at least 1")
	}
	switch config.Log.Level {
	case "ERROR", "WARN", "INFO", "DEBUG", "TRACE":
	default:
		return errors.ConfigInvalid("LOG_LEVEL must be one of ERROR, WARN, INFO, DEBUG, TRACE")
	}
	switch config.Log.Format {
	case "json", "console":
	default:
		return errors.ConfigInvalid("LOG_FORMAT must be json or console")
	}
	return nil
}

func validPort(p string) bool {
	n, err := strconv.Atoi(p)
	return err == nil && n > 0 && n < 65536
}
