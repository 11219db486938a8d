package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DefaultHTTPTimeout bounds every API call. Timetable generation is a single
// long-running request, so the bound is deliberately generous.
const DefaultHTTPTimeout = 120 * time.Second

type Config struct {
	Env string

	API      APIConfig
	Session  SessionConfig
	Download DownloadConfig
	Log      LogConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig locates the durable session database.
type SessionConfig struct {
	DBPath string
}

// DownloadConfig controls where exported and downloaded files land.
type DownloadConfig struct {
	Dir string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from .env and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.API = APIConfig{
		BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("HTTP_TIMEOUT"), DefaultHTTPTimeout),
	}

	cfg.Session = SessionConfig{
		DBPath: v.GetString("SESSION_DB_PATH"),
	}

	cfg.Download = DownloadConfig{
		Dir: v.GetString("DOWNLOAD_DIR"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("API_BASE_URL", "http://localhost:8080/api")
	v.SetDefault("HTTP_TIMEOUT", "120s")
	v.SetDefault("SESSION_DB_PATH", ".schedulify/session.db")
	v.SetDefault("DOWNLOAD_DIR", "./downloads")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
