package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

type Config struct {
	Port        string
	Environment string

	// Job data source
	DataSource    string // "file" or "postgres"
	DataDir       string
	DataURL       string // optional http base URL serving the JSON files
	DatabaseURL   string
	FetchTimeout  time.Duration
	FetchMaxBytes int64 // per remote data file
	WatchData     bool
	ReloadSpec    string // cron spec for the postgres refresher
	CORSOrigins   []string
	DefaultLimit  int
	MaxLimit      int
	EnvFileLoaded bool
}

// LoadConfig reads .env (if present) and the process environment. Invalid
// values are errors so the service refuses to start with a bad setup.
func LoadConfig() (*Config, error) {
	envLoaded := godotenv.Load() == nil

	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		Environment:   getenv("ENVIRONMENT", "development"),
		DataSource:    strings.ToLower(getenv("DATA_SOURCE", SourceFile)),
		DataDir:       getenv("DATA_DIR", "./data"),
		DataURL:       os.Getenv("DATA_URL"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		ReloadSpec:    getenv("RELOAD_SPEC", "@every 5m"),
		EnvFileLoaded: envLoaded,
	}

	var err error
	if cfg.WatchData, err = getBool("WATCH_DATA", true); err != nil {
		return nil, err
	}
	if cfg.DefaultLimit, err = getPositiveInt("DEFAULT_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.MaxLimit, err = getPositiveInt("MAX_LIMIT", 100); err != nil {
		return nil, err
	}
	if cfg.DefaultLimit > cfg.MaxLimit {
		return nil, fmt.Errorf("DEFAULT_LIMIT (%d) must not exceed MAX_LIMIT (%d)", cfg.DefaultLimit, cfg.MaxLimit)
	}
	timeoutSecs, err := getPositiveInt("FETCH_TIMEOUT_SECONDS", 15)
	if err != nil {
		return nil, err
	}
	cfg.FetchTimeout = time.Duration(timeoutSecs) * time.Second
	maxMB, err := getPositiveInt("FETCH_MAX_MB", 64)
	if err != nil {
		return nil, err
	}
	cfg.FetchMaxBytes = int64(maxMB) << 20

	for _, o := range strings.Split(getenv("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	switch cfg.DataSource {
	case SourceFile:
	case SourcePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when DATA_SOURCE=postgres")
		}
	default:
		return nil, fmt.Errorf("DATA_SOURCE must be %q or %q, got %q", SourceFile, SourcePostgres, cfg.DataSource)
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getPositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, s)
	}
	return v, nil
}

func getBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, s)
	}
	return v, nil
}
