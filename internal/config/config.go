package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration loaded from environment variables
// and an optional YAML file for the campaign deny-list.
type Config struct {
	HTTPPort     string
	DatabaseURL  string
	RedisURL     string
	AppMode      string
	FiberPrefork bool

	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnLifetime time.Duration
	DBMaxConnIdleTime time.Duration

	CacheTTL time.Duration

	WorkerBufferSize int
	WorkerBatchSize  int
	WorkerFlushEvery time.Duration

	// DefaultWorkspaceID substitutes for a missing workspace_id query
	// parameter in non-production modes only.
	DefaultWorkspaceID string

	// ExcludedCampaigns is the process-wide deny-list of campaign names
	// hidden from aggregate views unless requested by name.
	ExcludedCampaigns []string
}

// rawConfig mirrors the YAML structure for unmarshalling.
type rawConfig struct {
	ExcludedCampaigns []string `yaml:"excluded_campaigns"`
}

// Load reads configuration from environment variables with sane defaults.
// DATABASE_URL and REDIS_URL may be empty: the service then runs with a
// zeroed data path / no result cache respectively.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", ":8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		AppMode:            strings.ToLower(getEnv("APP_MODE", "dev")),
		FiberPrefork:       parseBoolEnv("FIBER_PREFORK", false),
		DBMaxConns:         parseInt32Env("DB_MAX_CONNS", 50),
		DBMinConns:         parseInt32Env("DB_MIN_CONNS", 10),
		DBMaxConnLifetime:  parseDurationEnv("DB_MAX_CONN_LIFETIME", 30*time.Minute),
		DBMaxConnIdleTime:  parseDurationEnv("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
		CacheTTL:           parseDurationEnv("CACHE_TTL", 30*time.Second),
		WorkerBufferSize:   parseIntEnv("WORKER_BUFFER_SIZE", 1000),
		WorkerBatchSize:    parseIntEnv("WORKER_BATCH_SIZE", 100),
		WorkerFlushEvery:   parseDurationEnv("WORKER_FLUSH_EVERY", 2*time.Second),
		DefaultWorkspaceID: os.Getenv("DEFAULT_WORKSPACE_ID"),
	}

	excluded, err := loadExcludedCampaigns()
	if err != nil {
		return nil, err
	}
	cfg.ExcludedCampaigns = excluded

	return cfg, nil
}

// loadExcludedCampaigns reads the deny-list from the YAML config file when
// present (with ${VAR} expansion), otherwise from the EXCLUDED_CAMPAIGNS
// environment variable as a comma-separated list.
func loadExcludedCampaigns() ([]string, error) {
	path := getEnv("CONFIG_PATH", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		return splitList(os.Getenv("EXCLUDED_CAMPAIGNS")), nil
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(raw.ExcludedCampaigns))
	for _, name := range raw.ExcludedCampaigns {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out, nil
}

func splitList(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseBoolEnv(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseInt32Env(key string, fallback int32) int32 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return int32(parsed)
}

func parseIntEnv(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseDurationEnv(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
