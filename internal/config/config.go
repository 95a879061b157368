package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port           string
	MetricsEnabled bool
	// Upstream exchange API
	Provider        string
	ExchangeAPIBase string
	RequestTimeout  time.Duration
	DirectionStatus string
	UpstreamWait    time.Duration
	// Request generations
	GenerationsBackend string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	GenerationTTL      time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func boolDef(s string, def bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:                getEnv("ENV", "local"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Port:               getEnv("PORT", "8080"),
		MetricsEnabled:     boolDef(getEnv("METRICS_ENABLED", "true"), true),
		Provider:           getEnv("PROVIDER", "fake"),
		ExchangeAPIBase:    getEnv("EXCHANGE_API_BASE", "http://localhost:3000/api"),
		RequestTimeout:     time.Duration(atoiDef(getEnv("REQUEST_TIMEOUT_MS", "3000"), 3000)) * time.Millisecond,
		DirectionStatus:    getEnv("DIRECTION_STATUS", ""),
		UpstreamWait:       time.Duration(atoiDef(getEnv("UPSTREAM_WAIT_MS", "10000"), 10000)) * time.Millisecond,
		GenerationsBackend: getEnv("GENERATIONS_BACKEND", "memory"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            atoiDef(getEnv("REDIS_DB", "0"), 0),
		GenerationTTL:      time.Duration(atoiDef(getEnv("GENERATION_TTL_MS", "3600000"), 3600000)) * time.Millisecond,
	}
}
