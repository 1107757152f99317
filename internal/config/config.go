package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	infraconfig "wealthwatch-service/internal/infrastructure/config"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port            string
	CORSOrigins     []string
	JWTSecret       string
	MaxBatchSymbols int
	// Providers
	Providers        []string
	AlphaVantageBase string
	AlphaVantageKey  string
	YahooBase        string
	RequestTimeout   time.Duration
	BatchConcurrency int
	// Resolution recorder
	Recorder      []string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
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

func msDef(s string, def time.Duration) time.Duration {
	ms, err := strconv.Atoi(s)
	if err != nil || ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

// splitList turns "a, b,,c" into [a b c]. "none" yields an empty list.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || p == "none" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Load reads environment variables and applies defaults.
func Load() Config {
	origins := []string{}
	for _, o := range strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return Config{
		Env:              getEnv("ENV", "local"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		Port:             getEnv("PORT", infraconfig.DefaultHTTPPort),
		CORSOrigins:      origins,
		JWTSecret:        getEnv("JWT_SECRET", ""),
		MaxBatchSymbols:  atoiDef(os.Getenv("MAX_BATCH_SYMBOLS"), infraconfig.DefaultMaxBatchSymbols),
		Providers:        splitList(getEnv("PROVIDERS", "alphavantage,yahoo")),
		AlphaVantageBase: getEnv("ALPHA_VANTAGE_BASE", "https://www.alphavantage.co"),
		AlphaVantageKey:  getEnv("ALPHA_VANTAGE_API_KEY", "demo"),
		YahooBase:        getEnv("YAHOO_BASE", "https://query1.finance.yahoo.com"),
		RequestTimeout:   msDef(os.Getenv("REQUEST_TIMEOUT_MS"), infraconfig.DefaultRequestTimeout),
		BatchConcurrency: atoiDef(os.Getenv("BATCH_CONCURRENCY"), infraconfig.DefaultBatchConcurrency),
		Recorder:         splitList(getEnv("RECORDER", "none")),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          atoiDef(getEnv("REDIS_DB", "0"), 0),
	}
}

// RecorderEnabled reports whether the named recorder backend is configured.
func (c Config) RecorderEnabled(name string) bool {
	for _, r := range c.Recorder {
		if r == name {
			return true
		}
	}
	return false
}
