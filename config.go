package main

import (
	"flag"
	"fmt"
	"strings"
)

// Storage backends the API can run on.
const (
	backendMemory = "memory"
	backendRedis  = "redis"
	backendSQLite = "sqlite"
)

// Config holds runtime settings for the luggage API server.
type Config struct {
	HTTPAddr   string
	Backend    string
	RedisAddr  string
	SQLitePath string
	LogLevel   string
	LogFormat  string
}

// LoadDefaults populates c with defaults. The memory backend keeps items
// for the lifetime of the process only.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":9090"
	c.Backend = backendMemory
	c.RedisAddr = "localhost:6379"
	c.SQLitePath = "luggage.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig applies defaults, then environment variables, then flags.
// Later sources take precedence over earlier ones.
func LoadConfig(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, getenv)
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseEnv overlays HTTP_ADDR, STORE_BACKEND, REDIS_ADDR, SQLITE_PATH,
// LOG_LEVEL and LOG_FORMAT. Empty variables are ignored.
func parseEnv(cfg *Config, getenv func(string) string) {
	for name, dst := range map[string]*string{
		"HTTP_ADDR":     &cfg.HTTPAddr,
		"STORE_BACKEND": &cfg.Backend,
		"REDIS_ADDR":    &cfg.RedisAddr,
		"SQLITE_PATH":   &cfg.SQLitePath,
		"LOG_LEVEL":     &cfg.LogLevel,
		"LOG_FORMAT":    &cfg.LogFormat,
	} {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			*dst = v
		}
	}
}

func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("luggage-api", flag.ContinueOnError)

	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "address to listen on")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "storage backend: memory, redis or sqlite")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "redis address (redis backend)")
	fs.StringVar(&cfg.SQLitePath, "sqlite", cfg.SQLitePath, "database file (sqlite backend)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json")

	return fs.Parse(args)
}

func (c *Config) validate() error {
	c.Backend = strings.ToLower(c.Backend)
	switch c.Backend {
	case backendMemory, backendRedis, backendSQLite:
		return nil
	}
	return fmt.Errorf("unknown storage backend %q", c.Backend)
}
