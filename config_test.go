package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luggagetracker/internal/slot"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":9090", c.HTTPAddr)
	assert.Equal(t, backendMemory, c.Backend)
	assert.Equal(t, "localhost:6379", c.RedisAddr)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil, env(map[string]string{
		"HTTP_ADDR":     ":8080",
		"STORE_BACKEND": "Redis",
		"REDIS_ADDR":    "cache:6379",
		"LOG_FORMAT":    "json",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, backendRedis, cfg.Backend)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "luggage.db", cfg.SQLitePath)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	cfg, err := LoadConfig(
		[]string{"-a", ":7000", "-backend", "sqlite", "-sqlite", "/tmp/l.db", "-log-level", "debug"},
		env(map[string]string{"HTTP_ADDR": ":8080", "STORE_BACKEND": "redis"}),
	)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.HTTPAddr)
	assert.Equal(t, backendSQLite, cfg.Backend)
	assert.Equal(t, "/tmp/l.db", cfg.SQLitePath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_Rejects(t *testing.T) {
	_, err := LoadConfig([]string{"-backend", "etcd"}, env(nil))
	assert.Error(t, err)

	_, err = LoadConfig([]string{"-nope"}, env(nil))
	assert.Error(t, err)
}

func TestOpenSlot_MemoryAndSQLite(t *testing.T) {
	ctx := context.Background()

	s, closeFn, err := openSlot(ctx, &Config{Backend: backendMemory})
	require.NoError(t, err)
	assert.IsType(t, &slot.Memory{}, s)
	assert.NoError(t, closeFn())

	s, closeFn, err = openSlot(ctx, &Config{Backend: backendSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &slot.SQLite{}, s)
	assert.Equal(t, slot.DefaultKey, s.Key())
	assert.NoError(t, closeFn())
}

func TestOpenSlot_RedisUnreachable(t *testing.T) {
	_, _, err := openSlot(context.Background(), &Config{Backend: backendRedis, RedisAddr: "127.0.0.1:1"})
	assert.Error(t, err)
}
