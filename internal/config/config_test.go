package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "kinship", cfg.MongoDatabase)
	assert.True(t, cfg.MongoTransactions)
	assert.Equal(t, 168*time.Hour, cfg.JWTTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MONGO")
	t.Setenv("MONGO_TRANSACTIONS", "false")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("SERVER_ADDR", ":9090")

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.False(t, cfg.MongoTransactions)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, ":9090", cfg.ServerAddr)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{StoreDriver: DriverPostgres, DatabaseURL: "postgres://x", JWTSecret: "k", JWTTTL: time.Hour}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(*Config) {}, ""},
		{"missing dsn", func(c *Config) { c.DatabaseURL = "" }, "DATABASE_URL"},
		{"unknown driver", func(c *Config) { c.StoreDriver = "sqlite" }, "STORE_DRIVER"},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"zero ttl", func(c *Config) { c.JWTTTL = 0 }, "JWT_TTL"},
		{"mongo without db", func(c *Config) { c.StoreDriver = DriverMongo; c.MongoURI = "mongodb://x" }, "MONGO_DATABASE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
