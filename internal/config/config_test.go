package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		AppPort:            8080,
		AppEnv:             "development",
		BcryptCost:         12,
		LogLevel:           "info",
		LogFormat:          "json",
		MongoURI:           "mongodb://mongo:27017",
		MongoDBName:        "natours",
		JWTSecret:          "this-is-a-test-jwt-secret-with-32-plus-chars",
		JWTExpiresDays:     90,
		CookieExpiresDays:  90,
		ResetTokenMinutes:  10,
		RateLimitMax:       99,
		RateLimitWindowMin: 60,
	}
}

func TestLoadDefaults(t *testing.T) {
	ResetCache()
	t.Cleanup(ResetCache)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.AppPort)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "natours", cfg.MongoDBName)
	assert.Equal(t, 90, cfg.JWTExpiresDays)
	assert.Equal(t, 10, cfg.ResetTokenMinutes)
	assert.False(t, cfg.IsProduction())
}

func TestLoadHonorsEnvironment(t *testing.T) {
	ResetCache()
	t.Cleanup(ResetCache)

	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, 9090, cfg.AppPort)
	assert.True(t, cfg.IsProduction())
}

func TestLoadCaches(t *testing.T) {
	ResetCache()
	t.Cleanup(ResetCache)

	first, err := Load()
	require.NoError(t, err)

	// Later environment changes must not leak into the cached config
	t.Setenv("APP_PORT", "1234")
	second, err := Load()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.AppPort = 0 }, "APP_PORT"},
		{"unknown env", func(c *Config) { c.AppEnv = "staging" }, "APP_ENV"},
		{"bcrypt cost too low", func(c *Config) { c.BcryptCost = 4 }, "BCRYPT_COST"},
		{"bcrypt cost too high", func(c *Config) { c.BcryptCost = 31 }, "BCRYPT_COST"},
		{"short jwt secret", func(c *Config) { c.JWTSecret = "short" }, "JWT_SECRET"},
		{"missing mongo uri", func(c *Config) { c.MongoURI = "" }, "MONGO_URI"},
		{"zero reset window", func(c *Config) { c.ResetTokenMinutes = 0 }, "RESET_TOKEN_MINUTES"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
