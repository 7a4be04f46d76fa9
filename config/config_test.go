package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MIN_AGE", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("VALIDATION_ERROR_FORMAT", "")

	cfg := Load()
	assert.Equal(t, 18, cfg.MinAge)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, "concat", cfg.ValidationErrorFormat)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
}

func TestLoadOverrides(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, c *Config)
	}{
		{
			name:  "min_age",
			key:   "MIN_AGE",
			value: "21",
			check: func(t *testing.T, c *Config) { assert.Equal(t, 21, c.MinAge) },
		},
		{
			name:  "invalid_min_age_falls_back",
			key:   "MIN_AGE",
			value: "adult",
			check: func(t *testing.T, c *Config) { assert.Equal(t, 18, c.MinAge) },
		},
		{
			name:  "store_driver_lowercased",
			key:   "STORE_DRIVER",
			value: "Memory",
			check: func(t *testing.T, c *Config) { assert.Equal(t, "memory", c.StoreDriver) },
		},
		{
			name:  "cache_ttl",
			key:   "CACHE_TTL",
			value: "30s",
			check: func(t *testing.T, c *Config) { assert.Equal(t, 30*time.Second, c.CacheTTL) },
		},
		{
			name:  "bad_bool_falls_back",
			key:   "MAIL_SEND_ENABLED",
			value: "sometimes",
			check: func(t *testing.T, c *Config) { assert.True(t, c.MailSendEnabled) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			tt.check(t, Load())
		})
	}
}

func TestCSVHelpers(t *testing.T) {
	c := &Config{
		CORSAllowedOrigins: " http://a.test ,, http://b.test",
		ElasticsearchAddrs: "",
	}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORSOrigins())
	assert.Empty(t, c.ESAddrs())
}

func TestPostgresDSN(t *testing.T) {
	c := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "users", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/users?sslmode=disable", c.PostgresDSN())
}
