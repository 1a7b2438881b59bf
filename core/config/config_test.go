package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expertpicks/clientcore/core/config"
)

// Each test declares its own config type: parsed values are cached per type
// for the life of the process, so reusing a type across tests would leak
// state between them. t.Setenv also rules out t.Parallel here.

func TestLoad(t *testing.T) {
	t.Run("reads values from the environment", func(t *testing.T) {
		type testConfig struct {
			Endpoint string        `env:"TEST_LOAD_ENDPOINT"`
			Interval time.Duration `env:"TEST_LOAD_INTERVAL" envDefault:"60s"`
		}

		t.Setenv("TEST_LOAD_ENDPOINT", "https://api.example.com")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "https://api.example.com", cfg.Endpoint)
		assert.Equal(t, time.Minute, cfg.Interval)
	})

	t.Run("applies defaults when variables are unset", func(t *testing.T) {
		type defaultsConfig struct {
			Roles []string `env:"TEST_DEFAULTS_ROLES" envDefault:"ROLE_EXPERT_VERIFIED,ROLE_BRAND_VERIFIED"`
		}

		var cfg defaultsConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, []string{"ROLE_EXPERT_VERIFIED", "ROLE_BRAND_VERIFIED"}, cfg.Roles)
	})

	t.Run("overrides beat defaults", func(t *testing.T) {
		type overrideConfig struct {
			Interval time.Duration `env:"TEST_OVERRIDE_INTERVAL" envDefault:"150s"`
		}

		t.Setenv("TEST_OVERRIDE_INTERVAL", "30s")

		var cfg overrideConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, 30*time.Second, cfg.Interval)
	})

	t.Run("caches the first parse per type", func(t *testing.T) {
		type cachedConfig struct {
			Value string `env:"TEST_CACHED_VALUE"`
		}

		t.Setenv("TEST_CACHED_VALUE", "first")

		var first cachedConfig
		require.NoError(t, config.Load(&first))
		require.Equal(t, "first", first.Value)

		t.Setenv("TEST_CACHED_VALUE", "second")

		var second cachedConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, "first", second.Value, "same type must return the cached value")
	})

	t.Run("rejects a nil target", func(t *testing.T) {
		var cfg *struct{}
		err := config.Load(cfg)
		assert.ErrorIs(t, err, config.ErrNilConfig)
	})

	t.Run("reports parse failures", func(t *testing.T) {
		type badConfig struct {
			Interval time.Duration `env:"TEST_BAD_INTERVAL"`
		}

		t.Setenv("TEST_BAD_INTERVAL", "not-a-duration")

		var cfg badConfig
		assert.Error(t, config.Load(&cfg))
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("returns the parsed config", func(t *testing.T) {
		type mustConfig struct {
			Name string `env:"TEST_MUST_NAME" envDefault:"expertpicks"`
		}

		var cfg mustConfig
		require.NotPanics(t, func() { config.MustLoad(&cfg) })
		assert.Equal(t, "expertpicks", cfg.Name)
	})

	t.Run("panics on failure", func(t *testing.T) {
		type mustBadConfig struct {
			Count int `env:"TEST_MUST_BAD_COUNT"`
		}

		t.Setenv("TEST_MUST_BAD_COUNT", "not-a-number")

		var cfg mustBadConfig
		assert.Panics(t, func() { config.MustLoad(&cfg) })
	})
}
