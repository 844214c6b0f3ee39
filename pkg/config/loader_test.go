package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mssession/pkg/config"
	"github.com/dmitrymomot/mssession/pkg/mssession"
)

type defaultsConfig struct {
	Name    string        `env:"CONFIG_TEST_DEFAULT_NAME" envDefault:"mssession"`
	Timeout time.Duration `env:"CONFIG_TEST_DEFAULT_TIMEOUT" envDefault:"30m"`
	Enabled bool          `env:"CONFIG_TEST_DEFAULT_ENABLED" envDefault:"true"`
}

type cachedConfig struct {
	Value string `env:"CONFIG_TEST_CACHED" envDefault:"default"`
}

type requiredConfig struct {
	Required string `env:"CONFIG_TEST_REQUIRED,required"`
}

type appConfig struct {
	Session mssession.Config
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("CONFIG_TEST_DEFAULT_NAME")
	os.Unsetenv("CONFIG_TEST_DEFAULT_TIMEOUT")
	os.Unsetenv("CONFIG_TEST_DEFAULT_ENABLED")

	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "mssession", cfg.Name)
	assert.Equal(t, 30*time.Minute, cfg.Timeout)
	assert.True(t, cfg.Enabled)
}

func TestLoad_SessionConfig(t *testing.T) {
	t.Setenv("MSSESSION_TIMEOUT", "45m")
	t.Setenv("MSSESSION_MODE", "custom")
	t.Setenv("MSSESSION_INTERNAL_HOSTS", "example.com,example-shop.de")

	var cfg appConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 45*time.Minute, cfg.Session.Timeout)
	assert.Equal(t, "custom", cfg.Session.Mode)
	assert.Equal(t, []string{"example.com", "example-shop.de"}, cfg.Session.InternalHosts)
	assert.Equal(t, "pvs", cfg.Session.Prefix)
	assert.Equal(t, "_ms_sid", cfg.Session.CrossTabCookie)
	assert.NoError(t, cfg.Session.Validate())
}

func TestLoad_CachedPerType(t *testing.T) {
	t.Setenv("CONFIG_TEST_CACHED", "first")

	var first cachedConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("CONFIG_TEST_CACHED", "second")

	var second cachedConfig
	require.NoError(t, config.Load(&second))

	assert.Equal(t, "first", second.Value)
}

func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv("CONFIG_TEST_REQUIRED")

	var cfg requiredConfig
	err := config.Load(&cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *defaultsConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestMustLoad_Panics(t *testing.T) {
	os.Unsetenv("CONFIG_TEST_REQUIRED")

	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
}
