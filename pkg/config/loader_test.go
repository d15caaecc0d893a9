package config_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authenticator/pkg/config"
)

type successConfig struct {
	Storage  string        `env:"TEST_CFG_STORAGE" envDefault:"file"`
	Retries  int           `env:"TEST_CFG_RETRIES" envDefault:"3"`
	Interval time.Duration `env:"TEST_CFG_INTERVAL" envDefault:"1s"`
}

type defaultsConfig struct {
	Storage string `env:"TEST_CFG_DEFAULT_STORAGE" envDefault:"file"`
	Debug   bool   `env:"TEST_CFG_DEFAULT_DEBUG" envDefault:"true"`
}

type requiredConfig struct {
	Key string `env:"TEST_CFG_REQUIRED_KEY,required"`
}

type singletonConfig struct {
	Value string `env:"TEST_CFG_SINGLETON" envDefault:"first"`
}

type envFileConfig struct {
	Value string `env:"TEST_CFG_FROM_FILE"`
}

func TestLoad_Success(t *testing.T) {
	t.Setenv("TEST_CFG_STORAGE", "redis")
	t.Setenv("TEST_CFG_RETRIES", "5")
	t.Setenv("TEST_CFG_INTERVAL", "250ms")
	config.Reset()

	var cfg successConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "redis", cfg.Storage)
	assert.Equal(t, 5, cfg.Retries)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("TEST_CFG_DEFAULT_STORAGE")
	os.Unsetenv("TEST_CFG_DEFAULT_DEBUG")

	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "file", cfg.Storage)
	assert.True(t, cfg.Debug)
}

func TestLoad_MissingRequiredThenFixed(t *testing.T) {
	os.Unsetenv("TEST_CFG_REQUIRED_KEY")

	var cfg requiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	t.Setenv("TEST_CFG_REQUIRED_KEY", "present")
	require.NoError(t, config.Load(&cfg), "failed parses are not cached")
	assert.Equal(t, "present", cfg.Key)
}

func TestLoad_Cached(t *testing.T) {
	t.Setenv("TEST_CFG_SINGLETON", "first")
	config.Reset()

	var a singletonConfig
	require.NoError(t, config.Load(&a))

	t.Setenv("TEST_CFG_SINGLETON", "second")
	var b singletonConfig
	require.NoError(t, config.Load(&b))
	assert.Equal(t, "first", b.Value)

	config.Reset()
	var c singletonConfig
	require.NoError(t, config.Load(&c))
	assert.Equal(t, "second", c.Value)
}

func TestLoad_Concurrent(t *testing.T) {
	t.Setenv("TEST_CFG_STORAGE", "file")
	config.Reset()

	var wg sync.WaitGroup
	results := make([]successConfig, 16)
	errs := make([]error, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = config.Load(&results[i])
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, "file", results[i].Storage)
	}
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *successConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestMustLoad(t *testing.T) {
	os.Unsetenv("TEST_CFG_REQUIRED_KEY")
	config.Reset()

	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TEST_CFG_FROM_FILE=from-file\n"), 0o600))

	os.Unsetenv("TEST_CFG_FROM_FILE")
	t.Cleanup(func() { os.Unsetenv("TEST_CFG_FROM_FILE") })

	require.NoError(t, config.LoadEnv(path))
	config.Reset()

	var cfg envFileConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "from-file", cfg.Value)

	assert.ErrorIs(t, config.LoadEnv(filepath.Join(dir, "missing.env")), config.ErrLoadingEnvFile)
	assert.NoError(t, config.LoadEnv())
}
