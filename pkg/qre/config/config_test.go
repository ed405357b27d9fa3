package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestDefaults(t *testing.T) {
	isolate(t)
	c, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 6, c.MaxEvents)
	assert.Equal(t, DefaultCompanies, c.Companies)
	assert.Empty(t, c.Columns)
	assert.True(t, c.Color)
	assert.Equal(t, 5*time.Second, c.QuoteTimeout)
	assert.Equal(t, 5*time.Minute, c.CacheTTL)
	assert.Equal(t, 256, c.CacheSize)
	assert.Equal(t, 40, c.MaxColWidth)
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("QRE_MAX_EVENTS", "9")
	t.Setenv("QRE_COMPANIES", "SSI, VCSC")
	t.Setenv("QRE_COLOR", "false")
	t.Setenv("QRE_CACHE_TTL", "30s")

	c, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 9, c.MaxEvents)
	assert.Equal(t, []string{"SSI", "VCSC"}, c.Companies)
	assert.False(t, c.Color)
	assert.Equal(t, 30*time.Second, c.CacheTTL)
}

func TestConfigFile(t *testing.T) {
	isolate(t)
	p := filepath.Join(t.TempDir(), "qre.yaml")
	body := "max_events: 3\ncompanies: [FPT, CTG]\ncolumns: [name, live]\n"
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))

	c, err := Load(viper.New(), p)
	require.NoError(t, err)
	assert.Equal(t, 3, c.MaxEvents)
	assert.Equal(t, []string{"FPT", "CTG"}, c.Companies)
	assert.Equal(t, []string{"name", "live"}, c.Columns)
}

func TestExplicitMissingFile(t *testing.T) {
	isolate(t)
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	isolate(t)
	t.Setenv("QRE_MAX_EVENTS", "0")
	_, err := Load(viper.New(), "")
	assert.ErrorContains(t, err, KeyMaxEvents)

	assert.Error(t, (&Config{MaxEvents: 1}).Validate())
	assert.Error(t, (&Config{MaxEvents: 1, Companies: []string{"A"}}).Validate())
	assert.NoError(t, (&Config{MaxEvents: 1, Companies: []string{"A"}, CacheSize: 1}).Validate())
}
