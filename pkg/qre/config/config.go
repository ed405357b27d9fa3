// Package config loads editor settings from flags, QRE_ environment
// variables, an optional .env file and an optional qre.yaml.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Keys understood by Load.
const (
	KeyMaxEvents    = "max_events"
	KeyCompanies    = "companies"
	KeyColumns      = "columns"
	KeyColor        = "color"
	KeyQuoteTimeout = "quote_timeout"
	KeyCacheTTL     = "cache_ttl"
	KeyCacheSize    = "cache_size"
	KeyMaxColWidth  = "max_col_width"
)

// DefaultCompanies is the fixed company list rows are seeded from.
var DefaultCompanies = []string{"VCSC", "SSI", "MBS", "AGR", "BSC", "FPT", "CTG"}

type Config struct {
	MaxEvents    int
	Companies    []string
	Columns      []string
	Color        bool
	QuoteTimeout time.Duration
	CacheTTL     time.Duration
	CacheSize    int
	MaxColWidth  int
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyMaxEvents, 6)
	v.SetDefault(KeyCompanies, DefaultCompanies)
	v.SetDefault(KeyColor, true)
	v.SetDefault(KeyQuoteTimeout, 5*time.Second)
	v.SetDefault(KeyCacheTTL, 5*time.Minute)
	v.SetDefault(KeyCacheSize, 256)
	v.SetDefault(KeyMaxColWidth, 40)
}

// Load reads the configuration into a Config. file names an explicit config
// file; when empty, qre.yaml is looked up in the working directory and in
// $HOME/.config/qre, and a missing file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		glog.V(1).Infof("[config] no .env file: %v", err)
	}
	SetDefaults(v)
	v.SetEnvPrefix("QRE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("qre")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/qre")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		glog.V(1).Infof("[config] using %s", v.ConfigFileUsed())
	}

	c := &Config{
		MaxEvents:    v.GetInt(KeyMaxEvents),
		Companies:    splitList(v.GetStringSlice(KeyCompanies)),
		Columns:      splitList(v.GetStringSlice(KeyColumns)),
		Color:        v.GetBool(KeyColor),
		QuoteTimeout: v.GetDuration(KeyQuoteTimeout),
		CacheTTL:     v.GetDuration(KeyCacheTTL),
		CacheSize:    v.GetInt(KeyCacheSize),
		MaxColWidth:  v.GetInt(KeyMaxColWidth),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.MaxEvents <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyMaxEvents, c.MaxEvents)
	}
	if len(c.Companies) == 0 {
		return fmt.Errorf("%s must list at least one company", KeyCompanies)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyCacheSize, c.CacheSize)
	}
	return nil
}

// splitList accepts both list values and comma-separated strings, as
// environment variables only carry the latter.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
