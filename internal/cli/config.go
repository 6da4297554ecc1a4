package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/schemamap/pkg/errors"
	"github.com/matzehuels/schemamap/pkg/pipeline"
	"github.com/matzehuels/schemamap/pkg/session"
)

// Cache backends.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendMongo = "mongo"
	backendNone  = "none"
)

// Config is the contents of schemamap.toml. Keys missing from the file keep
// their defaults.
//
//	[layout]
//	max_depth = 3
//	ring_count = 3
//
//	[cache]
//	backend = "redis"
//	url = "redis://localhost:6379/0"
//	prefix = "staging:"
//
//	[server]
//	addr = ":9000"
//	session_ttl = "1h"
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

type LayoutConfig struct {
	MaxDepth      int     `toml:"max_depth"`
	RingCount     int     `toml:"ring_count"`
	Width         float64 `toml:"width"`
	Height        float64 `toml:"height"`
	MinRingRadius float64 `toml:"min_ring_radius"`
	OuterPadding  float64 `toml:"outer_padding"`
}

type CacheConfig struct {
	// Backend is one of file, redis, mongo or none.
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`
	URL        string `toml:"url"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	// Prefix namespaces keys when several deployments share a backend.
	Prefix string `toml:"prefix"`
}

type ServerConfig struct {
	Addr       string        `toml:"addr"`
	SessionTTL time.Duration `toml:"session_ttl"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	d := pipeline.DefaultOptions()
	return &Config{
		Layout: LayoutConfig{
			MaxDepth:      d.MaxDepth,
			RingCount:     d.RingCount,
			Width:         d.Width,
			Height:        d.Height,
			MinRingRadius: d.MinRingRadius,
			OuterPadding:  d.OuterPadding,
		},
		Cache:  CacheConfig{Backend: backendFile},
		Server: ServerConfig{Addr: ":8080", SessionTTL: session.DefaultTTL},
	}
}

// defaultConfigPath returns ~/.config/schemamap/config.toml or its
// platform equivalent.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "config.toml")
}

// loadConfig reads path over the defaults. A missing file is an error only
// when the path was given explicitly.
func loadConfig(path string, explicit bool) (*Config, []string, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) && !explicit {
		return cfg, nil, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, err, "read config %s", path)
	}
	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}
	return cfg, unknown, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case backendFile, backendNone:
	case backendRedis, backendMongo:
		if c.Cache.URL == "" {
			return errors.New(errors.ErrCodeInvalidConfiguration, "cache backend %s needs a url", c.Cache.Backend)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfiguration, "unknown cache backend %q (must be file, redis, mongo or none)", c.Cache.Backend)
	}
	opts := c.options()
	return opts.ValidateLayout()
}

// options returns pipeline options seeded from the [layout] table.
func (c *Config) options() pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.MaxDepth = c.Layout.MaxDepth
	opts.RingCount = c.Layout.RingCount
	opts.Width = c.Layout.Width
	opts.Height = c.Layout.Height
	opts.MinRingRadius = c.Layout.MinRingRadius
	opts.OuterPadding = c.Layout.OuterPadding
	return opts
}
