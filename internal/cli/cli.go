// Package cli implements the schemamap command-line interface.
//
// # Commands
//
//   - types: list the types of a schema
//   - layout: compute the radial model and write it as JSON
//   - render: write SVG, DOT, Graphviz, PDF, PNG, JSON or Cytoscape output
//   - explore: browse a schema interactively in the terminal
//   - serve: run the HTTP API for browser views
//   - cache: inspect or clear the layout cache
//
// Schema arguments are SDL or introspection files, or http(s) GraphQL
// endpoints introspected on load (--header adds request headers).
//
// Every command reads schemamap.toml (see [Config]); flags override it.
// --verbose switches logging to debug level.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/schemamap/pkg/buildinfo"
	"github.com/matzehuels/schemamap/pkg/cache"
	"github.com/matzehuels/schemamap/pkg/errors"
	"github.com/matzehuels/schemamap/pkg/httputil"
	"github.com/matzehuels/schemamap/pkg/observability"
	"github.com/matzehuels/schemamap/pkg/pipeline"
	"github.com/matzehuels/schemamap/pkg/schema"
)

// appName is the application name used for directories and display.
const appName = "schemamap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	redisURL   string
	mongoURI   string
	headers    []string
	config     *Config
}

// New creates a CLI that logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), config: DefaultConfig()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Schemamap draws GraphQL schemas as radial type graphs",
		Long: `Schemamap lays out the types of a GraphQL schema on concentric rings around
a root type. Types sit on the ring of their distance from the root and each
field becomes an edge. Re-rooting the view moves another type to the center.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+defaultConfigPath()+")")
	root.PersistentFlags().StringVar(&c.redisURL, "redis", "", "use a Redis cache at this URL")
	root.PersistentFlags().StringVar(&c.mongoURI, "mongo", "", "use a MongoDB cache at this URI")
	root.MarkFlagsMutuallyExclusive("redis", "mongo")
	root.PersistentFlags().StringArrayVarP(&c.headers, "header", "H", nil, `HTTP header for schema endpoints, e.g. "Authorization: Bearer ..." (repeatable)`)

	root.AddCommand(c.typesCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file and installs logging hooks.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	path, explicit := c.configPath, c.configPath != ""
	if !explicit {
		path = defaultConfigPath()
	}
	cfg, unknown, err := loadConfig(path, explicit)
	if err != nil {
		return err
	}
	for _, key := range unknown {
		c.Logger.Warn("unknown config key", "key", key, "file", path)
	}

	switch {
	case c.redisURL != "":
		cfg.Cache.Backend, cfg.Cache.URL = backendRedis, c.redisURL
	case c.mongoURI != "":
		cfg.Cache.Backend, cfg.Cache.URL = backendMongo, c.mongoURI
	}
	c.config = cfg

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetViewHooks(hooks)
	return nil
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, c.newKeyer(), c.Logger), nil
}

// newKeyer scopes cache keys under the configured prefix.
func (c *CLI) newKeyer() cache.Keyer {
	if c.config.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.config.Cache.Prefix)
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.config.Cache
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		return cache.NewRedisCache(ctx, cfg.URL)
	case backendMongo:
		return cache.NewMongoCache(ctx, cfg.URL, cfg.Database, cfg.Collection)
	default:
		dir := cfg.Dir
		if dir == "" {
			d, err := cache.DefaultDir()
			if err != nil {
				c.Logger.Warn("no cache directory, caching disabled", "err", err)
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	}
}

// loadSchema reads a schema file, or introspects it when path is an
// http(s) URL, and logs how many types it holds.
func (c *CLI) loadSchema(ctx context.Context, path string) (*schema.Schema, error) {
	p := newProgress(c.Logger)
	var (
		s   *schema.Schema
		err error
	)
	if schema.IsEndpoint(path) {
		var client *httputil.Client
		client, err = c.newClient()
		if err != nil {
			return nil, err
		}
		s, err = schema.Fetch(ctx, path, client)
	} else {
		s, err = schema.Load(path)
	}
	if err != nil {
		return nil, err
	}
	p.done(fmt.Sprintf("Loaded %d types from %s", len(s.Types), path))
	return s, nil
}

// newClient builds the endpoint client from --header flags.
func (c *CLI) newClient() (*httputil.Client, error) {
	opts := []httputil.Option{httputil.WithLogger(c.Logger)}
	for _, h := range c.headers {
		key, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid header %q (want \"Key: Value\")", h)
		}
		opts = append(opts, httputil.WithHeader(strings.TrimSpace(key), strings.TrimSpace(value)))
	}
	return httputil.NewClient(opts...), nil
}

// inputBase returns the path prefix for files derived from a schema
// argument: the file path without extension, or an endpoint's host name.
func inputBase(input string) string {
	if schema.IsEndpoint(input) {
		if u, err := url.Parse(input); err == nil && u.Hostname() != "" {
			return u.Hostname()
		}
		return "schema"
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
