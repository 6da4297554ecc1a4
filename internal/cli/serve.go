package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schemamap/internal/server"
	"github.com/matzehuels/schemamap/pkg/session"
)

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags   layoutFlags
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve [schema]",
		Short: "Serve interactive views over HTTP",
		Long: `Serve interactive views of a schema over HTTP.

Routes:
  GET    /healthz
  GET    /api/types
  GET    /api/render/{root}?format=svg&depth=2&highlight=T
  POST   /api/sessions                  {"root": "Query"}
  GET    /api/sessions/{id}
  POST   /api/sessions/{id}/select      {"name": "User"}
  POST   /api/sessions/{id}/back
  POST   /api/sessions/{id}/hover       {"name": "User"}
  DELETE /api/sessions/{id}/hover
  GET    /api/sessions/{id}/svg
  DELETE /api/sessions/{id}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSchema(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				c.config.Server.Addr = addr
			}
			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize cache: %w", err)
			}
			defer runner.Close()

			layout := flags.options(cmd, c.config, s)
			layout.Root = ""
			srv := server.New(server.Config{
				Addr:     c.config.Server.Addr,
				Schema:   s,
				Layout:   layout,
				Runner:   runner,
				Sessions: session.NewMemoryStore(c.config.Server.SessionTTL),
				Logger:   c.Logger,
			})

			printInfo("Serving %s", args[0])
			printKeyValue("address", c.config.Server.Addr)
			printKeyValue("root", s.DefaultRoot())
			printKeyValue("cache", c.config.Cache.Backend)
			printKeyValue("sessions", c.config.Server.SessionTTL.String())
			return srv.Serve(cmd.Context())
		},
	}

	flags.register(cmd, false)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
