package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schemamap/pkg/cache"
	"github.com/matzehuels/schemamap/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and render cache",
	}
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and renders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "the %s cache cannot be cleared", c.config.Cache.Backend)
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Cache cleared")
			printDetail("%s", c.cacheLocation(ch))
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer ch.Close()
			fmt.Fprintln(cmd.OutOrStdout(), c.cacheLocation(ch))
			return nil
		},
	}
}

// cacheLocation describes the cache: its directory, or its backend URL.
func (c *CLI) cacheLocation(ch cache.Cache) string {
	if fc, ok := ch.(*cache.FileCache); ok {
		return fc.Dir()
	}
	if c.config.Cache.URL != "" {
		return c.config.Cache.Backend + ": " + c.config.Cache.URL
	}
	return c.config.Cache.Backend
}
