package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schemamap/pkg/errors"
	"github.com/matzehuels/schemamap/pkg/model"
	"github.com/matzehuels/schemamap/pkg/pipeline"
	"github.com/matzehuels/schemamap/pkg/schema"
)

// layoutCommand creates the layout command, which writes the positioned
// model without rendering it.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   layoutFlags
		output  string
		format  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout [schema]",
		Short: "Compute the radial layout of a schema",
		Long: `Compute the radial layout of a schema and write it as JSON.

The default format is the schemamap model (-f json), which lists every type
with its ring and position and every field as an edge between two types.
Use -f cytoscape for Cytoscape.js elements with preset positions.

Results are cached; see 'schemamap cache'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != pipeline.FormatJSON && format != pipeline.FormatCytoscape {
				return errors.New(errors.ErrCodeInvalidFormat, "layout format must be json or cytoscape, got %q", format)
			}
			s, err := c.loadSchema(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			opts := flags.options(cmd, c.config, s)
			return c.runLayout(cmd, args[0], s.Types, opts, format, output, noCache)
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <schema>.<root>.layout.json)")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatJSON, "json or cytoscape")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, input string, types schema.TypeMap, opts pipeline.Options, format, output string, noCache bool) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer runner.Close()

	m, cached, err := runner.Layout(ctx, types, opts)
	if err != nil {
		return err
	}

	var data []byte
	if format == pipeline.FormatCytoscape {
		data, err = m.CytoscapeJSON()
	} else {
		data, err = model.Marshal(m)
	}
	if err != nil {
		return err
	}

	if output == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if output == "" {
		output = layoutPath(input, m.Root, format)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(len(m.Nodes), len(m.Edges), cached)
	if m.Root != "" {
		printNewline()
		printNextStep("Render", fmt.Sprintf("%s render %s --root %s", appName, input, m.Root))
	}
	return nil
}

// layoutPath derives "<schema>.<root>.layout.json" from the schema path.
func layoutPath(input, root, format string) string {
	base := inputBase(input)
	if root == "" {
		root = "flat"
	}
	suffix := ".layout.json"
	if format == pipeline.FormatCytoscape {
		suffix = ".cytoscape.json"
	}
	return base + "." + root + suffix
}
