package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/schemamap/pkg/schema"
)

func (c *CLI) typesCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "types [schema]",
		Short: "List the types of a schema",
		Long: `List the types of a schema with their kind and field count.

The schema may be an SDL file (.graphql, .graphqls, .gql) or the JSON result
of an introspection query (.json). The default root is marked with *.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSchema(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			writeTypes(cmd.OutOrStdout(), s, all)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include introspection types")
	return cmd
}

func writeTypes(w io.Writer, s *schema.Schema, all bool) {
	types := s.Types.Visible()
	if all {
		types = make([]*schema.Type, 0, len(s.Types))
		for _, name := range s.Types.Names() {
			types = append(types, s.Types[name])
		}
	}
	root := s.DefaultRoot()

	rows := make([][]string, len(types))
	for i, t := range types {
		mark := " "
		if t.Name == root {
			mark = "*"
		}
		rows[i] = []string{mark, t.Name, string(t.Kind), strconv.Itoa(len(t.Fields))}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Type", "Kind", "Fields").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case types[row].Name == root:
				return StyleRoot
			case col == 2 || col == 3:
				return StyleDim
			default:
				return lipgloss.NewStyle()
			}
		})

	fmt.Fprintln(w, tbl.Render())
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("  %d types", len(types))))
}
