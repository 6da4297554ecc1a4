package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/schemamap/pkg/errors"
	"github.com/matzehuels/schemamap/pkg/model"
	radialsvg "github.com/matzehuels/schemamap/pkg/render/radial"
	"github.com/matzehuels/schemamap/pkg/view"
)

// exploreCommand creates the interactive explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		flags  layoutFlags
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "explore [schema]",
		Short: "Browse a schema interactively",
		Long: `Browse a schema ring by ring in the terminal.

Moving the cursor highlights a type and lists its fields. Enter re-roots the
view at the highlighted type, backspace returns to the previous root and w
writes the current view as SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSchema(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			opts := flags.options(cmd, c.config, s)
			ctrl, err := view.New(s.Types, opts.Root, opts, view.WithLogger(c.Logger))
			if err != nil {
				return err
			}
			m := newExploreModel(cmd.Context(), ctrl, outDir)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	flags.register(cmd, false)
	cmd.Flags().StringVarP(&outDir, "output-dir", "o", ".", "directory for SVGs written with w")
	return cmd
}

var (
	exploreCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	exploreRingStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	exploreFieldStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	exploreErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	explorePaneStyle   = lipgloss.NewStyle().PaddingLeft(4)
)

// exploreModel is the bubbletea model of the explorer. It owns the view
// controller; bubbletea calls Update sequentially.
type exploreModel struct {
	ctx    context.Context
	view   *view.Controller
	outDir string

	nodes  []model.Node
	cursor int
	offset int
	height int
	status string
	failed bool
}

func newExploreModel(ctx context.Context, v *view.Controller, outDir string) *exploreModel {
	m := &exploreModel{ctx: ctx, view: v, outDir: outDir, height: 20}
	m.reload()
	return m
}

// reload lists the current nodes ring by ring and puts the cursor on the root.
func (m *exploreModel) reload() {
	m.nodes = slices.Clone(m.view.Current().Nodes)
	slices.SortStableFunc(m.nodes, func(a, b model.Node) int { return a.Depth - b.Depth })
	m.cursor, m.offset = 0, 0
	m.hover()
}

func (m *exploreModel) hover() {
	if len(m.nodes) > 0 {
		m.view.Hover(m.nodes[m.cursor].Name)
	}
}

func (m *exploreModel) Init() tea.Cmd { return nil }

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "enter":
			if len(m.nodes) > 0 {
				name := m.nodes[m.cursor].Name
				d, err := m.view.Select(m.ctx, name)
				m.afterReroot(d, err)
			}
		case "backspace":
			d, err := m.view.Back(m.ctx)
			m.afterReroot(d, err)
		case "w":
			m.writeSVG()
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m *exploreModel) move(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.nodes) {
		return
	}
	m.cursor = next
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	m.hover()
}

func (m *exploreModel) afterReroot(d model.Delta, err error) {
	if err != nil {
		m.status, m.failed = errors.UserMessage(err), true
		return
	}
	m.failed = false
	m.reload()
	m.status = fmt.Sprintf("root %s: %d entered, %d moved, %d left",
		m.view.Root(), len(d.EnterNodes), len(d.UpdateNodes), len(d.ExitNodes))
}

func (m *exploreModel) writeSVG() {
	path := filepath.Join(m.outDir, m.view.Root()+".svg")
	svg := radialsvg.RenderSVG(m.view.Current(), radialsvg.WithHighlight(m.view.Highlight()))
	if err := os.WriteFile(path, svg, 0o644); err != nil {
		m.status, m.failed = err.Error(), true
		return
	}
	m.status, m.failed = "wrote "+path, false
}

func (m *exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName) + StyleDim.Render(" · root ") + StyleRoot.Render(m.view.Root()))
	if h := m.view.History(); len(h) > 0 {
		b.WriteString(StyleDim.Render("  (from " + strings.Join(h, " › ") + ")"))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ highlight  ⏎ re-root  ⌫ back  w write svg  q quit"))
	b.WriteString("\n\n")

	left := m.listView()
	right := explorePaneStyle.Render(m.fieldsView())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n\n")

	if m.status != "" {
		if m.failed {
			b.WriteString(exploreErrorStyle.Render(iconError + " " + m.status))
		} else {
			b.WriteString(StyleDim.Render(m.status))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *exploreModel) listView() string {
	var b strings.Builder
	end := min(m.offset+m.height, len(m.nodes))
	depth := -1
	for i := m.offset; i < end; i++ {
		n := m.nodes[i]
		if n.Depth != depth {
			depth = n.Depth
			label := fmt.Sprintf("ring %d", depth)
			if depth == 0 {
				label = "center"
			}
			b.WriteString(exploreRingStyle.Render(label) + "\n")
		}
		line := "  " + n.Name
		switch {
		case i == m.cursor:
			line = exploreCursorStyle.Render("▸ " + n.Name)
		case n.Root:
			line = "  " + StyleRoot.Render(n.Name)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf("[%d/%d]", min(m.cursor+1, len(m.nodes)), len(m.nodes))))
	return b.String()
}

// fieldsView lists the edges touching the highlighted type.
func (m *exploreModel) fieldsView() string {
	name := m.view.Highlight()
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render(name) + "\n")
	edges := m.view.Current().Neighbors(name)
	if len(edges) == 0 {
		b.WriteString(StyleDim.Render("no fields in view"))
		return b.String()
	}
	for _, e := range edges {
		if e.SourceName == name {
			b.WriteString(exploreFieldStyle.Render(e.Label) + StyleDim.Render(": ") + e.TargetName + "\n")
		} else {
			b.WriteString(StyleDim.Render(e.SourceName+"."+e.Label+" "+iconArrow+" ") + name + "\n")
		}
	}
	return b.String()
}
