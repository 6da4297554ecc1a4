// Package view owns the current root and model of an interactive radial
// view and re-roots it when a node is selected.
//
// A [Controller] is either Idle or Rebuilding. [Controller.Select] runs the
// layout pipeline synchronously against the type map given to [New]; when
// it succeeds the new model replaces the old one and the returned
// [model.Delta] tells a renderer which nodes and edges enter, move, stay or
// exit. When it fails the controller keeps its previous root and model.
//
// Hover and unhover events never change the model. They are recorded and
// forwarded to an optional [HighlightListener] so that a renderer can fade
// unrelated edges.
//
// A Controller is not safe for concurrent use.
package view

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schemamap/pkg/errors"
	"github.com/matzehuels/schemamap/pkg/hierarchy"
	"github.com/matzehuels/schemamap/pkg/model"
	"github.com/matzehuels/schemamap/pkg/observability"
	"github.com/matzehuels/schemamap/pkg/pipeline"
	"github.com/matzehuels/schemamap/pkg/schema"
)

// State is the re-root state of a controller.
type State int

const (
	Idle State = iota
	Rebuilding
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rebuilding:
		return "rebuilding"
	default:
		return "unknown"
	}
}

// HighlightListener receives hover hints.
type HighlightListener interface {
	OnHover(name string)
	OnUnhover()
}

// Option configures a controller.
type Option func(*Controller)

// WithListener forwards hover events to l.
func WithListener(l HighlightListener) Option {
	return func(c *Controller) { c.listener = l }
}

// WithLogger sets the logger used for re-root events.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// Controller holds the {root, model} pair of one view.
type Controller struct {
	types    schema.TypeMap
	opts     pipeline.Options
	listener HighlightListener
	logger   *log.Logger

	state     State
	root      string
	current   *model.Model
	skipped   []hierarchy.Skip
	highlight string
	history   []string
}

// New lays out types around root and returns a controller showing it.
// Flat layouts have no root and are rejected.
func New(types schema.TypeMap, root string, opts pipeline.Options, options ...Option) (*Controller, error) {
	if opts.Flat {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "a view needs a root; flat layouts cannot be re-rooted")
	}
	c := &Controller{
		types:  types,
		logger: log.New(io.Discard),
	}
	for _, o := range options {
		o(c)
	}
	opts.Root = root
	opts.Logger = c.logger
	opts.SetDefaults()
	c.opts = opts

	m, skipped, err := pipeline.Compute(types, opts)
	if err != nil {
		return nil, err
	}
	c.root, c.current, c.skipped = root, m, skipped
	return c, nil
}

// Select re-roots the view at name. Selecting the current root is a no-op.
// On error the previous root and model are kept.
func (c *Controller) Select(ctx context.Context, name string) (model.Delta, error) {
	if name == c.root {
		return model.Delta{}, nil
	}
	from := c.root
	d, err := c.reroot(ctx, name)
	if err != nil {
		return model.Delta{}, err
	}
	c.history = append(c.history, from)
	return d, nil
}

// Back re-roots the view at the root shown before the last successful
// Select. It returns [errors.ErrCodeNotFound] when there is no such root.
func (c *Controller) Back(ctx context.Context) (model.Delta, error) {
	if len(c.history) == 0 {
		return model.Delta{}, errors.New(errors.ErrCodeNotFound, "no previous root")
	}
	prev := c.history[len(c.history)-1]
	d, err := c.reroot(ctx, prev)
	if err != nil {
		return model.Delta{}, err
	}
	c.history = c.history[:len(c.history)-1]
	return d, nil
}

func (c *Controller) reroot(ctx context.Context, name string) (model.Delta, error) {
	from := c.root
	start := time.Now()
	c.state = Rebuilding
	defer func() { c.state = Idle }()

	opts := c.opts
	opts.Root = name
	m, skipped, err := pipeline.Compute(c.types, opts)
	observability.View().OnReroot(ctx, from, name, time.Since(start), err)
	if err != nil {
		c.logger.Warn("re-root failed", "from", from, "to", name, "code", errors.GetCode(err), "err", errors.UserMessage(err))
		return model.Delta{}, err
	}

	d := model.Diff(c.current, m)
	c.root, c.current, c.skipped = name, m, skipped
	if c.highlight != "" {
		if _, ok := m.Node(c.highlight); !ok {
			c.Unhover()
		}
	}
	c.logger.Debug("re-rooted",
		"from", from,
		"to", name,
		"enter", len(d.EnterNodes),
		"update", len(d.UpdateNodes),
		"exit", len(d.ExitNodes),
		"duration", time.Since(start))
	return d, nil
}

// Hover records name as the highlighted node and notifies the listener.
func (c *Controller) Hover(name string) {
	c.highlight = name
	observability.View().OnHighlight(context.Background(), name)
	if c.listener != nil {
		c.listener.OnHover(name)
	}
}

// Unhover clears the highlight and notifies the listener.
func (c *Controller) Unhover() {
	c.highlight = ""
	observability.View().OnHighlight(context.Background(), "")
	if c.listener != nil {
		c.listener.OnUnhover()
	}
}

// Current returns the model of the current root. Callers must not modify it.
func (c *Controller) Current() *model.Model { return c.current }

// Root returns the current root type.
func (c *Controller) Root() string { return c.root }

// State returns the re-root state.
func (c *Controller) State() State { return c.state }

// Highlight returns the hovered node, or "" when nothing is hovered.
func (c *Controller) Highlight() string { return c.highlight }

// Skipped returns the fields skipped while building the current model.
func (c *Controller) Skipped() []hierarchy.Skip { return c.skipped }

// History returns previous roots, oldest first.
func (c *Controller) History() []string { return append([]string(nil), c.history...) }

// Options returns the layout options used for every re-root.
func (c *Controller) Options() pipeline.Options { return c.opts }

// Types returns the type map the view lays out.
func (c *Controller) Types() schema.TypeMap { return c.types }
