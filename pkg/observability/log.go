package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level; failures are
// logged as warnings.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to l, or to the default logger.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{logger: l}
}

func (h *LogHooks) OnLayoutStart(_ context.Context, root string, maxDepth int) {
	h.logger.Debug("layout start", "root", root, "max_depth", maxDepth)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, root string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("layout failed", "root", root, "duration", d, "err", err)
		return
	}
	h.logger.Debug("layout done", "root", root, "nodes", nodes, "edges", edges, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", formats, "duration", d, "err", err)
		return
	}
	h.logger.Debug("render done", "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnReroot(_ context.Context, from, to string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("re-root failed", "from", from, "to", to, "err", err)
		return
	}
	h.logger.Debug("re-rooted", "from", from, "to", to, "duration", d)
}

func (h *LogHooks) OnHighlight(_ context.Context, name string) {
	h.logger.Debug("highlight", "type", name)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ViewHooks     = (*LogHooks)(nil)
)
