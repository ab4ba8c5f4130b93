package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a structured logger. Stage events are
// logged at debug level, failures and HTTP responses at info or above.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnAnalyzeStart(_ context.Context, textBytes int) {
	h.logger.Debug("analyze start", "bytes", textBytes)
}

func (h *LogHooks) OnAnalyzeComplete(_ context.Context, distinct int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("analyze failed", "error", err, "duration", d)
		return
	}
	h.logger.Debug("analyze complete", "distinct", distinct, "duration", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, words int) {
	h.logger.Debug("layout start", "words", words)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, placed, unplaced int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("layout failed", "error", err, "duration", d)
		return
	}
	h.logger.Debug("layout complete", "placed", placed, "unplaced", unplaced, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("render failed", "formats", formats, "error", err, "duration", d)
		return
	}
	h.logger.Debug("render complete", "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "size", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	switch {
	case status >= 500:
		h.logger.Error("response", "method", method, "path", path, "status", status, "duration", d)
	case status >= 400:
		h.logger.Warn("response", "method", method, "path", path, "status", status, "duration", d)
	default:
		h.logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
	}
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
