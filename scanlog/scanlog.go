// Package scanlog carries an explicit logging/warning context in place of
// process-wide logging singletons: a *slog.Logger sink plus a Collector that
// accumulates the per-class, per-archive warnings a scan produces without
// aborting it.
package scanlog

import (
	"context"
	"log/slog"
	"sync"
)

// Warning is one recoverable failure surfaced in a ScanResult.
type Warning struct {
	Class  string
	Reason string
	Offset int64
}

// Collector accumulates Warnings from concurrent workers. Safe for
// concurrent use; append is the only hot-path operation so a plain mutex is
// sufficient (this is not the high-contention interning table).
type Collector struct {
	mu       sync.Mutex
	warnings []Warning
}

// Add records a warning.
func (c *Collector) Add(w Warning) {
	c.mu.Lock()
	c.warnings = append(c.warnings, w)
	c.mu.Unlock()
}

// Warnings returns a snapshot copy of the collected warnings, ordered by
// arrival (not further sorted; callers that need determinism sort by the
// fields they care about).
func (c *Collector) Warnings() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Len reports how many warnings have been collected so far.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.warnings)
}

type ctxKey struct{}

// scoped bundles the logger and collector threaded through a scan call.
type scoped struct {
	logger    *slog.Logger
	collector *Collector
}

// NewContext returns a context carrying logger and a fresh Collector. Pass
// nil for logger to fall back to slog.Default().
func NewContext(parent context.Context, logger *slog.Logger) (context.Context, *Collector) {
	if logger == nil {
		logger = slog.Default()
	}
	collector := &Collector{}
	return context.WithValue(parent, ctxKey{}, &scoped{logger: logger, collector: collector}), collector
}

// Logger extracts the scoped logger, falling back to slog.Default() if the
// context was not produced by NewContext.
func Logger(ctx context.Context) *slog.Logger {
	if s, ok := ctx.Value(ctxKey{}).(*scoped); ok {
		return s.logger
	}
	return slog.Default()
}

// Warn records a recoverable warning against both the logger and the
// collector carried by ctx. It is the single call sites across the scanner
// use to report a per-classfile or per-archive failure without aborting.
func Warn(ctx context.Context, class, reason string, offset int64) {
	s, ok := ctx.Value(ctxKey{}).(*scoped)
	if !ok {
		slog.Default().Warn("scan warning", "class", class, "reason", reason, "offset", offset)
		return
	}
	s.logger.Warn("scan warning", "class", class, "reason", reason, "offset", offset)
	s.collector.Add(Warning{Class: class, Reason: reason, Offset: offset})
}
