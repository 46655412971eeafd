package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Observer receives callbacks from the graph runner for logging and metrics.
//
// Implementations should be fast and non-blocking; heavy work should be done
// asynchronously so as not to delay graph execution.
type Observer interface {
	// OnRunStart is called once when a run is first started, before the
	// entry node is executed.
	OnRunStart(ctx context.Context, rec *RunRecord)

	// OnRunCompleted is called when a run reaches End successfully.
	OnRunCompleted(ctx context.Context, rec *RunRecord)

	// OnRunFailed is called when a run transitions to StatusFailed.
	OnRunFailed(ctx context.Context, rec *RunRecord, err error)

	// OnNodeStart is called before invoking a node's stage function.
	OnNodeStart(ctx context.Context, rec *RunRecord, node string)

	// OnNodeCompleted is called after a stage function returns, for both
	// successes and failures (err != nil).
	OnNodeCompleted(ctx context.Context, rec *RunRecord, node string, err error, duration time.Duration)

	// OnTransition is called after the successor of a node has been decided,
	// with loop set when the back-edge was taken.
	OnTransition(ctx context.Context, rec *RunRecord, from, to string, loop bool)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnRunStart(ctx context.Context, rec *RunRecord)               {}
func (NoopObserver) OnRunCompleted(ctx context.Context, rec *RunRecord)           {}
func (NoopObserver) OnRunFailed(ctx context.Context, rec *RunRecord, err error)   {}
func (NoopObserver) OnNodeStart(ctx context.Context, rec *RunRecord, node string) {}
func (NoopObserver) OnNodeCompleted(ctx context.Context, rec *RunRecord, node string, err error, d time.Duration) {
}
func (NoopObserver) OnTransition(ctx context.Context, rec *RunRecord, from, to string, loop bool) {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnRunStart(ctx context.Context, rec *RunRecord) {
	for _, o := range c.observers {
		o.OnRunStart(ctx, rec)
	}
}

func (c *CompositeObserver) OnRunCompleted(ctx context.Context, rec *RunRecord) {
	for _, o := range c.observers {
		o.OnRunCompleted(ctx, rec)
	}
}

func (c *CompositeObserver) OnRunFailed(ctx context.Context, rec *RunRecord, err error) {
	for _, o := range c.observers {
		o.OnRunFailed(ctx, rec, err)
	}
}

func (c *CompositeObserver) OnNodeStart(ctx context.Context, rec *RunRecord, node string) {
	for _, o := range c.observers {
		o.OnNodeStart(ctx, rec, node)
	}
}

func (c *CompositeObserver) OnNodeCompleted(ctx context.Context, rec *RunRecord, node string, err error, d time.Duration) {
	for _, o := range c.observers {
		o.OnNodeCompleted(ctx, rec, node, err, d)
	}
}

func (c *CompositeObserver) OnTransition(ctx context.Context, rec *RunRecord, from, to string, loop bool) {
	for _, o := range c.observers {
		o.OnTransition(ctx, rec, from, to, loop)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs run / node lifecycle
// events using the provided slog.Logger. If logger is nil, slog.Default()
// is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnRunStart(ctx context.Context, rec *RunRecord) {
	o.Logger.InfoContext(ctx, "run_start",
		slog.String("graph", rec.Graph),
		slog.String("run_id", rec.ID),
	)
}

func (o *LoggingObserver) OnRunCompleted(ctx context.Context, rec *RunRecord) {
	o.Logger.InfoContext(ctx, "run_completed",
		slog.String("graph", rec.Graph),
		slog.String("run_id", rec.ID),
		slog.Int("nodes_visited", len(rec.Visited)),
	)
}

func (o *LoggingObserver) OnRunFailed(ctx context.Context, rec *RunRecord, err error) {
	o.Logger.ErrorContext(ctx, "run_failed",
		slog.String("graph", rec.Graph),
		slog.String("run_id", rec.ID),
		slog.Any("error", err),
	)
}

func (o *LoggingObserver) OnNodeStart(ctx context.Context, rec *RunRecord, node string) {
	o.Logger.DebugContext(ctx, "node_start",
		slog.String("graph", rec.Graph),
		slog.String("run_id", rec.ID),
		slog.String("node", node),
	)
}

func (o *LoggingObserver) OnNodeCompleted(ctx context.Context, rec *RunRecord, node string, err error, d time.Duration) {
	level := slog.LevelDebug
	if err != nil {
		level = slog.LevelError
	}
	o.Logger.Log(ctx, level, "node_completed",
		slog.String("graph", rec.Graph),
		slog.String("run_id", rec.ID),
		slog.String("node", node),
		slog.Duration("duration", d),
		slog.Any("error", err),
	)
}

func (o *LoggingObserver) OnTransition(ctx context.Context, rec *RunRecord, from, to string, loop bool) {
	o.Logger.DebugContext(ctx, "transition",
		slog.String("graph", rec.Graph),
		slog.String("run_id", rec.ID),
		slog.String("from", from),
		slog.String("to", to),
		slog.Bool("loop", loop),
	)
}

// BasicMetrics collects simple counters and aggregate node durations.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	runsStarted       atomic.Int64
	runsCompleted     atomic.Int64
	runsFailed        atomic.Int64
	nodesCompleted    atomic.Int64
	loopTransitions   atomic.Int64
	totalNodeDuration atomic.Int64 // nanoseconds
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	RunsStarted   int64
	RunsCompleted int64
	RunsFailed    int64
	RunsInFlight  int64

	NodesCompleted  int64
	LoopTransitions int64
	AvgNodeDuration time.Duration
}

func (m *BasicMetrics) OnRunStart(ctx context.Context, rec *RunRecord) {
	m.runsStarted.Add(1)
}

func (m *BasicMetrics) OnRunCompleted(ctx context.Context, rec *RunRecord) {
	m.runsCompleted.Add(1)
}

func (m *BasicMetrics) OnRunFailed(ctx context.Context, rec *RunRecord, err error) {
	m.runsFailed.Add(1)
}

func (m *BasicMetrics) OnNodeCompleted(ctx context.Context, rec *RunRecord, node string, err error, d time.Duration) {
	// Only count successful nodes for average duration.
	if err == nil {
		m.nodesCompleted.Add(1)
		m.totalNodeDuration.Add(d.Nanoseconds())
	}
}

func (m *BasicMetrics) OnTransition(ctx context.Context, rec *RunRecord, from, to string, loop bool) {
	if loop {
		m.loopTransitions.Add(1)
	}
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	started := m.runsStarted.Load()
	completed := m.runsCompleted.Load()
	failed := m.runsFailed.Load()
	nodes := m.nodesCompleted.Load()
	totalNs := m.totalNodeDuration.Load()

	var avg time.Duration
	if nodes > 0 {
		avg = time.Duration(totalNs / nodes)
	}

	return BasicMetricsSnapshot{
		RunsStarted:     started,
		RunsCompleted:   completed,
		RunsFailed:      failed,
		RunsInFlight:    started - completed - failed,
		NodesCompleted:  nodes,
		LoopTransitions: m.loopTransitions.Load(),
		AvgNodeDuration: avg,
	}
}
