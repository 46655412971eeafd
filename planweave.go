package planweave

import (
	"context"
	"database/sql"

	"github.com/petrijr/planweave/internal/engine"
	"github.com/petrijr/planweave/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Runner               = api.Runner
	GraphDefinition      = api.GraphDefinition
	NodeDefinition       = api.NodeDefinition
	StageFunc            = api.StageFunc
	BranchFunc           = api.BranchFunc
	Transition           = api.Transition
	RunRecord            = api.RunRecord
	RunListOptions       = api.RunListOptions
	Status               = api.Status
	GraphError           = api.GraphError
	Observer             = api.Observer
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver
)

// Re-export common helpers.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
	Continue             = api.Continue
	Proceed              = api.Proceed
	AsGraphError         = api.AsGraphError
)

// Re-export status values and the graph end marker for convenience.

const (
	StatusPending   = api.StatusPending
	StatusRunning   = api.StatusRunning
	StatusCompleted = api.StatusCompleted
	StatusFailed    = api.StatusFailed

	End = api.End
)

// Runner constructors
// These wrap the internal/engine package so external callers
// never need to import internal packages.

// NewInMemoryRunner returns a Runner backed entirely by in-memory stores.
func NewInMemoryRunner() Runner {
	return engine.NewInMemoryRunner()
}

// NewInMemoryRunnerWithObserver returns an in-memory Runner with the given Observer.
func NewInMemoryRunnerWithObserver(obs Observer) Runner {
	return engine.NewInMemoryRunnerWithObserver(obs)
}

// NewSQLiteRunner returns a Runner that persists run records in a SQLite
// database. Graph definitions are kept in-memory.
func NewSQLiteRunner(db *sql.DB) (Runner, error) {
	return engine.NewSQLiteRunner(db)
}

// NewSQLiteRunnerWithObserver returns a SQLite-backed Runner with the given Observer.
func NewSQLiteRunnerWithObserver(db *sql.DB, obs Observer) (Runner, error) {
	return engine.NewSQLiteRunnerWithObserver(db, obs)
}

// TypedStage wraps a strongly-typed stage function into a StageFunc.
// Example:
//
//	planweave.TypedStage(func(ctx context.Context, s PlanState) (PlanState, error) { ... })
func TypedStage[S any](fn func(context.Context, S) (S, error)) StageFunc {
	return api.TypedStage(fn)
}

// TypedBranch wraps a strongly-typed branch function into a BranchFunc.
func TypedBranch[S any](fn func(S) Transition) BranchFunc {
	return api.TypedBranch(fn)
}

// Convenience helpers that just forward to the underlying Runner.

// Run runs a registered graph synchronously.
func Run(ctx context.Context, r Runner, graph string, initial any) (*RunRecord, error) {
	return r.Run(ctx, graph, initial)
}

// GetRun fetches a run record by ID.
func GetRun(ctx context.Context, r Runner, id string) (*RunRecord, error) {
	return r.GetRun(ctx, id)
}

// ListRuns lists run records according to the given options.
func ListRuns(ctx context.Context, r Runner, opts RunListOptions) ([]*RunRecord, error) {
	return r.ListRuns(ctx, opts)
}
