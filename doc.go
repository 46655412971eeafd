// Package planweave provides a lightweight, embeddable workflow-graph runner
// for Go, built for content-generation pipelines with mandatory human
// checkpoints between automated steps.
//
// # Core Concepts
//
// The programming model is intentionally small:
//
//  1. Runner
//  2. GraphBuilder
//  3. StageFunc
//  4. Observer
//
// A graph is a set of named nodes connected by fixed edges, plus at most one
// conditional branch whose tagged Transition result may loop back to an
// earlier node. The Runner drives a single state value from the entry node
// to the End marker, strictly sequentially; stages that need a human
// decision simply block until one is available.
//
// # Runner
//
// The Runner registers graph definitions, executes runs synchronously, and
// records every run (including the ordered list of visited nodes) in a
// pluggable store:
//
//   - In-memory (non-durable, best for tests)
//   - SQLite (embedded durability)
//
// # GraphBuilder
//
// GraphBuilder provides the declarative API used to define graphs:
//
//	graph := planweave.NewGraph("lesson-plan").
//	    Node("fetch-context", fetchContext).
//	    Node("populate-stage", populateStage).
//	    Node("advance-stage", advanceStage).
//	    Edge("fetch-context", "populate-stage").
//	    Edge("populate-stage", "advance-stage").
//	    Branch("advance-stage", decideNext).
//	    Entry("fetch-context")
//
//	if err := graph.Register(runner); err != nil {
//	    log.Fatal(err)
//	}
//
// # StageFunc
//
// A StageFunc is the fundamental executable unit:
//
//	type StageFunc func(ctx context.Context, state any) (any, error)
//
// Stages receive exclusive ownership of the state and return the next state.
// Typed helpers (TypedStage, TypedBranch) let business logic work with a
// concrete state struct without manual assertions.
//
// # Observer
//
// Observers receive run / node lifecycle callbacks for structured logging
// (log/slog) and metrics. See LoggingObserver, BasicMetrics and
// NewCompositeObserver.
//
// The pkg/plan package builds a complete personalized-lesson-plan pipeline
// on top of this engine; cmd/planweave wraps it in a CLI.
package planweave
