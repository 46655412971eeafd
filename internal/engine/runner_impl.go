package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/petrijr/planweave/internal/persistence"
	"github.com/petrijr/planweave/pkg/api"
)

// DefaultStepLimit bounds the number of node executions per run. The only
// cycle a graph may contain is the designated back-edge, so any run visiting
// this many nodes is stuck in a branch that never proceeds.
const DefaultStepLimit = 1000

// runnerImpl is a simple, synchronous, in-process graph runner.
type runnerImpl struct {
	mu     sync.Mutex
	graphs map[string]api.GraphDefinition
	nextID int64

	runs      persistence.RunStore
	observer  api.Observer
	stepLimit int
}

// Config describes how to construct a runnerImpl.
// Only used inside this package; external callers use the helper functions.
type Config struct {
	Runs      persistence.RunStore
	Observer  api.Observer
	StepLimit int
}

// NewRunnerWithConfig creates a new Runner using the given configuration.
func NewRunnerWithConfig(cfg Config) api.Runner {
	obs := cfg.Observer
	if obs == nil {
		obs = api.NoopObserver{}
	}
	limit := cfg.StepLimit
	if limit <= 0 {
		limit = DefaultStepLimit
	}
	runs := cfg.Runs
	if runs == nil {
		runs = persistence.NewInMemoryStore()
	}
	return &runnerImpl{
		graphs:    make(map[string]api.GraphDefinition),
		runs:      runs,
		observer:  obs,
		stepLimit: limit,
	}
}

// NewInMemoryRunner returns a Runner backed entirely by in-memory stores.
func NewInMemoryRunner() api.Runner {
	return NewRunnerWithConfig(Config{})
}

// NewInMemoryRunnerWithObserver returns an in-memory Runner with the given Observer.
func NewInMemoryRunnerWithObserver(obs api.Observer) api.Runner {
	return NewRunnerWithConfig(Config{Observer: obs})
}

// NewSQLiteRunner returns a Runner that persists run records in a SQLite
// database. Graph definitions are kept in-memory.
func NewSQLiteRunner(db *sql.DB) (api.Runner, error) {
	return NewSQLiteRunnerWithObserver(db, nil)
}

// NewSQLiteRunnerWithObserver returns a SQLite-backed Runner with the given Observer.
func NewSQLiteRunnerWithObserver(db *sql.DB, obs api.Observer) (api.Runner, error) {
	runs, err := persistence.NewSQLiteRunStore(db)
	if err != nil {
		return nil, err
	}
	return NewRunnerWithConfig(Config{Runs: runs, Observer: obs}), nil
}

func (r *runnerImpl) RegisterGraph(def api.GraphDefinition) error {
	if err := validateGraph(def); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.graphs[def.Name]; exists {
		return fmt.Errorf("graph already registered: %s", def.Name)
	}
	r.graphs[def.Name] = def
	return nil
}

func validateGraph(def api.GraphDefinition) error {
	if def.Name == "" {
		return errors.New("graph name is required")
	}
	if len(def.Nodes) == 0 {
		return errors.New("graph must have at least one node")
	}

	names := make(map[string]bool, len(def.Nodes))
	for _, n := range def.Nodes {
		if n.Name == "" {
			return errors.New("node name must not be empty")
		}
		if n.Name == api.End {
			return fmt.Errorf("node name %s is reserved", api.End)
		}
		if n.Fn == nil {
			return fmt.Errorf("node %s has nil stage function", n.Name)
		}
		if names[n.Name] {
			return fmt.Errorf("duplicate node name: %s", n.Name)
		}
		names[n.Name] = true
	}

	if def.Entry == "" {
		return errors.New("graph entry node is required")
	}
	if !names[def.Entry] {
		return fmt.Errorf("entry node does not exist: %s", def.Entry)
	}

	for from, to := range def.Edges {
		if !names[from] {
			return fmt.Errorf("edge from unknown node: %s", from)
		}
		if to != api.End && !names[to] {
			return fmt.Errorf("edge from %s to unknown node: %s", from, to)
		}
	}
	for from, fn := range def.Branches {
		if !names[from] {
			return fmt.Errorf("branch on unknown node: %s", from)
		}
		if fn == nil {
			return fmt.Errorf("branch on node %s is nil", from)
		}
		if _, both := def.Edges[from]; both {
			return fmt.Errorf("node %s has both a fixed edge and a branch", from)
		}
	}

	// Every node needs a successor of exactly one kind.
	for name := range names {
		_, hasEdge := def.Edges[name]
		_, hasBranch := def.Branches[name]
		if !hasEdge && !hasBranch {
			return fmt.Errorf("node %s has no successor", name)
		}
	}

	return nil
}

func (r *runnerImpl) Run(ctx context.Context, graph string, initial any) (*api.RunRecord, error) {
	r.mu.Lock()
	def, ok := r.graphs[graph]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown graph: %s", graph)
	}

	rec := &api.RunRecord{
		ID:     r.nextRunID(),
		Graph:  def.Name,
		Status: api.StatusRunning,
		Input:  initial,
	}

	r.observer.OnRunStart(ctx, rec)

	// Persist the record as soon as the run starts.
	if err := r.runs.SaveRun(rec); err != nil {
		rec.Status = api.StatusFailed
		rec.Err = err
		r.observer.OnRunFailed(ctx, rec, err)
		return rec, err
	}

	return r.execute(ctx, def, rec, initial)
}

func (r *runnerImpl) GetRun(ctx context.Context, id string) (*api.RunRecord, error) {
	rec, err := r.runs.GetRun(id)
	if err != nil {
		if errors.Is(err, persistence.ErrRunNotFound) {
			return nil, fmt.Errorf("run not found: %s", id)
		}
		return nil, err
	}
	return rec, nil
}

func (r *runnerImpl) ListRuns(ctx context.Context, opts api.RunListOptions) ([]*api.RunRecord, error) {
	return r.runs.ListRuns(persistence.RunFilter{
		Graph:  opts.Graph,
		Status: opts.Status,
	})
}

func (r *runnerImpl) nextRunID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	return fmt.Sprintf("run-%d", r.nextID)
}

// execute drives one state value from the entry node to End.
func (r *runnerImpl) execute(
	ctx context.Context,
	def api.GraphDefinition,
	rec *api.RunRecord,
	state any,
) (*api.RunRecord, error) {
	node := def.Entry
	steps := 0

	for node != api.End {
		steps++
		if steps > r.stepLimit {
			return r.fail(ctx, rec, api.NewGraphError(def.Name, node, api.ErrStepLimit))
		}

		select {
		case <-ctx.Done():
			return r.fail(ctx, rec, api.NewGraphError(def.Name, node, ctx.Err()))
		default:
		}

		nd, ok := def.Node(node)
		if !ok {
			return r.fail(ctx, rec, api.NewGraphError(def.Name, node, errors.New("node not found")))
		}

		start := time.Now()
		r.observer.OnNodeStart(ctx, rec, node)

		next, err := nd.Fn(ctx, state)

		r.observer.OnNodeCompleted(ctx, rec, node, err, time.Since(start))

		if err != nil {
			return r.fail(ctx, rec, api.NewGraphError(def.Name, node, err))
		}

		state = next
		rec.Visited = append(rec.Visited, node)
		_ = r.runs.UpdateRun(rec)

		succ, loop, err := successor(def, node, state)
		if err != nil {
			return r.fail(ctx, rec, api.NewGraphError(def.Name, node, err))
		}
		r.observer.OnTransition(ctx, rec, node, succ, loop)
		node = succ
	}

	rec.Status = api.StatusCompleted
	rec.Output = state
	_ = r.runs.UpdateRun(rec)

	r.observer.OnRunCompleted(ctx, rec)

	return rec, nil
}

func (r *runnerImpl) fail(ctx context.Context, rec *api.RunRecord, err error) (*api.RunRecord, error) {
	rec.Status = api.StatusFailed
	rec.Err = err
	_ = r.runs.UpdateRun(rec)
	r.observer.OnRunFailed(ctx, rec, err)
	return rec, err
}

// successor resolves the next node after node has executed: the registered
// branch decides if present, otherwise the fixed edge applies.
func successor(def api.GraphDefinition, node string, state any) (string, bool, error) {
	if branch, ok := def.Branches[node]; ok {
		tr := branch(state)
		if tr.To == "" {
			return "", false, errors.New("branch returned empty successor")
		}
		if tr.To != api.End {
			if _, ok := def.Node(tr.To); !ok {
				return "", false, fmt.Errorf("branch targets unknown node: %s", tr.To)
			}
		}
		return tr.To, tr.Loop, nil
	}
	if to, ok := def.Edges[node]; ok {
		return to, false, nil
	}
	return "", false, errors.New("no successor defined")
}
