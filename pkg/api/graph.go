package api

import (
	"context"
)

// Status represents the lifecycle state of a graph run.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// End is the terminal marker of a graph. An edge or transition targeting End
// finishes the run with the current state as output.
const End = "__end__"

// StageFunc is a single stage in a workflow graph. It receives the current
// state and returns the next state, or an error that fails the run.
//
// Stages own the state exclusively for the duration of the call: they must
// not retain references to it after returning.
type StageFunc func(ctx context.Context, state any) (any, error)

// Transition is the tagged result of a branch decision. Loop marks the one
// permitted back-edge of a graph; everything else must move strictly forward.
type Transition struct {
	To   string
	Loop bool
}

// Continue returns a looping transition back to an earlier node.
func Continue(to string) Transition {
	return Transition{To: to, Loop: true}
}

// Proceed returns a forward transition to the given node (or End).
func Proceed(to string) Transition {
	return Transition{To: to}
}

// BranchFunc selects the successor of a node by inspecting the state the
// node just produced. It must be a pure function of the state.
type BranchFunc func(state any) Transition

// NodeDefinition describes a named graph node.
type NodeDefinition struct {
	Name string
	Fn   StageFunc
}

// GraphDefinition describes a workflow as a directed graph of stages.
//
// Every node must have exactly one successor: either a fixed edge in Edges
// or a branch function in Branches, never both. The graph must be acyclic
// except for back-edges introduced by Transition values with Loop set.
type GraphDefinition struct {
	Name  string
	Entry string
	Nodes []NodeDefinition

	// Edges maps a node name to its fixed successor (a node name or End).
	Edges map[string]string

	// Branches maps a node name to a decision function evaluated after the
	// node executes.
	Branches map[string]BranchFunc
}

// Node looks up a node definition by name.
func (d GraphDefinition) Node(name string) (NodeDefinition, bool) {
	for _, n := range d.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return NodeDefinition{}, false
}

// RunRecord holds the observable result of a graph run.
type RunRecord struct {
	ID     string
	Graph  string
	Status Status
	Output any
	Err    error

	// Input is the initial state the run was started with.
	Input any

	// Visited is the ordered list of node names executed so far. It is
	// appended to after each successful node execution, which makes the
	// stage order fully observable for logging and tests.
	Visited []string
}

// RunListOptions controls how run records are listed.
// Zero values mean "no filter" for that field.
type RunListOptions struct {
	// Graph, if non-empty, limits results to runs of the given graph.
	Graph string

	// Status, if non-empty, limits results to runs with the given status.
	Status Status
}

// Runner is the high-level graph execution API. A Runner drives one state
// value from the entry node to End, strictly sequentially; concurrent calls
// to Run execute fully isolated runs.
type Runner interface {
	// RegisterGraph registers a definition by name.
	RegisterGraph(def GraphDefinition) error

	// Run starts the named graph with the given initial state and drives it
	// to completion synchronously. Interactive stages may block indefinitely
	// waiting for a human decision; cancel ctx to abort.
	Run(ctx context.Context, graph string, initial any) (*RunRecord, error)

	// GetRun looks up a run record by ID.
	GetRun(ctx context.Context, id string) (*RunRecord, error)

	// ListRuns returns run records matching the given options.
	ListRuns(ctx context.Context, opts RunListOptions) ([]*RunRecord, error)
}
