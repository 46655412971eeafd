package api

import (
	"errors"
	"fmt"
)

// ErrStepLimit is wrapped into a GraphError when a run exceeds the runner's
// step ceiling. It almost always indicates a branch function that never
// proceeds past its back-edge.
var ErrStepLimit = errors.New("step limit exceeded")

// GraphError is the fatal failure of a graph run. It carries the name of the
// offending node for diagnostics and wraps the underlying cause.
type GraphError struct {
	Graph string
	Node  string
	Err   error
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("graph %s: node %s: %v", e.Graph, e.Node, e.Err)
}

func (e *GraphError) Unwrap() error {
	return e.Err
}

// NewGraphError wraps err as a fatal graph failure attributed to node.
func NewGraphError(graph, node string, err error) error {
	return &GraphError{Graph: graph, Node: node, Err: err}
}

// AsGraphError returns the GraphError in err's chain, if any.
func AsGraphError(err error) (*GraphError, bool) {
	var ge *GraphError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}
