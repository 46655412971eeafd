package planweave

import (
	"fmt"

	"github.com/petrijr/planweave/pkg/api"
)

// GraphBuilder provides a fluent API for defining workflow graphs:
//
//	graph := planweave.NewGraph("lesson-plan").
//	    Node("fetch-context", fetchContext).
//	    Node("generate-output", generateOutput).
//	    Edge("fetch-context", "generate-output").
//	    Edge("generate-output", planweave.End).
//	    Entry("fetch-context")
//
//	if err := graph.Register(runner); err != nil {
//	    log.Fatal(err)
//	}
//
//	rec, err := planweave.Run(ctx, runner, graph.Name(), initial)
type GraphBuilder struct {
	def api.GraphDefinition
}

// NewGraph creates a new graph builder with the given name.
func NewGraph(name string) *GraphBuilder {
	return &GraphBuilder{
		def: api.GraphDefinition{
			Name:     name,
			Nodes:    make([]api.NodeDefinition, 0),
			Edges:    make(map[string]string),
			Branches: make(map[string]api.BranchFunc),
		},
	}
}

// Name returns the graph name.
func (b *GraphBuilder) Name() string {
	return b.def.Name
}

// Definition returns the underlying GraphDefinition.
// Typically used when interacting with lower-level APIs.
func (b *GraphBuilder) Definition() GraphDefinition {
	return b.def
}

// Node adds a named node to the graph.
func (b *GraphBuilder) Node(name string, fn StageFunc) *GraphBuilder {
	if name == "" {
		panic("planweave: node name must not be empty")
	}
	if fn == nil {
		panic(fmt.Sprintf("planweave: node %q has nil stage function", name))
	}

	b.def.Nodes = append(b.def.Nodes, api.NodeDefinition{
		Name: name,
		Fn:   fn,
	})
	return b
}

// Edge sets the fixed successor of from. Use planweave.End as the target to
// terminate the graph after from.
func (b *GraphBuilder) Edge(from, to string) *GraphBuilder {
	if from == "" || to == "" {
		panic("planweave: edge endpoints must not be empty")
	}
	b.def.Edges[from] = to
	return b
}

// Then is shorthand for adding a node and an edge from the previously added
// node, which keeps linear sections of a graph readable:
//
//	NewGraph("g").
//	    Node("a", stageA).
//	    Then("b", stageB).
//	    Then("c", stageC)
func (b *GraphBuilder) Then(name string, fn StageFunc) *GraphBuilder {
	if len(b.def.Nodes) == 0 {
		panic("planweave: Then requires a preceding Node")
	}
	prev := b.def.Nodes[len(b.def.Nodes)-1].Name
	b.Node(name, fn)
	return b.Edge(prev, name)
}

// Branch registers a decision function evaluated after from executes. The
// returned Transition selects the successor; Continue transitions form the
// single permitted back-edge of the graph.
func (b *GraphBuilder) Branch(from string, fn BranchFunc) *GraphBuilder {
	if from == "" {
		panic("planweave: branch node must not be empty")
	}
	if fn == nil {
		panic(fmt.Sprintf("planweave: branch on %q has nil function", from))
	}
	b.def.Branches[from] = fn
	return b
}

// Entry designates the entry node of the graph.
func (b *GraphBuilder) Entry(name string) *GraphBuilder {
	b.def.Entry = name
	return b
}

// Register registers the built graph with the given runner.
func (b *GraphBuilder) Register(r Runner) error {
	return r.RegisterGraph(b.def)
}

// MustRegister is like Register but panics on error.
// Useful for initialization in main().
func (b *GraphBuilder) MustRegister(r Runner) {
	if err := b.Register(r); err != nil {
		panic(err)
	}
}
