package planweave

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type tally struct {
	Visits []string
}

func mark(name string) StageFunc {
	return TypedStage(func(ctx context.Context, s tally) (tally, error) {
		s.Visits = append(s.Visits, name)
		return s, nil
	})
}

func TestGraphBuilder_LinearThenChain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	runner := NewInMemoryRunner()

	graph := NewGraph("chain").
		Node("one", mark("one")).
		Then("two", mark("two")).
		Then("three", mark("three")).
		Edge("three", End).
		Entry("one")

	require.NoError(t, graph.Register(runner))

	rec, err := Run(ctx, runner, graph.Name(), tally{})
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, rec.Status)
	require.Equal(t, []string{"one", "two", "three"}, rec.Visited)

	out, ok := rec.Output.(tally)
	require.True(t, ok, "unexpected output type %T", rec.Output)
	require.Equal(t, []string{"one", "two", "three"}, out.Visits)
}

func TestGraphBuilder_BranchLoop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	runner := NewInMemoryRunner()

	graph := NewGraph("looped").
		Node("work", mark("work")).
		Node("wrap", mark("wrap")).
		Edge("wrap", End).
		Branch("work", TypedBranch(func(s tally) Transition {
			if len(s.Visits) < 2 {
				return Continue("work")
			}
			return Proceed("wrap")
		})).
		Entry("work")

	require.NoError(t, graph.Register(runner))

	rec, err := Run(ctx, runner, graph.Name(), tally{})
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, rec.Status)
	require.Equal(t, []string{"work", "work", "wrap"}, rec.Visited)
}

func TestGraphBuilder_PanicsOnBadNode(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		NewGraph("bad").Node("", mark("x"))
	})
	require.Panics(t, func() {
		NewGraph("bad").Node("x", nil)
	})
	require.Panics(t, func() {
		NewGraph("bad").Then("first", mark("first"))
	})
}

func TestTypedStage_RejectsWrongStateType(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	runner := NewInMemoryRunner()

	graph := NewGraph("typed").
		Node("only", mark("only")).
		Edge("only", End).
		Entry("only")
	require.NoError(t, graph.Register(runner))

	_, err := Run(ctx, runner, graph.Name(), "not a tally")
	require.Error(t, err)

	ge, ok := AsGraphError(err)
	require.True(t, ok)
	require.Equal(t, "only", ge.Node)
}
