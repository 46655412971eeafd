package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/petrijr/planweave/pkg/api"
)

func noop(ctx context.Context, state any) (any, error) { return state, nil }

func TestValidateGraph_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		def     api.GraphDefinition
		wantErr string
	}{
		{
			name:    "missing name",
			def:     api.GraphDefinition{},
			wantErr: "name is required",
		},
		{
			name:    "no nodes",
			def:     api.GraphDefinition{Name: "g"},
			wantErr: "at least one node",
		},
		{
			name: "reserved node name",
			def: api.GraphDefinition{
				Name:  "g",
				Entry: api.End,
				Nodes: []api.NodeDefinition{{Name: api.End, Fn: noop}},
			},
			wantErr: "reserved",
		},
		{
			name: "nil stage function",
			def: api.GraphDefinition{
				Name:  "g",
				Entry: "a",
				Nodes: []api.NodeDefinition{{Name: "a"}},
			},
			wantErr: "nil stage function",
		},
		{
			name: "duplicate node",
			def: api.GraphDefinition{
				Name:  "g",
				Entry: "a",
				Nodes: []api.NodeDefinition{{Name: "a", Fn: noop}, {Name: "a", Fn: noop}},
			},
			wantErr: "duplicate node",
		},
		{
			name: "missing entry",
			def: api.GraphDefinition{
				Name:  "g",
				Nodes: []api.NodeDefinition{{Name: "a", Fn: noop}},
				Edges: map[string]string{"a": api.End},
			},
			wantErr: "entry node is required",
		},
		{
			name: "unknown entry",
			def: api.GraphDefinition{
				Name:  "g",
				Entry: "zz",
				Nodes: []api.NodeDefinition{{Name: "a", Fn: noop}},
				Edges: map[string]string{"a": api.End},
			},
			wantErr: "entry node does not exist",
		},
		{
			name: "edge to unknown node",
			def: api.GraphDefinition{
				Name:  "g",
				Entry: "a",
				Nodes: []api.NodeDefinition{{Name: "a", Fn: noop}},
				Edges: map[string]string{"a": "zz"},
			},
			wantErr: "unknown node",
		},
		{
			name: "edge and branch on same node",
			def: api.GraphDefinition{
				Name:  "g",
				Entry: "a",
				Nodes: []api.NodeDefinition{{Name: "a", Fn: noop}},
				Edges: map[string]string{"a": api.End},
				Branches: map[string]api.BranchFunc{
					"a": func(state any) api.Transition { return api.Proceed(api.End) },
				},
			},
			wantErr: "both a fixed edge and a branch",
		},
		{
			name: "node without successor",
			def: api.GraphDefinition{
				Name:  "g",
				Entry: "a",
				Nodes: []api.NodeDefinition{{Name: "a", Fn: noop}, {Name: "b", Fn: noop}},
				Edges: map[string]string{"a": "b"},
			},
			wantErr: "no successor",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewInMemoryRunner()
			err := r.RegisterGraph(tc.def)
			if err == nil {
				t.Fatalf("expected registration to fail")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestRegisterGraph_RejectsDuplicateName(t *testing.T) {
	r := NewInMemoryRunner()
	def := api.GraphDefinition{
		Name:  "dup",
		Entry: "a",
		Nodes: []api.NodeDefinition{{Name: "a", Fn: noop}},
		Edges: map[string]string{"a": api.End},
	}
	if err := r.RegisterGraph(def); err != nil {
		t.Fatalf("first RegisterGraph: %v", err)
	}
	if err := r.RegisterGraph(def); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}
