package plan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/petrijr/planweave/pkg/gate"
	"github.com/petrijr/planweave/pkg/reasoner"
)

// fakeReasoner is a deterministic Reasoner for tests. Zero-value methods
// serve canned data; the error fields force specific failure modes.
type fakeReasoner struct {
	contextErr    error
	recommendErr  error
	definitionErr error
	proposeErr    error

	recommendation *reasoner.Recommendation
	stagesByName   map[string][]string
	activities     map[string][]reasoner.Activity
}

func (f *fakeReasoner) FetchContext(ctx context.Context, studentID string) (*reasoner.StudentContext, error) {
	if f.contextErr != nil {
		return nil, f.contextErr
	}
	return &reasoner.StudentContext{
		Grade:      "8th",
		Subject:    "Science",
		Objectives: []string{"Understand the scientific method"},
	}, nil
}

func (f *fakeReasoner) RecommendTemplate(ctx context.Context, sc *reasoner.StudentContext) (*reasoner.Recommendation, error) {
	if f.recommendErr != nil {
		return nil, f.recommendErr
	}
	if f.recommendation != nil {
		return f.recommendation, nil
	}
	return &reasoner.Recommendation{Template: "5E", Confidence: 0.9}, nil
}

func (f *fakeReasoner) FetchTemplateDefinition(ctx context.Context, name string) (*reasoner.TemplateDefinition, error) {
	if f.definitionErr != nil {
		return nil, f.definitionErr
	}
	if stages, ok := f.stagesByName[name]; ok {
		return &reasoner.TemplateDefinition{Name: name, Stages: stages}, nil
	}
	return &reasoner.TemplateDefinition{Name: name, Stages: Template(name).FallbackStages()}, nil
}

func (f *fakeReasoner) ProposeActivities(ctx context.Context, stage string, sc *reasoner.StudentContext) ([]reasoner.Activity, error) {
	if f.proposeErr != nil {
		return nil, f.proposeErr
	}
	if acts, ok := f.activities[stage]; ok {
		return acts, nil
	}
	return []reasoner.Activity{{Type: "discussion", Title: "Activity for " + stage}}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStages(r reasoner.Reasoner, g gate.Gate) *stages {
	return &stages{reasoner: r, gate: g, logger: discardLogger()}
}

func TestCheckCompletion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStages(&fakeReasoner{}, &gate.ScriptedGate{})

	cases := []struct {
		name  string
		state State
		want  bool
	}{
		{
			name:  "empty sequence is vacuously incomplete",
			state: State{StageSequence: nil},
			want:  false,
		},
		{
			name: "one stage without content",
			state: State{
				StageSequence: []string{"Engage"},
				StageContent:  map[string][]reasoner.Activity{},
			},
			want: false,
		},
		{
			name: "one stage with empty approved set",
			state: State{
				StageSequence: []string{"Engage"},
				StageContent:  map[string][]reasoner.Activity{"Engage": {}},
			},
			want: false,
		},
		{
			name: "all stages populated",
			state: State{
				StageSequence: []string{"Engage", "Explore"},
				StageContent: map[string][]reasoner.Activity{
					"Engage":  {{Title: "a"}},
					"Explore": {{Title: "b"}},
				},
			},
			want: true,
		},
		{
			name: "one of two stages missing",
			state: State{
				StageSequence: []string{"Engage", "Explore"},
				StageContent: map[string][]reasoner.Activity{
					"Engage": {{Title: "a"}},
				},
			},
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := s.checkCompletion(ctx, tc.state)
			require.NoError(t, err)
			require.Equal(t, tc.want, out.Complete)
			require.True(t, out.CompletionEvaluated)
		})
	}
}

func TestAdvanceStage_LastElementClearsCursorAndLoopExits(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStages(&fakeReasoner{}, &gate.ScriptedGate{})

	st := State{
		StageSequence: []string{"Challenge", "Investigate"},
		Cursor:        "Challenge",
	}

	st, err := s.advanceStage(ctx, st)
	require.NoError(t, err)
	require.Equal(t, "Investigate", st.Cursor)
	require.True(t, stageLoop(st).Loop, "mid-sequence cursor must loop back")
	require.Equal(t, "populate-stage", stageLoop(st).To)

	st, err = s.advanceStage(ctx, st)
	require.NoError(t, err)
	require.Empty(t, st.Cursor, "advancing past the last stage clears the cursor")

	tr := stageLoop(st)
	require.False(t, tr.Loop)
	require.Equal(t, "check-completion", tr.To)
}

func TestRecommendTemplate_UnavailableYieldsDefaultWithZeroConfidence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStages(&fakeReasoner{
		recommendErr: fmt.Errorf("dial: %w", reasoner.ErrUnavailable),
	}, &gate.ScriptedGate{})

	st, err := s.recommendTemplate(ctx, State{})
	require.NoError(t, err, "collaborator unavailability must never fail the run")
	require.NotNil(t, st.Recommendation)
	require.Equal(t, string(DefaultTemplate), st.Recommendation.Template)
	require.Zero(t, st.Recommendation.Confidence)
}

func TestChooseTemplate_UnrecognizedOverrideFallsBackToFiveE(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := &gate.ScriptedGate{Choices: []string{"XYZ"}}
	s := newTestStages(&fakeReasoner{}, g)

	st := State{
		TemplateOptions: TemplateOptions,
		Recommendation:  &reasoner.Recommendation{Template: "PBL", Confidence: 0.8, Rationale: "fits"},
	}
	st, err := s.chooseTemplate(ctx, st)
	require.NoError(t, err)
	require.Equal(t, TemplateFiveE, st.ChosenTemplate)

	// The audit trail survives the override.
	require.NotNil(t, st.Recommendation)
	require.Equal(t, "PBL", st.Recommendation.Template)
	require.InDelta(t, 0.8, st.Recommendation.Confidence, 1e-9)
}

func TestChooseTemplate_CaseInsensitiveInput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := &gate.ScriptedGate{Choices: []string{"pbl"}}
	s := newTestStages(&fakeReasoner{}, g)

	st, err := s.chooseTemplate(ctx, State{TemplateOptions: TemplateOptions})
	require.NoError(t, err)
	require.Equal(t, TemplatePBL, st.ChosenTemplate)
}

func TestFetchContext_NotFoundIsFatal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStages(&fakeReasoner{
		contextErr: fmt.Errorf("student %q: %w", "ghost", reasoner.ErrNotFound),
	}, &gate.ScriptedGate{})

	_, err := s.fetchContext(ctx, NewState("ghost"))
	require.ErrorIs(t, err, reasoner.ErrNotFound)
}

func TestFetchContext_UnavailableDegradesToEmptyContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStages(&fakeReasoner{contextErr: errors.New("connection refused")}, &gate.ScriptedGate{})

	st, err := s.fetchContext(ctx, NewState("student_123"))
	require.NoError(t, err)
	require.NotNil(t, st.Context)
	require.Equal(t, TemplateOptions, st.TemplateOptions)
}

func TestInitTemplate_FallbackStagesPerTemplate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStages(&fakeReasoner{definitionErr: errors.New("timeout")}, &gate.ScriptedGate{})

	cases := []struct {
		template Template
		want     int
	}{
		{TemplateFiveE, 5},
		{TemplateSevenE, 7},
		{TemplatePBL, 4},
		{TemplateDynamic, 0},
	}
	for _, tc := range cases {
		st, err := s.initTemplate(ctx, State{ChosenTemplate: tc.template})
		require.NoError(t, err)
		require.Len(t, st.StageSequence, tc.want, "template %s", tc.template)
	}
}

func TestInitTemplate_UnknownTemplateIsFatal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStages(&fakeReasoner{
		definitionErr: fmt.Errorf("template %q: %w", "5E", reasoner.ErrNotFound),
	}, &gate.ScriptedGate{})

	_, err := s.initTemplate(ctx, State{ChosenTemplate: TemplateFiveE})
	require.ErrorIs(t, err, reasoner.ErrNotFound)
}

func TestPopulateStage_WritesEachStageAtMostOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStages(&fakeReasoner{}, &gate.ScriptedGate{})

	st := State{
		Cursor:       "Engage",
		StageContent: map[string][]reasoner.Activity{},
	}
	st, err := s.populateStage(ctx, st)
	require.NoError(t, err)
	require.Len(t, st.StageContent["Engage"], 1)

	// A second visit with the same cursor leaves the entry untouched.
	st.StageContent["Engage"] = []reasoner.Activity{{Title: "sentinel"}}
	st, err = s.populateStage(ctx, st)
	require.NoError(t, err)
	require.Equal(t, "sentinel", st.StageContent["Engage"][0].Title)
}

func TestPopulateStage_ProposalFailureUsesPlaceholder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStages(&fakeReasoner{proposeErr: errors.New("503")}, &gate.ScriptedGate{})

	st := State{Cursor: "Explore", StageContent: map[string][]reasoner.Activity{}}
	st, err := s.populateStage(ctx, st)
	require.NoError(t, err)
	require.Len(t, st.StageContent["Explore"], 1)
	require.Contains(t, st.StageContent["Explore"][0].Title, "Explore")
}

func TestPopulateStage_RejectedActivitiesYieldEmptyEntry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := &gate.ScriptedGate{Confirms: []bool{false}}
	s := newTestStages(&fakeReasoner{}, g)

	st := State{Cursor: "Evaluate", StageContent: map[string][]reasoner.Activity{}}
	st, err := s.populateStage(ctx, st)
	require.NoError(t, err)

	content, ok := st.StageContent["Evaluate"]
	require.True(t, ok, "a visited stage records an entry even when everything was rejected")
	require.Empty(t, content)
}

func TestGenerateOutput_RequiresCompletionCheck(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStages(&fakeReasoner{}, &gate.ScriptedGate{})

	_, err := s.generateOutput(ctx, State{})
	require.ErrorIs(t, err, ErrOutputBeforeCompletion)
}

func TestAdjustStages_ReplacementOverwritesSequence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := &gate.ScriptedGate{
		Confirms: []bool{true},
		Lists:    [][]string{{"Warmup", "Deep Dive"}},
	}
	s := newTestStages(&fakeReasoner{}, g)

	st := State{StageSequence: []string{"Engage", "Explore", "Explain"}}
	st, err := s.adjustStages(ctx, st)
	require.NoError(t, err)
	require.Equal(t, []string{"Warmup", "Deep Dive"}, st.StageSequence)
	require.Equal(t, []string{"Warmup", "Deep Dive"}, st.Adjustments)
}

func TestAdjustStages_DeclinedKeepsSequence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := &gate.ScriptedGate{Confirms: []bool{false}}
	s := newTestStages(&fakeReasoner{}, g)

	st := State{StageSequence: []string{"Engage"}}
	st, err := s.adjustStages(ctx, st)
	require.NoError(t, err)
	require.Equal(t, []string{"Engage"}, st.StageSequence)
	require.Empty(t, st.Adjustments)
}
