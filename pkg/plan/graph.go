package plan

import (
	"context"
	"fmt"
	"log/slog"

	planweave "github.com/petrijr/planweave"
	"github.com/petrijr/planweave/pkg/gate"
	"github.com/petrijr/planweave/pkg/reasoner"
)

// GraphName is the registered name of the lesson-plan workflow.
const GraphName = "lesson-plan"

// Planner wires the stage functions into a workflow graph and runs it.
type Planner struct {
	runner planweave.Runner
	logger *slog.Logger
}

// NewPlanner registers the lesson-plan graph on runner, built around the
// given collaborators.
func NewPlanner(runner planweave.Runner, r reasoner.Reasoner, g gate.Gate, logger *slog.Logger) (*Planner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &stages{reasoner: r, gate: g, logger: logger}

	graph := planweave.NewGraph(GraphName).
		Node("fetch-context", planweave.TypedStage(s.fetchContext)).
		Then("recommend-template", planweave.TypedStage(s.recommendTemplate)).
		Then("choose-template", planweave.TypedStage(s.chooseTemplate)).
		Then("init-template", planweave.TypedStage(s.initTemplate)).
		Then("approve-template", planweave.TypedStage(s.approveTemplate)).
		Then("adjust-stages", planweave.TypedStage(s.adjustStages)).
		Then("prepare-stages", planweave.TypedStage(s.prepareStages)).
		Then("populate-stage", planweave.TypedStage(s.populateStage)).
		Then("advance-stage", planweave.TypedStage(s.advanceStage)).
		Node("check-completion", planweave.TypedStage(s.checkCompletion)).
		Then("generate-output", planweave.TypedStage(s.generateOutput)).
		Edge("generate-output", planweave.End).
		Branch("advance-stage", planweave.TypedBranch(stageLoop)).
		Entry("fetch-context")

	if err := graph.Register(runner); err != nil {
		return nil, fmt.Errorf("register %s graph: %w", GraphName, err)
	}
	return &Planner{runner: runner, logger: logger}, nil
}

// stageLoop is the single conditional edge of the graph: while the cursor
// names an unvisited stage the loop returns to populate-stage, otherwise
// control proceeds to the completion check.
func stageLoop(st State) planweave.Transition {
	if st.Cursor != "" {
		return planweave.Continue("populate-stage")
	}
	return planweave.Proceed("check-completion")
}

// BuildPlan runs the workflow for one subject and returns the assembled
// plan. Unknown subjects and node failures surface as the run error; plans
// can come back with Complete false when the operator rejected everything.
func (p *Planner) BuildPlan(ctx context.Context, subjectID string) (*Output, *planweave.RunRecord, error) {
	rec, err := p.runner.Run(ctx, GraphName, NewState(subjectID))
	if err != nil {
		return nil, rec, err
	}

	final, ok := rec.Output.(State)
	if !ok {
		return nil, rec, fmt.Errorf("plan: unexpected final state type %T", rec.Output)
	}
	p.logger.Info("plan built",
		"run_id", rec.ID, "subject_id", subjectID,
		"template", final.ChosenTemplate, "complete", final.Complete)
	return final.Output, rec, nil
}
