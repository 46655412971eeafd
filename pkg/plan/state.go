package plan

import "github.com/petrijr/planweave/pkg/reasoner"

// State is the record threaded through the workflow. Stages enrich it
// additively: fields are set once and read afterwards, with one exception,
// the operator may replace StageSequence a single time during adjustment.
type State struct {
	// SubjectID is the student this plan is for. Immutable once set.
	SubjectID string `json:"subject_id"`

	// Context is the student's learning context, populated by the first
	// stage and read-only afterward.
	Context *reasoner.StudentContext `json:"context,omitempty"`

	// TemplateOptions is the fixed catalog shown to the operator.
	TemplateOptions []string `json:"template_options,omitempty"`

	// Recommendation is the reasoner's suggestion, retained even when the
	// operator overrides it.
	Recommendation *reasoner.Recommendation `json:"recommendation,omitempty"`

	// ChosenTemplate is the operator's (possibly defaulted) decision.
	ChosenTemplate Template `json:"chosen_template,omitempty"`

	// TemplateApproved records the explicit approval decision.
	TemplateApproved bool `json:"template_approved"`

	// StageSequence is the ordered stage names for the chosen template.
	StageSequence []string `json:"stage_sequence,omitempty"`

	// Adjustments records the replacement sequence when the operator
	// rewrote StageSequence, empty otherwise.
	Adjustments []string `json:"adjustments,omitempty"`

	// Cursor names the stage currently being populated. Empty means the
	// sequence is exhausted.
	Cursor string `json:"cursor,omitempty"`

	// StageContent maps stage name to its approved activities. Each key
	// is written at most once.
	StageContent map[string][]reasoner.Activity `json:"stage_content,omitempty"`

	// Complete is true iff StageSequence is non-empty and every stage in
	// it has at least one approved activity.
	Complete bool `json:"complete"`

	// CompletionEvaluated marks that Complete has been computed, which is
	// the precondition for output assembly.
	CompletionEvaluated bool `json:"completion_evaluated"`

	// Output is the assembled plan, set exactly once at termination.
	Output *Output `json:"output,omitempty"`
}

// NewState creates the initial state for a run.
func NewState(subjectID string) State {
	return State{SubjectID: subjectID}
}

// Output is the final lesson plan.
type Output struct {
	Template Template      `json:"template"`
	Stages   []StageOutput `json:"stages"`
	Metadata Metadata      `json:"metadata"`
}

// StageOutput is one stage of the plan with its approved activities,
// in sequence order.
type StageOutput struct {
	Name       string              `json:"name"`
	Activities []reasoner.Activity `json:"activities"`
}

// Metadata carries the subject details the plan was built against.
type Metadata struct {
	StudentID  string   `json:"student_id"`
	Grade      string   `json:"grade"`
	Subject    string   `json:"subject"`
	Objectives []string `json:"slos"`
}
