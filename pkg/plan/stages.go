package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/petrijr/planweave/pkg/gate"
	"github.com/petrijr/planweave/pkg/reasoner"
)

// ErrOutputBeforeCompletion reports output assembly being attempted before
// the completion check has run. It is a wiring bug, not a data condition.
var ErrOutputBeforeCompletion = errors.New("plan: output requested before completion check")

// stages bundles the collaborators every stage function needs. Each method
// takes the state by value and returns the enriched copy; failures other
// than NotFound degrade into documented defaults so a flaky collaborator
// cannot abort a run.
type stages struct {
	reasoner reasoner.Reasoner
	gate     gate.Gate
	logger   *slog.Logger
}

// fetchContext loads the student's learning context. An unknown subject is
// fatal; any other reasoner failure leaves the context empty and the run
// continues with reduced data.
func (s *stages) fetchContext(ctx context.Context, st State) (State, error) {
	sc, err := s.reasoner.FetchContext(ctx, st.SubjectID)
	switch {
	case errors.Is(err, reasoner.ErrNotFound):
		return st, err
	case err != nil:
		s.logger.Warn("context fetch failed, continuing with reduced data", "subject_id", st.SubjectID, "error", err)
		st.Context = &reasoner.StudentContext{}
	default:
		st.Context = sc
	}
	st.TemplateOptions = append([]string(nil), TemplateOptions...)
	return st, nil
}

// recommendTemplate asks the reasoner for a template suggestion. On failure
// the default template is recorded with zero confidence.
func (s *stages) recommendTemplate(ctx context.Context, st State) (State, error) {
	rec, err := s.reasoner.RecommendTemplate(ctx, st.Context)
	if err != nil {
		s.logger.Warn("template recommendation failed, using default", "error", err)
		st.Recommendation = &reasoner.Recommendation{Template: string(DefaultTemplate), Confidence: 0}
		return st, nil
	}
	st.Recommendation = rec
	return st, nil
}

// chooseTemplate presents the recommendation and accepts a free-text
// override. Unrecognized input falls back to the default template with a
// warning; the recommendation stays on the state for auditability either way.
func (s *stages) chooseTemplate(ctx context.Context, st State) (State, error) {
	def := string(DefaultTemplate)
	prompt := "Choose a lesson-plan template"
	if rec := st.Recommendation; rec != nil {
		def = rec.Template
		prompt = fmt.Sprintf("Recommended: %s (confidence %.2f)\n%s\nChoose a lesson-plan template",
			rec.Template, rec.Confidence, rec.Rationale)
	}

	answer, err := s.gate.Choose(prompt, st.TemplateOptions, def)
	if err != nil {
		s.logger.Warn("template choice unavailable, using default", "default", def, "error", err)
		answer = def
	}

	tmpl, ok := ParseTemplate(answer)
	if !ok {
		s.logger.Warn("unrecognized template, using default", "input", answer, "default", DefaultTemplate)
	}
	st.ChosenTemplate = tmpl
	return st, nil
}

// initTemplate resolves the chosen template into its stage sequence. An
// unknown template is fatal; any other failure uses the hardcoded fallback
// sequence for the template.
func (s *stages) initTemplate(ctx context.Context, st State) (State, error) {
	def, err := s.reasoner.FetchTemplateDefinition(ctx, string(st.ChosenTemplate))
	switch {
	case errors.Is(err, reasoner.ErrNotFound):
		return st, err
	case err != nil:
		s.logger.Warn("template definition fetch failed, using fallback stages",
			"template", st.ChosenTemplate, "error", err)
		st.StageSequence = st.ChosenTemplate.FallbackStages()
	default:
		st.StageSequence = def.Stages
	}
	return st, nil
}

// approveTemplate records the operator's explicit approval of the chosen
// template and its stages.
func (s *stages) approveTemplate(ctx context.Context, st State) (State, error) {
	prompt := fmt.Sprintf("Template %s with stages %v. Approve?", st.ChosenTemplate, st.StageSequence)
	approved, err := s.gate.Confirm(prompt, true)
	if err != nil {
		s.logger.Warn("approval unavailable, assuming approved", "error", err)
		approved = true
	}
	st.TemplateApproved = approved
	return st, nil
}

// adjustStages offers the operator one chance to replace the stage sequence
// wholesale. Declining keeps the sequence as resolved.
func (s *stages) adjustStages(ctx context.Context, st State) (State, error) {
	wants, err := s.gate.Confirm(fmt.Sprintf("Current stages: %v. Adjust?", st.StageSequence), false)
	if err != nil {
		s.logger.Warn("adjustment prompt unavailable, keeping stages", "error", err)
		return st, nil
	}
	if !wants {
		return st, nil
	}

	replacement, err := s.gate.EditList("Enter the replacement stage list")
	if err != nil {
		s.logger.Warn("stage edit unavailable, keeping stages", "error", err)
		return st, nil
	}
	if len(replacement) == 0 {
		return st, nil
	}

	st.StageSequence = replacement
	st.Adjustments = replacement
	s.logger.Info("stage sequence replaced", "stages", replacement)
	return st, nil
}

// prepareStages points the cursor at the first stage, or leaves it empty
// for an empty sequence.
func (s *stages) prepareStages(ctx context.Context, st State) (State, error) {
	st.Cursor = ""
	if len(st.StageSequence) > 0 {
		st.Cursor = st.StageSequence[0]
	}
	if st.StageContent == nil {
		st.StageContent = make(map[string][]reasoner.Activity)
	}
	return st, nil
}

// populateStage collects activities for the cursor stage: propose via the
// reasoner (placeholder on failure), then present each to the operator for
// approval. A stage already populated is left untouched.
func (s *stages) populateStage(ctx context.Context, st State) (State, error) {
	if st.Cursor == "" {
		return st, nil
	}
	if _, done := st.StageContent[st.Cursor]; done {
		return st, nil
	}

	proposed, err := s.reasoner.ProposeActivities(ctx, st.Cursor, st.Context)
	if err != nil {
		s.logger.Warn("activity proposal failed, using placeholder", "stage", st.Cursor, "error", err)
		proposed = []reasoner.Activity{{
			Type:  "discussion",
			Title: fmt.Sprintf("Default activity for %s", st.Cursor),
		}}
	}

	approved := make([]reasoner.Activity, 0, len(proposed))
	for _, activity := range proposed {
		prompt := fmt.Sprintf("[%s] %s: %s. Approve this activity?", st.Cursor, activity.Type, activity.Title)
		keep, err := s.gate.Confirm(prompt, true)
		if err != nil {
			s.logger.Warn("activity approval unavailable, keeping activity", "stage", st.Cursor, "error", err)
			keep = true
		}
		if keep {
			approved = append(approved, activity)
		}
	}

	st.StageContent[st.Cursor] = approved
	return st, nil
}

// advanceStage moves the cursor to the next stage, or clears it after the
// last one.
func (s *stages) advanceStage(ctx context.Context, st State) (State, error) {
	idx := -1
	for i, name := range st.StageSequence {
		if name == st.Cursor {
			idx = i
			break
		}
	}
	if idx >= 0 && idx < len(st.StageSequence)-1 {
		st.Cursor = st.StageSequence[idx+1]
	} else {
		st.Cursor = ""
	}
	return st, nil
}

// checkCompletion computes Complete: a non-empty sequence where every stage
// has at least one approved activity.
func (s *stages) checkCompletion(ctx context.Context, st State) (State, error) {
	complete := len(st.StageSequence) > 0
	for _, name := range st.StageSequence {
		if len(st.StageContent[name]) == 0 {
			complete = false
			break
		}
	}
	st.Complete = complete
	st.CompletionEvaluated = true
	return st, nil
}

// generateOutput assembles the final plan in sequence order.
func (s *stages) generateOutput(ctx context.Context, st State) (State, error) {
	if !st.CompletionEvaluated {
		return st, ErrOutputBeforeCompletion
	}

	out := &Output{
		Template: st.ChosenTemplate,
		Stages:   make([]StageOutput, 0, len(st.StageSequence)),
		Metadata: Metadata{StudentID: st.SubjectID},
	}
	if st.Context != nil {
		out.Metadata.Grade = st.Context.Grade
		out.Metadata.Subject = st.Context.Subject
		out.Metadata.Objectives = st.Context.Objectives
	}
	for _, name := range st.StageSequence {
		out.Stages = append(out.Stages, StageOutput{Name: name, Activities: st.StageContent[name]})
	}
	st.Output = out
	return st, nil
}
