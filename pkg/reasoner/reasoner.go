// Package reasoner defines the external reasoning service the lesson-plan
// pipeline consumes: a narrow capability interface, an HTTP client with a
// bounded timeout, and an in-process mock Service with an HTTP server
// exposing the same contract.
package reasoner

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a student or template is unknown.
	// Runs cannot meaningfully continue without one, so callers propagate it.
	ErrNotFound = errors.New("reasoner: not found")

	// ErrUnavailable is returned on network failures, timeouts and 5xx
	// responses. Callers recover from it locally with documented defaults;
	// it never fails a run.
	ErrUnavailable = errors.New("reasoner: unavailable")
)

// StudentContext is the learning context for one student, as assembled by
// the reasoner from its student database.
type StudentContext struct {
	StudentInfo     map[string]any `json:"student_info"`
	Grade           string         `json:"grade"`
	Subject         string         `json:"subject"`
	Objectives      []string       `json:"slos"`
	Prerequisites   []string       `json:"pre_slos"`
	LearningHistory []HistoryEntry `json:"learning_history,omitempty"`
	Analysis        string         `json:"analysis,omitempty"`
}

// HistoryEntry is one past topic with an observed performance level.
type HistoryEntry struct {
	Topic       string `json:"topic"`
	Performance string `json:"performance"`
	Date        string `json:"date"`
}

// Recommendation is the reasoner's template suggestion for a context.
// Confidence is in [0, 1].
type Recommendation struct {
	Template   string             `json:"template"`
	Confidence float64            `json:"confidence"`
	Rationale  string             `json:"rationale"`
	AllScores  map[string]float64 `json:"all_scores,omitempty"`
}

// TemplateDefinition describes a lesson-plan template: its canonical stage
// sequence plus catalog metadata.
type TemplateDefinition struct {
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	Stages               []string `json:"stages"`
	BestFor              []string `json:"best_for,omitempty"`
	ConfidenceFactors    []string `json:"confidence_factors,omitempty"`
	ImplementationTips   []string `json:"implementation_tips,omitempty"`
	AssessmentStrategies []string `json:"assessment_strategies,omitempty"`
}

// Activity is one proposed content item for a stage.
type Activity struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Materials   []string `json:"materials,omitempty"`
	Adaptations []string `json:"adaptations,omitempty"`
}

// Student is one record in the reasoner's student database.
type Student struct {
	ID              string         `json:"id"`
	Info            map[string]any `json:"student_info"`
	Grade           string         `json:"grade"`
	Subject         string         `json:"subject"`
	Objectives      []string       `json:"slos"`
	Prerequisites   []string       `json:"pre_slos"`
	LearningHistory []HistoryEntry `json:"learning_history,omitempty"`
}

// StudentStore provides student records to the Service.
type StudentStore interface {
	// GetStudent returns the record for id, or ErrNotFound.
	GetStudent(ctx context.Context, id string) (*Student, error)
}

// Reasoner is the capability interface consumed by the pipeline. The mock
// Service and the HTTP Client both implement it; tests substitute
// deterministic fakes.
type Reasoner interface {
	// FetchContext assembles the learning context for a student.
	FetchContext(ctx context.Context, studentID string) (*StudentContext, error)

	// RecommendTemplate suggests the best-fitting template for a context.
	RecommendTemplate(ctx context.Context, sc *StudentContext) (*Recommendation, error)

	// FetchTemplateDefinition returns the definition of a named template.
	FetchTemplateDefinition(ctx context.Context, name string) (*TemplateDefinition, error)

	// ProposeActivities suggests content items for one stage of a template.
	ProposeActivities(ctx context.Context, stage string, sc *StudentContext) ([]Activity, error)
}
