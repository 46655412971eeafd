package reasoner

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
)

// Service is the in-process reasoner implementation. Recommendations come
// from a deterministic scoring heuristic over the embedded template catalog;
// activities are canned per-stage suggestions adapted to the student's
// learning style. Student records come from a StudentStore.
type Service struct {
	students StudentStore
	catalog  *catalog
	logger   *slog.Logger
}

var _ Reasoner = (*Service)(nil)

// NewService builds a Service backed by the given student store.
func NewService(students StudentStore, logger *slog.Logger) (*Service, error) {
	if students == nil {
		return nil, fmt.Errorf("reasoner: student store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	c, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	return &Service{students: students, catalog: c, logger: logger}, nil
}

// Templates returns the canonical template keys in catalog order.
func (s *Service) Templates() []string {
	return s.catalog.keys()
}

func (s *Service) FetchContext(ctx context.Context, studentID string) (*StudentContext, error) {
	student, err := s.students.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	sc := &StudentContext{
		StudentInfo:     student.Info,
		Grade:           student.Grade,
		Subject:         student.Subject,
		Objectives:      student.Objectives,
		Prerequisites:   student.Prerequisites,
		LearningHistory: student.LearningHistory,
		Analysis: fmt.Sprintf("Student shows strong interest in %s with %s grade level understanding.",
			student.Subject, student.Grade),
	}
	s.logger.Debug("fetched student context", "student_id", studentID, "grade", sc.Grade, "subject", sc.Subject)
	return sc, nil
}

func (s *Service) RecommendTemplate(ctx context.Context, sc *StudentContext) (*Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, fmt.Errorf("reasoner: student context is required")
	}

	scores := make(map[string]float64, len(s.catalog.Templates))
	var best *catalogEntry
	bestScore := math.Inf(-1)
	for i := range s.catalog.Templates {
		t := &s.catalog.Templates[i]
		score := scoreTemplate(t, sc)
		scores[t.Key] = score
		// Strict comparison keeps the first catalog entry on ties.
		if score > bestScore {
			best, bestScore = t, score
		}
	}

	rec := &Recommendation{
		Template:   best.Key,
		Confidence: math.Round(bestScore*100) / 100,
		Rationale: fmt.Sprintf("Based on the student's %s grade level and %s focus, the %s is recommended for its structured approach.",
			sc.Grade, sc.Subject, best.Name),
		AllScores: scores,
	}
	s.logger.Debug("recommended template", "template", rec.Template, "confidence", rec.Confidence)
	return rec, nil
}

// scoreTemplate combines grade compatibility, subject fit and objective
// count into a confidence score capped at 1.0.
func scoreTemplate(t *catalogEntry, sc *StudentContext) float64 {
	var score float64

	advanced := t.Key == "7E" || t.Key == "PBL"
	if strings.Contains(sc.Grade, "8th") && advanced {
		score += 0.3
	} else if strings.Contains(sc.Grade, "7th") && !advanced {
		score += 0.3
	}

	for _, bf := range t.BestFor {
		if strings.EqualFold(bf, sc.Subject) {
			score += 0.4
			break
		}
	}

	manyObjectives := len(sc.Objectives) > 3
	if manyObjectives == advanced {
		score += 0.2
	}

	return math.Min(score, 1.0)
}

func (s *Service) FetchTemplateDefinition(ctx context.Context, name string) (*TemplateDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, ok := s.catalog.find(name)
	if !ok {
		return nil, fmt.Errorf("template %q: %w", name, ErrNotFound)
	}
	return &TemplateDefinition{
		Name:              t.Name,
		Description:       t.Description,
		Stages:            append([]string(nil), t.Stages...),
		BestFor:           append([]string(nil), t.BestFor...),
		ConfidenceFactors: append([]string(nil), t.ConfidenceFactors...),
		ImplementationTips: []string{
			"Adapt activities to student's learning style",
			"Monitor progress through each stage",
			"Provide timely feedback and support",
		},
		AssessmentStrategies: []string{
			"Formative assessment during each stage",
			"Summative assessment at completion",
			"Student self-reflection and peer feedback",
		},
	}, nil
}

func (s *Service) ProposeActivities(ctx context.Context, stage string, sc *StudentContext) ([]Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if stage == "" {
		return nil, fmt.Errorf("reasoner: stage is required")
	}

	activities := stageActivities(stage)

	// Material adaptations keyed on the student's learning style.
	if sc != nil {
		style, _ := sc.StudentInfo["learning_style"].(string)
		for i := range activities {
			switch style {
			case "visual":
				activities[i].Materials = append(activities[i].Materials, "Visual aids")
			case "kinesthetic":
				activities[i].Materials = append(activities[i].Materials, "Hands-on materials")
			}
		}
	}

	s.logger.Debug("proposed activities", "stage", stage, "count", len(activities))
	return activities, nil
}

func stageActivities(stage string) []Activity {
	switch strings.ToLower(stage) {
	case "engage":
		return []Activity{
			{
				Type:        "discussion",
				Title:       "Hook Discussion",
				Description: "Start with an intriguing question or real-world scenario",
				Duration:    "10-15 minutes",
				Materials:   []string{"Discussion prompts", "Visual aids"},
				Adaptations: []string{"Group discussion", "Individual reflection", "Interactive polling"},
			},
			{
				Type:        "video",
				Title:       "Inspirational Video",
				Description: "Show a short video related to the topic",
				Duration:    "5-8 minutes",
				Materials:   []string{"Video content", "Discussion questions"},
				Adaptations: []string{"Pause for discussion", "Note-taking", "Predictions"},
			},
		}
	case "explore":
		return []Activity{
			{
				Type:        "hands_on",
				Title:       "Guided Investigation",
				Description: "Students explore concepts through hands-on activities",
				Duration:    "20-30 minutes",
				Materials:   []string{"Lab materials", "Safety equipment", "Worksheets"},
				Adaptations: []string{"Partner work", "Individual exploration", "Station rotation"},
			},
			{
				Type:        "simulation",
				Title:       "Digital Simulation",
				Description: "Use computer simulations to explore concepts",
				Duration:    "15-25 minutes",
				Materials:   []string{"Computer/tablet", "Simulation software"},
				Adaptations: []string{"Individual work", "Small groups", "Whole class demonstration"},
			},
		}
	case "explain":
		return []Activity{
			{
				Type:        "lecture",
				Title:       "Concept Explanation",
				Description: "Teacher explains key concepts with examples",
				Duration:    "15-20 minutes",
				Materials:   []string{"Presentation slides", "Examples", "Visual aids"},
				Adaptations: []string{"Interactive lecture", "Student questions", "Real-time examples"},
			},
			{
				Type:        "reading",
				Title:       "Text Analysis",
				Description: "Students read and analyze relevant text",
				Duration:    "20-25 minutes",
				Materials:   []string{"Reading materials", "Highlighters", "Note-taking tools"},
				Adaptations: []string{"Individual reading", "Partner reading", "Group discussion"},
			},
		}
	case "elaborate":
		return []Activity{
			{
				Type:        "project",
				Title:       "Extended Project",
				Description: "Students apply concepts in a longer project",
				Duration:    "45-60 minutes",
				Materials:   []string{"Project materials", "Guidelines", "Assessment rubrics"},
				Adaptations: []string{"Individual projects", "Group projects", "Choice of project type"},
			},
			{
				Type:        "application",
				Title:       "Real-world Application",
				Description: "Apply concepts to real-world scenarios",
				Duration:    "30-40 minutes",
				Materials:   []string{"Case studies", "Problem scenarios", "Research tools"},
				Adaptations: []string{"Individual work", "Partner collaboration", "Class presentation"},
			},
		}
	case "evaluate":
		return []Activity{
			{
				Type:        "assessment",
				Title:       "Formative Assessment",
				Description: "Check student understanding through various methods",
				Duration:    "20-30 minutes",
				Materials:   []string{"Assessment tools", "Feedback forms", "Rubrics"},
				Adaptations: []string{"Individual assessment", "Peer assessment", "Self-assessment"},
			},
			{
				Type:        "reflection",
				Title:       "Learning Reflection",
				Description: "Students reflect on their learning journey",
				Duration:    "15-20 minutes",
				Materials:   []string{"Reflection prompts", "Journal entries", "Discussion questions"},
				Adaptations: []string{"Written reflection", "Oral reflection", "Creative reflection"},
			},
		}
	default:
		return []Activity{
			{
				Type:        "discussion",
				Title:       fmt.Sprintf("%s Stage Activity", stage),
				Description: fmt.Sprintf("Customized activity for the %s stage", stage),
				Duration:    "20-25 minutes",
				Materials:   []string{"Activity materials", "Instructions"},
				Adaptations: []string{"Individual work", "Group work", "Whole class"},
			},
		}
	}
}
