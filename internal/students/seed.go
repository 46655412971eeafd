package students

import "github.com/petrijr/planweave/pkg/reasoner"

// SeedStudents returns the sample roster used by the seed command and the
// in-memory store.
func SeedStudents() []*reasoner.Student {
	return []*reasoner.Student{
		{
			ID: "student_123",
			Info: map[string]any{
				"name":           "Alex Johnson",
				"age":            13,
				"learning_style": "visual",
				"interests":      []any{"robotics", "space", "experiments"},
				"strengths":      []any{"problem_solving", "creativity"},
				"challenges":     []any{"reading_comprehension", "time_management"},
			},
			Grade:   "8th",
			Subject: "Science",
			Objectives: []string{
				"Understand the scientific method",
				"Analyze experimental data",
				"Apply scientific principles to real-world problems",
			},
			Prerequisites: []string{
				"Basic scientific observation",
				"Simple experimental procedures",
				"Data collection and recording",
			},
			LearningHistory: []reasoner.HistoryEntry{
				{Topic: "Chemistry basics", Performance: "excellent", Date: "2024-01-15"},
				{Topic: "Physics fundamentals", Performance: "good", Date: "2024-02-01"},
			},
		},
		{
			ID: "student_456",
			Info: map[string]any{
				"name":           "Sam Rivera",
				"age":            12,
				"learning_style": "kinesthetic",
				"interests":      []any{"sports", "music", "hands_on_projects"},
				"strengths":      []any{"practical_application", "teamwork"},
				"challenges":     []any{"theoretical_concepts", "independent_work"},
			},
			Grade:   "7th",
			Subject: "Mathematics",
			Objectives: []string{
				"Solve algebraic equations",
				"Apply geometric principles",
				"Use mathematical reasoning",
			},
			Prerequisites: []string{
				"Basic arithmetic operations",
				"Simple geometric shapes",
				"Pattern recognition",
			},
			LearningHistory: []reasoner.HistoryEntry{
				{Topic: "Pre-algebra", Performance: "good", Date: "2024-01-20"},
				{Topic: "Geometry basics", Performance: "excellent", Date: "2024-02-10"},
			},
		},
	}
}
