package course

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/claritas-learn/claritas-backend/internal/llm"
	"github.com/claritas-learn/claritas-backend/internal/prompt"
)

const assessmentQuestionCount = 10

// GenerateAssessment produces a 10-question self-assessment for a subject
// and grade level. Assessments are not cached: each request is a fresh
// question set.
func (g *Generator) GenerateAssessment(ctx context.Context, gradeLevel, subject string) (Assessment, error) {
	p, err := prompt.Render(prompt.AssessmentQuestions, map[string]string{
		"grade_level": gradeLevel,
		"subject":     subject,
	})
	if err != nil {
		return Assessment{}, err
	}
	raw, err := g.gen.Generate(ctx, p, assessmentSchema(), nil)
	if err != nil {
		return Assessment{}, err
	}
	var a Assessment
	if err := json.Unmarshal(raw, &a); err != nil {
		return Assessment{}, &llm.GenerationError{Message: "assessment did not match schema", Err: err}
	}
	if err := validateAssessment(a); err != nil {
		return Assessment{}, &llm.GenerationError{Message: "assessment failed validation", Err: err}
	}
	return a, nil
}

func validateAssessment(a Assessment) error {
	if len(a.Questions) != assessmentQuestionCount {
		return fmt.Errorf("expected %d questions, got %d", assessmentQuestionCount, len(a.Questions))
	}
	for i, q := range a.Questions {
		if len(q.Options) != 4 {
			return fmt.Errorf("question %d: expected 4 options, got %d", i, len(q.Options))
		}
		found := false
		for _, opt := range q.Options {
			if opt == q.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("question %d: correctAnswer not among options", i)
		}
		switch q.Difficulty {
		case "Easy", "Medium", "Hard":
		default:
			return fmt.Errorf("question %d: bad difficulty %q", i, q.Difficulty)
		}
	}
	return nil
}

// AssessmentResult is one answered self-assessment question as submitted
// for evaluation.
type AssessmentResult struct {
	ID         string `json:"id"`
	Question   string `json:"question"`
	Difficulty string `json:"difficulty"`
	Correct    bool   `json:"correct"`
}

// EvaluateAssessment scores results locally and asks the LLM for a
// strengths/weaknesses/recommendation narrative. The mastery label is
// always derived from the local score.
func (g *Generator) EvaluateAssessment(ctx context.Context, gradeLevel, subject string, results []AssessmentResult) (AssessmentAnalysis, error) {
	correct := 0
	var lines strings.Builder
	for _, r := range results {
		if r.Correct {
			correct++
		}
		verdict := "incorrect"
		if r.Correct {
			verdict = "correct"
		}
		fmt.Fprintf(&lines, "- [%s] %s — %s\n", r.Difficulty, r.Question, verdict)
	}
	pct := 0.0
	if len(results) > 0 {
		pct = math.Round(100*float64(correct)/float64(len(results))*10) / 10
	}

	p, err := prompt.Render(prompt.AssessmentAnalysis, map[string]string{
		"grade_level":   gradeLevel,
		"subject":       subject,
		"percentage":    fmt.Sprintf("%.1f", pct),
		"results_block": lines.String(),
	})
	if err != nil {
		return AssessmentAnalysis{}, err
	}
	raw, err := g.gen.Generate(ctx, p, assessmentAnalysisSchema(), nil)
	if err != nil {
		return AssessmentAnalysis{}, err
	}
	var analysis AssessmentAnalysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		return AssessmentAnalysis{}, &llm.GenerationError{Message: "assessment analysis did not match schema", Err: err}
	}
	analysis.Percentage = pct
	analysis.MasteryLevel = MasteryLevel(pct)
	return analysis, nil
}

// MasteryLevel maps a percentage score to its label.
func MasteryLevel(pct float64) string {
	switch {
	case pct < 50:
		return "Beginner"
	case pct < 70:
		return "Developing"
	case pct < 90:
		return "Proficient"
	default:
		return "Advanced"
	}
}
