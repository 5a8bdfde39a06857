package course

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/claritas-learn/claritas-backend/internal/llm"
)

func TestMasteryLevel(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{0, "Beginner"},
		{45, "Beginner"},
		{49.9, "Beginner"},
		{50, "Developing"},
		{69.9, "Developing"},
		{70, "Proficient"},
		{72, "Proficient"},
		{89.9, "Proficient"},
		{90, "Advanced"},
		{100, "Advanced"},
	}
	for _, c := range cases {
		if got := MasteryLevel(c.pct); got != c.want {
			t.Errorf("MasteryLevel(%v) = %q, want %q", c.pct, got, c.want)
		}
	}
}

func validQuestions(n int) []AssessmentQuestion {
	out := make([]AssessmentQuestion, n)
	for i := range out {
		out[i] = AssessmentQuestion{
			ID:            fmt.Sprintf("q%d", i),
			Question:      "?",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: "b",
			Difficulty:    "Medium",
		}
	}
	return out
}

func TestValidateAssessment(t *testing.T) {
	good := Assessment{Questions: validQuestions(10)}
	if err := validateAssessment(good); err != nil {
		t.Fatalf("valid assessment rejected: %v", err)
	}

	short := Assessment{Questions: validQuestions(7)}
	if err := validateAssessment(short); err == nil {
		t.Fatal("expected error for wrong question count")
	}

	badAnswer := Assessment{Questions: validQuestions(10)}
	badAnswer.Questions[3].CorrectAnswer = "not an option"
	if err := validateAssessment(badAnswer); err == nil {
		t.Fatal("expected error for correctAnswer not among options")
	}

	badDifficulty := Assessment{Questions: validQuestions(10)}
	badDifficulty.Questions[0].Difficulty = "Impossible"
	if err := validateAssessment(badDifficulty); err == nil {
		t.Fatal("expected error for unknown difficulty")
	}

	threeOptions := Assessment{Questions: validQuestions(10)}
	threeOptions.Questions[5].Options = []string{"a", "b", "c"}
	threeOptions.Questions[5].CorrectAnswer = "a"
	if err := validateAssessment(threeOptions); err == nil {
		t.Fatal("expected error for wrong option count")
	}
}

func TestGenerateAssessmentRejectsInvalid(t *testing.T) {
	a := Assessment{Questions: validQuestions(4)}
	gen := &fakeGen{generate: func(string) ([]byte, error) { return jsonOf(t, a), nil }}
	g := NewGenerator(gen, newMemStore())

	_, err := g.GenerateAssessment(context.Background(), "8th grade", "Math")
	var genErr *llm.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}

func TestEvaluateAssessmentScoresLocally(t *testing.T) {
	gen := &fakeGen{generate: func(string) ([]byte, error) {
		// Provider-supplied score fields must be overridden locally.
		return []byte(`{"percentage": 1.0, "masteryLevel": "Wrong", "strengths": "algebra", "weaknesses": "geometry", "recommendation": "practice proofs"}`), nil
	}}
	g := NewGenerator(gen, newMemStore())

	results := make([]AssessmentResult, 10)
	for i := range results {
		results[i] = AssessmentResult{ID: fmt.Sprintf("q%d", i), Question: "?", Difficulty: "Medium", Correct: i < 7}
	}
	analysis, err := g.EvaluateAssessment(context.Background(), "8th grade", "Math", results)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if analysis.Percentage != 70.0 {
		t.Fatalf("percentage = %v, want 70.0", analysis.Percentage)
	}
	if analysis.MasteryLevel != "Proficient" {
		t.Fatalf("mastery = %q, want Proficient", analysis.MasteryLevel)
	}
	if analysis.Strengths != "algebra" || analysis.Recommendation != "practice proofs" {
		t.Fatalf("narrative lost: %+v", analysis)
	}
	if !strings.Contains(gen.lastPrompt, "70.0") {
		t.Fatalf("prompt missing local percentage:\n%s", gen.lastPrompt)
	}
}
