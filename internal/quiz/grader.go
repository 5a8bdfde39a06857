package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/claritas-learn/claritas-backend/internal/llm"
	"github.com/claritas-learn/claritas-backend/internal/prompt"
)

// gradedSet is the grader's structured response for one FRQ set.
type gradedSet struct {
	Evaluations     []FRQEvaluation `json:"evaluations"`
	OverallFeedback string          `json:"overallFeedback"`
}

func frqGradingSchema() *genai.Schema {
	return &genai.Schema{
		Type:     genai.TypeObject,
		Required: []string{"evaluations", "overallFeedback"},
		Properties: map[string]*genai.Schema{
			"evaluations": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type:     genai.TypeObject,
					Required: []string{"questionIndex", "score", "feedback"},
					Properties: map[string]*genai.Schema{
						"questionIndex": {Type: genai.TypeInteger, Description: "0-based index of the question"},
						"score":         {Type: genai.TypeNumber, Description: "0 up to the question's maximum points"},
						"feedback":      {Type: genai.TypeString},
					},
				},
			},
			"overallFeedback": {Type: genai.TypeString},
		},
	}
}

// gradeFreeResponse grades the whole FRQ set in a single call. Any
// provider failure here fails the evaluation: FRQ grading is not optional.
func (e *Evaluator) gradeFreeResponse(ctx context.Context, req EvalRequest) (gradedSet, error) {
	var block strings.Builder
	for i, q := range req.Quiz.FreeResponse {
		answer := ""
		if i < len(req.FRQAnswers) {
			answer = req.FRQAnswers[i]
		}
		if strings.TrimSpace(answer) == "" {
			answer = "(no answer given)"
		}
		fmt.Fprintf(&block, "Question %d: %s\n", i, q.Question)
		fmt.Fprintf(&block, "Sample answer: %s\n", q.SampleAnswer)
		fmt.Fprintf(&block, "Key points: %s\n", strings.Join(q.KeyPoints, "; "))
		fmt.Fprintf(&block, "Maximum points: %g\n", q.MaxPoints)
		fmt.Fprintf(&block, "Student answer: %s\n\n", answer)
	}

	p, err := prompt.Render(prompt.FRQGrading, map[string]string{
		"unit_title":      req.UnitTitle,
		"skill_level":     req.SkillLevel,
		"questions_block": block.String(),
	})
	if err != nil {
		return gradedSet{}, err
	}
	raw, err := e.gen.Generate(ctx, p, frqGradingSchema(), nil)
	if err != nil {
		return gradedSet{}, err
	}
	var graded gradedSet
	if err := json.Unmarshal(raw, &graded); err != nil {
		return gradedSet{}, &llm.GenerationError{Message: "frq grading did not match schema", Err: err}
	}

	// Normalize: one evaluation per question in index order, scores
	// clamped to [0, maxPoints].
	byIndex := map[int]FRQEvaluation{}
	for _, ev := range graded.Evaluations {
		byIndex[ev.QuestionIndex] = ev
	}
	out := make([]FRQEvaluation, 0, len(req.Quiz.FreeResponse))
	for i, q := range req.Quiz.FreeResponse {
		ev, ok := byIndex[i]
		if !ok {
			return gradedSet{}, &llm.GenerationError{Message: fmt.Sprintf("frq grading missing question %d", i)}
		}
		if ev.Score < 0 {
			ev.Score = 0
		}
		if ev.Score > q.MaxPoints {
			ev.Score = q.MaxPoints
		}
		ev.QuestionIndex = i
		ev.MaxPoints = q.MaxPoints
		out = append(out, ev)
	}
	graded.Evaluations = out
	return graded, nil
}
