package quiz

import (
	"context"
	"log"
	"math"

	"github.com/claritas-learn/claritas-backend/internal/course"
	"github.com/claritas-learn/claritas-backend/internal/llm"
)

// PassThreshold is the fixed pass percentage for module quizzes.
const PassThreshold = 80.0

// AttemptStore persists scored attempts and serves attempt history.
type AttemptStore interface {
	// Append stores a new attempt under the next sequential attempt
	// number for its (authID, courseID, unitNumber) key.
	Append(ctx context.Context, a Attempt) (Attempt, error)
	// List returns all attempts for a key, ordered by attempt number
	// ascending.
	List(ctx context.Context, authID, courseID string, unitNumber int) ([]Attempt, error)
	// Recent returns up to n attempts for a key, newest first.
	Recent(ctx context.Context, authID, courseID string, unitNumber, n int) ([]Attempt, error)
	// ByCourse returns all attempts a user made in a course.
	ByCourse(ctx context.Context, authID, courseID string) ([]Attempt, error)
}

// Evaluator scores quiz submissions: multiple choice locally, free
// response via the LLM grader, then merges the two into one result.
type Evaluator struct {
	gen      llm.Generator
	attempts AttemptStore
}

func NewEvaluator(gen llm.Generator, attempts AttemptStore) *Evaluator {
	return &Evaluator{gen: gen, attempts: attempts}
}

// EvalRequest is one submission to score. AuthID may be empty: anonymous
// evaluations are scored normally but not persisted.
type EvalRequest struct {
	AuthID     string
	CourseID   string
	UnitNumber int
	UnitTitle  string
	SkillLevel string
	Quiz       course.ModuleQuiz
	MCQAnswers []int
	FRQAnswers []string
}

// Evaluate scores a submission. A failure grading free response fails the
// whole evaluation; a failure persisting the attempt does not — the
// student still gets their score.
func (e *Evaluator) Evaluate(ctx context.Context, req EvalRequest) (AttemptResult, error) {
	var res AttemptResult
	res.MCQResults = []MCQResult{}
	res.FRQEvaluations = []FRQEvaluation{}
	res.WeakSubtopics = []string{}

	// MCQ: a submission shorter than the question list is legal; missing
	// answers count as wrong, never as an error.
	res.MCQTotal = len(req.Quiz.MultipleChoice)
	for i, q := range req.Quiz.MultipleChoice {
		selected := -1
		if i < len(req.MCQAnswers) {
			selected = req.MCQAnswers[i]
		}
		correct := selected == q.CorrectAnswerIndex
		if correct {
			res.MCQScore++
		}
		res.MCQResults = append(res.MCQResults, MCQResult{QuestionIndex: i, Selected: selected, Correct: correct})
	}

	if len(req.Quiz.FreeResponse) > 0 {
		graded, err := e.gradeFreeResponse(ctx, req)
		if err != nil {
			return AttemptResult{}, err
		}
		res.FRQEvaluations = graded.Evaluations
		res.OverallFeedback = graded.OverallFeedback
		for _, ev := range graded.Evaluations {
			res.FRQScore += ev.Score
		}
		for _, q := range req.Quiz.FreeResponse {
			res.FRQTotal += q.MaxPoints
		}
	}

	res.TotalScore = float64(res.MCQScore) + res.FRQScore
	res.TotalPossible = float64(res.MCQTotal) + res.FRQTotal
	if res.TotalPossible > 0 {
		res.Percentage = round1(100 * res.TotalScore / res.TotalPossible)
	}
	res.Passed = res.Percentage >= PassThreshold
	res.WeakSubtopics = collectWeakSubtopics(req.Quiz, res)

	if req.AuthID != "" {
		a := Attempt{
			AuthID:        req.AuthID,
			CourseID:      req.CourseID,
			UnitNumber:    req.UnitNumber,
			AttemptResult: res,
		}
		if _, err := e.attempts.Append(ctx, a); err != nil {
			// Best effort: the score is already computed, losing the
			// history row must not lose the student's result.
			log.Printf("append attempt (%s %s unit %d): %v", req.AuthID, req.CourseID, req.UnitNumber, err)
		}
	}
	return res, nil
}

// collectWeakSubtopics gathers subtopics from missed MCQs and from FRQs
// scored below 80%% of their max, deduplicated in first-occurrence order.
func collectWeakSubtopics(q course.ModuleQuiz, res AttemptResult) []string {
	out := []string{}
	seen := map[string]bool{}
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, r := range res.MCQResults {
		if !r.Correct && r.QuestionIndex < len(q.MultipleChoice) {
			add(q.MultipleChoice[r.QuestionIndex].RelatedSubtopic)
		}
	}
	for _, ev := range res.FRQEvaluations {
		if ev.QuestionIndex >= len(q.FreeResponse) {
			continue
		}
		fq := q.FreeResponse[ev.QuestionIndex]
		if fq.MaxPoints > 0 && ev.Score < 0.8*fq.MaxPoints {
			add(fq.RelatedSubtopic)
		}
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
