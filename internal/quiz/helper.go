package quiz

import (
	"context"
	"fmt"
	"strings"

	"github.com/claritas-learn/claritas-backend/internal/course"
	"github.com/claritas-learn/claritas-backend/internal/llm"
	"github.com/claritas-learn/claritas-backend/internal/prompt"
)

// Helper runs the Socratic tutoring conversation for a quiz question. The
// system prompt only ever sees an answer-stripped view of the question, so
// the model cannot leak the key even if coaxed.
type Helper struct {
	gen llm.Generator
}

func NewHelper(gen llm.Generator) *Helper {
	return &Helper{gen: gen}
}

type HelpRequest struct {
	Quiz          course.ModuleQuiz
	QuestionType  string // "mcq" or "frq"
	QuestionIndex int
	SkillLevel    string
	AgeGroup      string
	History       []llm.Turn
	Message       string
}

// TextHelp produces one tutoring reply.
func (h *Helper) TextHelp(ctx context.Context, req HelpRequest) (string, error) {
	qctx, err := questionContext(req.Quiz, req.QuestionType, req.QuestionIndex)
	if err != nil {
		return "", err
	}
	system, err := prompt.Render(prompt.QuizHelp, map[string]string{
		"skill_level":      req.SkillLevel,
		"age_group":        req.AgeGroup,
		"question_context": qctx,
	})
	if err != nil {
		return "", err
	}
	return h.gen.Converse(ctx, system, req.History, req.Message)
}

// questionContext renders a question with its answer stripped out: MCQ
// options are lettered but the correct index and explanation are omitted,
// FRQ sample answers and key points are omitted.
func questionContext(q course.ModuleQuiz, questionType string, index int) (string, error) {
	switch questionType {
	case "mcq":
		if index < 0 || index >= len(q.MultipleChoice) {
			return "", fmt.Errorf("mcq question %d: %w", index, course.ErrNotFound)
		}
		mcq := q.MultipleChoice[index]
		var b strings.Builder
		b.WriteString("Type: Multiple Choice\n")
		fmt.Fprintf(&b, "Question: %s\n", mcq.Question)
		b.WriteString("Options:\n")
		for i, opt := range mcq.Options {
			fmt.Fprintf(&b, "  %c. %s\n", 'A'+i, opt)
		}
		return b.String(), nil
	case "frq":
		if index < 0 || index >= len(q.FreeResponse) {
			return "", fmt.Errorf("frq question %d: %w", index, course.ErrNotFound)
		}
		frq := q.FreeResponse[index]
		return fmt.Sprintf("Type: Free Response\nQuestion: %s\nMaximum Points: %g\n", frq.Question, frq.MaxPoints), nil
	default:
		return "", fmt.Errorf("unknown question type %q", questionType)
	}
}
