package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claritas-learn/claritas-backend/internal/course"
	"github.com/claritas-learn/claritas-backend/internal/llm"
	"github.com/claritas-learn/claritas-backend/internal/quiz"
)

// POST /evaluate_module_quiz  {courseId, unitNumber, mcqAnswers, frqAnswers, authId}
// Scores against the cached quiz blob, so the student is graded on the
// exact questions they were served.
func EvaluateModuleQuizHandler(g *course.Generator, ev *quiz.Evaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CourseID   string   `json:"courseId"`
			UnitNumber int      `json:"unitNumber"`
			MCQAnswers []int    `json:"mcqAnswers"`
			FRQAnswers []string `json:"frqAnswers"`
			AuthID     string   `json:"authId"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.CourseID == "" {
			validationError(w, "courseId is required")
			return
		}

		q, err := g.LoadModuleQuiz(req.CourseID, req.UnitNumber)
		if err != nil {
			writeError(w, err)
			return
		}
		rec, err := g.GetCourse(req.CourseID)
		if err != nil {
			writeError(w, err)
			return
		}
		unit, _ := rec.Plan.Unit(req.UnitNumber)

		res, err := ev.Evaluate(r.Context(), quiz.EvalRequest{
			AuthID:     req.AuthID,
			CourseID:   req.CourseID,
			UnitNumber: req.UnitNumber,
			UnitTitle:  unit.Title,
			SkillLevel: rec.Plan.Metadata.SkillLevel,
			Quiz:       q,
			MCQAnswers: req.MCQAnswers,
			FRQAnswers: req.FRQAnswers,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// GET /quiz_attempts/{courseID}/{unitNumber}?authId=...
func QuizAttemptsHandler(store quiz.AttemptStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unitNumber, err := urlParamInt(r, "unitNumber")
		if err != nil {
			validationError(w, "unitNumber must be an integer")
			return
		}
		authID := r.URL.Query().Get("authId")
		if authID == "" {
			validationError(w, "authId is required")
			return
		}
		attempts, err := store.List(r.Context(), authID, chi.URLParam(r, "courseID"), unitNumber)
		if err != nil {
			writeError(w, err)
			return
		}
		if attempts == nil {
			attempts = []quiz.Attempt{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"attempts": attempts})
	}
}

// GET /module_quiz_status/{courseID}?authId=...
func ModuleQuizStatusHandler(store quiz.AttemptStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authID := r.URL.Query().Get("authId")
		if authID == "" {
			validationError(w, "authId is required")
			return
		}
		attempts, err := store.ByCourse(r.Context(), authID, chi.URLParam(r, "courseID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"units": quiz.StatusByUnit(attempts)})
	}
}

// POST /quiz_help/text  {courseId, unitNumber, questionType, questionIndex,
// conversationHistory, studentMessage}
func QuizHelpTextHandler(g *course.Generator, h *quiz.Helper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CourseID      string `json:"courseId"`
			UnitNumber    int    `json:"unitNumber"`
			QuestionType  string `json:"questionType"`
			QuestionIndex int    `json:"questionIndex"`
			History       []struct {
				Role string `json:"role"`
				Text string `json:"text"`
			} `json:"conversationHistory"`
			StudentMessage string `json:"studentMessage"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.CourseID == "" || req.StudentMessage == "" {
			validationError(w, "courseId and studentMessage are required")
			return
		}

		q, err := g.LoadModuleQuiz(req.CourseID, req.UnitNumber)
		if err != nil {
			writeError(w, err)
			return
		}
		rec, err := g.GetCourse(req.CourseID)
		if err != nil {
			writeError(w, err)
			return
		}
		history := make([]llm.Turn, 0, len(req.History))
		for _, t := range req.History {
			history = append(history, llm.Turn{Role: t.Role, Text: t.Text})
		}

		reply, err := h.TextHelp(r.Context(), quiz.HelpRequest{
			Quiz:          q,
			QuestionType:  req.QuestionType,
			QuestionIndex: req.QuestionIndex,
			SkillLevel:    rec.Plan.Metadata.SkillLevel,
			AgeGroup:      rec.Plan.Metadata.AgeGroup,
			History:       history,
			Message:       req.StudentMessage,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"response": reply})
	}
}
