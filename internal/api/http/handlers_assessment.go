package http

import (
	"net/http"

	"github.com/claritas-learn/claritas-backend/internal/course"
)

// POST /generate_assessment  {gradeLevel, subject}
func GenerateAssessmentHandler(g *course.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			GradeLevel string `json:"gradeLevel"`
			Subject    string `json:"subject"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.GradeLevel == "" || req.Subject == "" {
			validationError(w, "gradeLevel and subject are required")
			return
		}
		a, err := g.GenerateAssessment(r.Context(), req.GradeLevel, req.Subject)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// POST /evaluate_assessment  {gradeLevel, subject, results}
func EvaluateAssessmentHandler(g *course.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			GradeLevel string                    `json:"gradeLevel"`
			Subject    string                    `json:"subject"`
			Results    []course.AssessmentResult `json:"results"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if len(req.Results) == 0 {
			validationError(w, "results are required")
			return
		}
		analysis, err := g.EvaluateAssessment(r.Context(), req.GradeLevel, req.Subject, req.Results)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, analysis)
	}
}
