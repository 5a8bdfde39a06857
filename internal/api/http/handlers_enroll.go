package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claritas-learn/claritas-backend/internal/enroll"
)

// POST /enroll  {authId, courseId}
// Idempotent: re-enrolling returns the existing row with 200.
func EnrollHandler(svc *enroll.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			AuthID   string `json:"authId"`
			CourseID string `json:"courseId"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.AuthID == "" || req.CourseID == "" {
			validationError(w, "authId and courseId are required")
			return
		}
		e, already, err := svc.Enroll(r.Context(), req.AuthID, req.CourseID)
		if err != nil {
			writeError(w, err)
			return
		}
		msg := "Enrolled successfully"
		if already {
			msg = "Already enrolled"
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": msg, "enrollment": e})
	}
}

// GET /user/{authID}/courses
func UserCoursesHandler(svc *enroll.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courses, err := svc.ListCourses(r.Context(), chi.URLParam(r, "authID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if courses == nil {
			courses = []enroll.Enrollment{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"courses": courses})
	}
}

// POST /update_progress  {authId, courseId, completedTopics, lastVisited}
func UpdateProgressHandler(svc *enroll.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			AuthID          string   `json:"authId"`
			CourseID        string   `json:"courseId"`
			CompletedTopics []string `json:"completedTopics"`
			LastVisited     string   `json:"lastVisited"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.AuthID == "" || req.CourseID == "" {
			validationError(w, "authId and courseId are required")
			return
		}
		e, err := svc.UpdateProgress(r.Context(), req.AuthID, req.CourseID, req.CompletedTopics, req.LastVisited)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Progress updated", "enrollment": e})
	}
}
