package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/claritas-learn/claritas-backend/internal/course"
	"github.com/claritas-learn/claritas-backend/internal/llm"
	"github.com/claritas-learn/claritas-backend/internal/quiz"
)

const maxUploadBytes = 32 << 20

// POST /generate_course  multipart: topic, skillLevel, ageGroup,
// additionalNotes, materialsText, file (optional)
func GenerateCourseHandler(g *course.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			validationError(w, "expected multipart form")
			return
		}
		in := course.GenerateCourseInput{
			Topic:           r.FormValue("topic"),
			SkillLevel:      r.FormValue("skillLevel"),
			AgeGroup:        r.FormValue("ageGroup"),
			AdditionalNotes: r.FormValue("additionalNotes"),
			MaterialsText:   r.FormValue("materialsText"),
		}
		if in.Topic == "" {
			validationError(w, "topic is required")
			return
		}
		if file, header, err := r.FormFile("file"); err == nil {
			defer file.Close()
			data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
			if err != nil {
				writeError(w, err)
				return
			}
			mime := header.Header.Get("Content-Type")
			if mime == "" {
				mime = "application/octet-stream"
			}
			in.File = &llm.Attachment{Data: data, MIMEType: mime}
		}

		rec, err := g.GenerateCourse(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// GET /course/{courseID}
func GetCourseHandler(g *course.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := g.GetCourse(chi.URLParam(r, "courseID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// POST /generate_topic  {courseId, unitNumber, subtopicIndex}
func GenerateTopicHandler(g *course.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CourseID      string `json:"courseId"`
			UnitNumber    int    `json:"unitNumber"`
			SubtopicIndex int    `json:"subtopicIndex"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.CourseID == "" {
			validationError(w, "courseId is required")
			return
		}
		content, err := g.GenerateTopic(r.Context(), req.CourseID, req.UnitNumber, req.SubtopicIndex)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, content)
	}
}

// POST /generate_module_quiz  {courseId, unitNumber, retake, authId}
// A retake with a known authId is biased toward the student's recent weak
// subtopics.
func GenerateModuleQuizHandler(g *course.Generator, sel *quiz.Selector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CourseID   string `json:"courseId"`
			UnitNumber int    `json:"unitNumber"`
			Retake     bool   `json:"retake"`
			AuthID     string `json:"authId"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.CourseID == "" {
			validationError(w, "courseId is required")
			return
		}

		var weak *course.Weakness
		if req.Retake && req.AuthID != "" {
			var err error
			weak, err = sel.SelectWeaknessContext(r.Context(), req.AuthID, req.CourseID, req.UnitNumber)
			if err != nil {
				writeError(w, err)
				return
			}
		}
		q, err := g.GenerateModuleQuiz(r.Context(), req.CourseID, req.UnitNumber, req.Retake, weak)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func urlParamInt(r *http.Request, name string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, name))
}
