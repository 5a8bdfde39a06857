package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/generative-ai-go/genai"

	"github.com/claritas-learn/claritas-backend/internal/course"
	"github.com/claritas-learn/claritas-backend/internal/enroll"
	"github.com/claritas-learn/claritas-backend/internal/llm"
	"github.com/claritas-learn/claritas-backend/internal/quiz"
	"github.com/claritas-learn/claritas-backend/internal/storage"
)

type stubGen struct{}

func (stubGen) Generate(ctx context.Context, prompt string, schema *genai.Schema, att *llm.Attachment) ([]byte, error) {
	return nil, &llm.GenerationError{Message: "stub"}
}
func (stubGen) Converse(ctx context.Context, system string, history []llm.Turn, message string) (string, error) {
	return "", &llm.GenerationError{Message: "stub"}
}
func (stubGen) Lookup(ctx context.Context, prompt string) (string, error) {
	return "", &llm.GenerationError{Message: "stub"}
}

type memBlobs struct{ m map[string][]byte }

func (s *memBlobs) Put(key string, r io.Reader) (string, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.m[key] = buf
	return key, nil
}

func (s *memBlobs) Get(key string) (io.ReadCloser, error) {
	buf, ok := s.m[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(buf)), nil
}

type memEnrollStore struct{ rows map[string]enroll.Enrollment }

func (s *memEnrollStore) Insert(ctx context.Context, e enroll.Enrollment) (enroll.Enrollment, error) {
	k := e.AuthID + "|" + e.CourseID
	if _, ok := s.rows[k]; ok {
		return enroll.Enrollment{}, enroll.ErrDuplicate
	}
	e.ID = fmt.Sprintf("e%d", len(s.rows)+1)
	s.rows[k] = e
	return e, nil
}

func (s *memEnrollStore) Get(ctx context.Context, authID, courseID string) (enroll.Enrollment, error) {
	e, ok := s.rows[authID+"|"+courseID]
	if !ok {
		return enroll.Enrollment{}, enroll.ErrNotEnrolled
	}
	return e, nil
}

func (s *memEnrollStore) ListByUser(ctx context.Context, authID string) ([]enroll.Enrollment, error) {
	var out []enroll.Enrollment
	for _, e := range s.rows {
		if e.AuthID == authID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memEnrollStore) UpdateProgress(ctx context.Context, authID, courseID string, completedTopics []string, lastVisited string, isCompleted bool) (enroll.Enrollment, error) {
	k := authID + "|" + courseID
	e, ok := s.rows[k]
	if !ok {
		return enroll.Enrollment{}, enroll.ErrNotEnrolled
	}
	e.CompletedTopics = completedTopics
	e.LastVisited = lastVisited
	e.IsCompleted = isCompleted
	s.rows[k] = e
	return e, nil
}

type noAttempts struct{}

func (noAttempts) Append(ctx context.Context, a quiz.Attempt) (quiz.Attempt, error) { return a, nil }
func (noAttempts) List(ctx context.Context, authID, courseID string, unitNumber int) ([]quiz.Attempt, error) {
	return nil, nil
}
func (noAttempts) Recent(ctx context.Context, authID, courseID string, unitNumber, n int) ([]quiz.Attempt, error) {
	return nil, nil
}
func (noAttempts) ByCourse(ctx context.Context, authID, courseID string) ([]quiz.Attempt, error) {
	return nil, nil
}

func seededCourses(t *testing.T, id string) *course.Generator {
	t.Helper()
	blobs := &memBlobs{m: map[string][]byte{}}
	g := course.NewGenerator(stubGen{}, blobs)
	rec := course.Record{
		CourseID: id,
		SavedAt:  "2026-01-01T00:00:00Z",
		Plan: course.CoursePlan{
			CourseTitle: "Intro Biology",
			Metadata:    course.CourseMetadata{SkillLevel: "beginner", AgeGroup: "13-15"},
			Units:       []course.Unit{{UnitNumber: 1, Title: "Cells", Subtopics: []string{"Structure"}}},
		},
	}
	if err := storage.SaveJSON(blobs, storage.CourseKey(id).String(), rec); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return g
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad response body %q: %v", w.Body.String(), err)
	}
	return out
}

func TestEnrollHandler(t *testing.T) {
	svc := enroll.NewService(&memEnrollStore{rows: map[string]enroll.Enrollment{}}, seededCourses(t, "c1"), noAttempts{})
	h := EnrollHandler(svc)

	w := postJSON(t, h, `{"authId":"u1","courseId":"c1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if msg := decodeBody(t, w)["message"]; msg != "Enrolled successfully" {
		t.Fatalf("message = %v", msg)
	}

	w = postJSON(t, h, `{"authId":"u1","courseId":"c1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("repeat status = %d", w.Code)
	}
	if msg := decodeBody(t, w)["message"]; msg != "Already enrolled" {
		t.Fatalf("repeat message = %v", msg)
	}
}

func TestEnrollHandlerUnknownCourse(t *testing.T) {
	svc := enroll.NewService(&memEnrollStore{rows: map[string]enroll.Enrollment{}}, seededCourses(t, "c1"), noAttempts{})
	w := postJSON(t, EnrollHandler(svc), `{"authId":"u1","courseId":"nope"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestEnrollHandlerValidation(t *testing.T) {
	svc := enroll.NewService(&memEnrollStore{rows: map[string]enroll.Enrollment{}}, seededCourses(t, "c1"), noAttempts{})
	h := EnrollHandler(svc)

	if w := postJSON(t, h, `{"authId":"u1"}`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing courseId: status = %d", w.Code)
	}
	if w := postJSON(t, h, `not json`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("malformed body: status = %d", w.Code)
	}
}

func TestUpdateProgressHandler(t *testing.T) {
	svc := enroll.NewService(&memEnrollStore{rows: map[string]enroll.Enrollment{}}, seededCourses(t, "c1"), noAttempts{})
	if w := postJSON(t, EnrollHandler(svc), `{"authId":"u1","courseId":"c1"}`); w.Code != http.StatusOK {
		t.Fatalf("enroll: %d", w.Code)
	}

	w := postJSON(t, UpdateProgressHandler(svc), `{"authId":"u1","courseId":"c1","completedTopics":["1-0"],"lastVisited":"1-0"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if msg := decodeBody(t, w)["message"]; msg != "Progress updated" {
		t.Fatalf("message = %v", msg)
	}
}

func TestUpdateProgressHandlerNotEnrolled(t *testing.T) {
	svc := enroll.NewService(&memEnrollStore{rows: map[string]enroll.Enrollment{}}, seededCourses(t, "c1"), noAttempts{})
	w := postJSON(t, UpdateProgressHandler(svc), `{"authId":"u1","courseId":"c1","completedTopics":[]}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGetCourseHandler(t *testing.T) {
	g := seededCourses(t, "c1")
	r := chi.NewRouter()
	r.Get("/course/{courseID}", GetCourseHandler(g))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/course/c1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/course/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing course status = %d", w.Code)
	}
}

func TestQuizAttemptsHandlerRequiresAuthID(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/quiz_attempts/{courseID}/{unitNumber}", QuizAttemptsHandler(noAttempts{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/quiz_attempts/c1/1", nil))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/quiz_attempts/c1/1?authId=u1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestGenerateTopicHandlerProviderFailure(t *testing.T) {
	g := seededCourses(t, "c1") // stub generator always fails
	w := postJSON(t, GenerateTopicHandler(g), `{"courseId":"c1","unitNumber":1,"subtopicIndex":0}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
}
