package course

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"github.com/claritas-learn/claritas-backend/internal/llm"
	"github.com/claritas-learn/claritas-backend/internal/storage"
)

type fakeGen struct {
	generate   func(prompt string) ([]byte, error)
	lookup     func(prompt string) (string, error)
	calls      int
	lastPrompt string
}

func (f *fakeGen) Generate(ctx context.Context, prompt string, schema *genai.Schema, att *llm.Attachment) ([]byte, error) {
	f.calls++
	f.lastPrompt = prompt
	return f.generate(prompt)
}

func (f *fakeGen) Converse(ctx context.Context, system string, history []llm.Turn, message string) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeGen) Lookup(ctx context.Context, prompt string) (string, error) {
	if f.lookup == nil {
		return "", errors.New("no lookup configured")
	}
	return f.lookup(prompt)
}

type memStore struct {
	m map[string][]byte
}

func newMemStore() *memStore { return &memStore{m: map[string][]byte{}} }

func (s *memStore) Put(key string, r io.Reader) (string, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.m[key] = buf
	return key, nil
}

func (s *memStore) Get(key string) (io.ReadCloser, error) {
	buf, ok := s.m[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(buf)), nil
}

func jsonOf(t *testing.T, v any) []byte {
	t.Helper()
	buf, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return buf
}

func testPlan() CoursePlan {
	return CoursePlan{
		CourseTitle: "Intro Biology",
		Description: "Cells and more",
		Metadata:    CourseMetadata{SkillLevel: "beginner", AgeGroup: "13-15", EstimatedTotalDuration: "6 weeks"},
		Units: []Unit{
			{UnitNumber: 1, Title: "Cells", Subtopics: []string{"Cell structure", "Membranes"}, Quiz: QuizSummary{Title: "Unit 1 Quiz", QuestionCount: 5}},
			{UnitNumber: 2, Title: "Genetics", Subtopics: []string{"DNA"}, Quiz: QuizSummary{Title: "Unit 2 Quiz", QuestionCount: 5}},
		},
	}
}

func seedCourse(t *testing.T, blobs storage.BlobStore, id string) Record {
	t.Helper()
	rec := Record{CourseID: id, SavedAt: "2026-01-01T00:00:00Z", Plan: testPlan()}
	if err := storage.SaveJSON(blobs, storage.CourseKey(id).String(), rec); err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return rec
}

func TestGenerateCourseSortsUnitsAndPersists(t *testing.T) {
	plan := testPlan()
	plan.Units[0], plan.Units[1] = plan.Units[1], plan.Units[0] // provider returns out of order
	gen := &fakeGen{generate: func(string) ([]byte, error) { return jsonOf(t, plan), nil }}
	blobs := newMemStore()
	g := NewGenerator(gen, blobs)

	rec, err := g.GenerateCourse(context.Background(), GenerateCourseInput{Topic: "biology"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if rec.CourseID == "" || rec.SavedAt == "" {
		t.Fatalf("envelope incomplete: %+v", rec)
	}
	if rec.Plan.Units[0].UnitNumber != 1 || rec.Plan.Units[1].UnitNumber != 2 {
		t.Fatalf("units not sorted: %+v", rec.Plan.Units)
	}

	var stored Record
	ok, err := storage.LoadJSON(blobs, storage.CourseKey(rec.CourseID).String(), &stored)
	if err != nil || !ok {
		t.Fatalf("stored blob missing: ok=%v err=%v", ok, err)
	}
	if stored.Plan.CourseTitle != "Intro Biology" {
		t.Fatalf("stored plan: %+v", stored.Plan)
	}
}

func TestGenerateCourseRejectsEmptyPlan(t *testing.T) {
	gen := &fakeGen{generate: func(string) ([]byte, error) { return []byte(`{"courseTitle":"x","units":[]}`), nil }}
	g := NewGenerator(gen, newMemStore())
	_, err := g.GenerateCourse(context.Background(), GenerateCourseInput{Topic: "x"})
	var genErr *llm.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}

func TestGetCourseMissing(t *testing.T) {
	g := NewGenerator(&fakeGen{}, newMemStore())
	if _, err := g.GetCourse("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerateTopicCachesAndAttachesVideos(t *testing.T) {
	content := TopicContent{
		Title:    "Cell structure",
		Sections: []Section{{Heading: "Overview", Body: "..."}},
	}
	gen := &fakeGen{
		generate: func(string) ([]byte, error) { return jsonOf(t, content), nil },
		lookup: func(string) (string, error) {
			return "Title: Cells explained\nURL: https://example.com/v\nSource: EduTube\n---\nTitle: incomplete", nil
		},
	}
	blobs := newMemStore()
	g := NewGenerator(gen, blobs)
	seedCourse(t, blobs, "c1")

	got, err := g.GenerateTopic(context.Background(), "c1", 1, 0)
	if err != nil {
		t.Fatalf("generate topic: %v", err)
	}
	if len(got.Sections) == 0 || len(got.Sections[0].Videos) != 1 {
		t.Fatalf("expected 1 video ref, got %+v", got.Sections)
	}
	if got.Sections[0].Videos[0].URL != "https://example.com/v" {
		t.Fatalf("video = %+v", got.Sections[0].Videos[0])
	}

	callsAfterFirst := gen.calls
	if _, err := g.GenerateTopic(context.Background(), "c1", 1, 0); err != nil {
		t.Fatalf("cached topic: %v", err)
	}
	if gen.calls != callsAfterFirst {
		t.Fatalf("cache miss on second request: calls %d -> %d", callsAfterFirst, gen.calls)
	}
}

func TestGenerateTopicLookupFailureIsNonFatal(t *testing.T) {
	content := TopicContent{Title: "t", Sections: []Section{{Heading: "h"}}}
	gen := &fakeGen{
		generate: func(string) ([]byte, error) { return jsonOf(t, content), nil },
		lookup:   func(string) (string, error) { return "", errors.New("lookup down") },
	}
	blobs := newMemStore()
	g := NewGenerator(gen, blobs)
	seedCourse(t, blobs, "c1")

	got, err := g.GenerateTopic(context.Background(), "c1", 1, 0)
	if err != nil {
		t.Fatalf("topic should survive lookup failure: %v", err)
	}
	if len(got.Sections[0].Videos) != 0 {
		t.Fatalf("unexpected videos: %+v", got.Sections[0].Videos)
	}
}

func TestGenerateTopicUnknownUnitOrSubtopic(t *testing.T) {
	blobs := newMemStore()
	g := NewGenerator(&fakeGen{generate: func(string) ([]byte, error) { return nil, errors.New("should not be called") }}, blobs)
	seedCourse(t, blobs, "c1")

	if _, err := g.GenerateTopic(context.Background(), "c1", 9, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown unit: %v", err)
	}
	if _, err := g.GenerateTopic(context.Background(), "c1", 1, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown subtopic: %v", err)
	}
}

func TestGenerateModuleQuizCacheAndRetake(t *testing.T) {
	quiz := ModuleQuiz{
		Title:          "Unit 1 Quiz",
		MultipleChoice: []MCQQuestion{{Question: "q", Options: []string{"a", "b", "c", "d"}}},
		FreeResponse:   []FRQQuestion{{Question: "f"}}, // maxPoints omitted by provider
	}
	gen := &fakeGen{generate: func(string) ([]byte, error) { return jsonOf(t, quiz), nil }}
	blobs := newMemStore()
	g := NewGenerator(gen, blobs)
	seedCourse(t, blobs, "c1")

	first, err := g.GenerateModuleQuiz(context.Background(), "c1", 1, false, nil)
	if err != nil {
		t.Fatalf("generate quiz: %v", err)
	}
	if first.FreeResponse[0].MaxPoints != 3 {
		t.Fatalf("maxPoints not defaulted: %v", first.FreeResponse[0].MaxPoints)
	}
	if gen.calls != 1 {
		t.Fatalf("calls = %d, want 1", gen.calls)
	}

	if _, err := g.GenerateModuleQuiz(context.Background(), "c1", 1, false, nil); err != nil {
		t.Fatalf("cached quiz: %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("cached fetch hit the provider: calls = %d", gen.calls)
	}

	weak := &Weakness{Frequencies: map[string]int{"Membranes": 2}, LastPercentage: 72.5}
	if _, err := g.GenerateModuleQuiz(context.Background(), "c1", 1, true, weak); err != nil {
		t.Fatalf("retake: %v", err)
	}
	if gen.calls != 2 {
		t.Fatalf("retake should regenerate: calls = %d", gen.calls)
	}
	if !strings.Contains(gen.lastPrompt, "Membranes: 2") || !strings.Contains(gen.lastPrompt, "72.5") {
		t.Fatalf("retake prompt missing weakness context:\n%s", gen.lastPrompt)
	}
}

func TestLoadModuleQuizMissing(t *testing.T) {
	g := NewGenerator(&fakeGen{}, newMemStore())
	if _, err := g.LoadModuleQuiz("c1", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFormatWeakness(t *testing.T) {
	out := formatWeakness(map[string]int{"B": 1, "A": 3, "C": 1})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{"- A: 3", "- B: 1", "- C: 1"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
