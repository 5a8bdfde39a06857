package course

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claritas-learn/claritas-backend/internal/llm"
	"github.com/claritas-learn/claritas-backend/internal/prompt"
	"github.com/claritas-learn/claritas-backend/internal/storage"
)

// ErrNotFound covers a missing course, unit or subtopic. Handlers map it
// to 404.
var ErrNotFound = errors.New("not found")

const (
	defaultMCQCount     = 5
	defaultFRQCount     = 2
	defaultFRQMaxPoints = 3
	maxVideoRefs        = 3
)

// Generator orchestrates course, lesson, quiz and assessment generation:
// render a prompt, run it against a response schema, persist the result.
type Generator struct {
	gen   llm.Generator
	blobs storage.BlobStore
}

func NewGenerator(gen llm.Generator, blobs storage.BlobStore) *Generator {
	return &Generator{gen: gen, blobs: blobs}
}

type GenerateCourseInput struct {
	Topic           string
	SkillLevel      string
	AgeGroup        string
	AdditionalNotes string
	MaterialsText   string
	File            *llm.Attachment
}

// GenerateCourse produces a new course plan and stores it under a fresh
// id. Plans are immutable: regenerating means a new id, never a mutation.
func (g *Generator) GenerateCourse(ctx context.Context, in GenerateCourseInput) (Record, error) {
	p, err := prompt.Render(prompt.CoursePlan, map[string]string{
		"topic":            in.Topic,
		"skill_level":      in.SkillLevel,
		"age_group":        in.AgeGroup,
		"additional_notes": in.AdditionalNotes,
		"materials_text":   in.MaterialsText,
	})
	if err != nil {
		return Record{}, err
	}

	raw, err := g.gen.Generate(ctx, p, coursePlanSchema(), in.File)
	if err != nil {
		return Record{}, err
	}
	var plan CoursePlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return Record{}, &llm.GenerationError{Message: "course plan did not match schema", Err: err}
	}
	if len(plan.Units) == 0 {
		return Record{}, &llm.GenerationError{Message: "course plan has no units"}
	}
	sort.SliceStable(plan.Units, func(i, j int) bool {
		return plan.Units[i].UnitNumber < plan.Units[j].UnitNumber
	})

	rec := Record{
		CourseID: uuid.NewString(),
		SavedAt:  time.Now().UTC().Format(time.RFC3339),
		Plan:     plan,
	}
	if err := storage.SaveJSON(g.blobs, storage.CourseKey(rec.CourseID).String(), rec); err != nil {
		return Record{}, fmt.Errorf("save course plan: %w", err)
	}
	return rec, nil
}

// GetCourse loads a stored course plan.
func (g *Generator) GetCourse(courseID string) (Record, error) {
	var rec Record
	ok, err := storage.LoadJSON(g.blobs, storage.CourseKey(courseID).String(), &rec)
	if err != nil {
		return Record{}, err
	}
	if !ok {
		return Record{}, fmt.Errorf("course %s: %w", courseID, ErrNotFound)
	}
	return rec, nil
}

// GenerateTopic returns lesson content for one subtopic, generating it on
// first request and serving the cached blob afterwards.
func (g *Generator) GenerateTopic(ctx context.Context, courseID string, unitNumber, subtopicIndex int) (TopicContent, error) {
	key := storage.TopicKey(courseID, unitNumber, subtopicIndex).String()
	var cached TopicContent
	if ok, err := storage.LoadJSON(g.blobs, key, &cached); err != nil {
		return TopicContent{}, err
	} else if ok {
		return cached, nil
	}

	rec, err := g.GetCourse(courseID)
	if err != nil {
		return TopicContent{}, err
	}
	unit, ok := rec.Plan.Unit(unitNumber)
	if !ok {
		return TopicContent{}, fmt.Errorf("unit %d: %w", unitNumber, ErrNotFound)
	}
	if subtopicIndex < 0 || subtopicIndex >= len(unit.Subtopics) {
		return TopicContent{}, fmt.Errorf("subtopic %d: %w", subtopicIndex, ErrNotFound)
	}
	subtopic := unit.Subtopics[subtopicIndex]

	p, err := prompt.Render(prompt.TopicContent, map[string]string{
		"course_title": rec.Plan.CourseTitle,
		"unit_number":  fmt.Sprintf("%d", unitNumber),
		"unit_title":   unit.Title,
		"subtopic":     subtopic,
		"skill_level":  rec.Plan.Metadata.SkillLevel,
		"age_group":    rec.Plan.Metadata.AgeGroup,
	})
	if err != nil {
		return TopicContent{}, err
	}
	raw, err := g.gen.Generate(ctx, p, topicContentSchema(), nil)
	if err != nil {
		return TopicContent{}, err
	}
	var content TopicContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return TopicContent{}, &llm.GenerationError{Message: "topic content did not match schema", Err: err}
	}

	// Reference videos are best-effort garnish; a lookup failure never
	// fails the lesson.
	if videos := g.lookupVideos(ctx, subtopic, rec.Plan.Metadata); len(videos) > 0 && len(content.Sections) > 0 {
		content.Sections[0].Videos = videos
	}

	if err := storage.SaveJSON(g.blobs, key, content); err != nil {
		return TopicContent{}, fmt.Errorf("save topic content: %w", err)
	}
	return content, nil
}

func (g *Generator) lookupVideos(ctx context.Context, subtopic string, meta CourseMetadata) []VideoRef {
	p, err := prompt.Render(prompt.ReferenceLookup, map[string]string{
		"max_results": fmt.Sprintf("%d", maxVideoRefs),
		"subtopic":    subtopic,
		"skill_level": meta.SkillLevel,
		"age_group":   meta.AgeGroup,
	})
	if err != nil {
		return nil
	}
	text, err := g.gen.Lookup(ctx, p)
	if err != nil {
		log.Printf("video lookup failed for %q: %v", subtopic, err)
		return nil
	}
	var out []VideoRef
	for _, rec := range llm.ParseRecords(text, "---", []string{"Title", "URL"}) {
		out = append(out, VideoRef{Title: rec["Title"], URL: rec["URL"], Source: rec["Source"]})
		if len(out) == maxVideoRefs {
			break
		}
	}
	return out
}

// GenerateModuleQuiz returns the quiz for one unit. The first generation
// is cached indefinitely; a retake always regenerates, optionally biased
// by the student's recent weak subtopics.
func (g *Generator) GenerateModuleQuiz(ctx context.Context, courseID string, unitNumber int, retake bool, weak *Weakness) (ModuleQuiz, error) {
	key := storage.ModuleQuizKey(courseID, unitNumber).String()
	if !retake {
		var cached ModuleQuiz
		if ok, err := storage.LoadJSON(g.blobs, key, &cached); err != nil {
			return ModuleQuiz{}, err
		} else if ok {
			return cached, nil
		}
	}

	rec, err := g.GetCourse(courseID)
	if err != nil {
		return ModuleQuiz{}, err
	}
	unit, ok := rec.Plan.Unit(unitNumber)
	if !ok {
		return ModuleQuiz{}, fmt.Errorf("unit %d: %w", unitNumber, ErrNotFound)
	}

	mcqCount := unit.Quiz.QuestionCount
	if mcqCount <= 0 {
		mcqCount = defaultMCQCount
	}
	vars := map[string]string{
		"course_title": rec.Plan.CourseTitle,
		"unit_number":  fmt.Sprintf("%d", unitNumber),
		"unit_title":   unit.Title,
		"subtopics":    strings.Join(unit.Subtopics, ", "),
		"skill_level":  rec.Plan.Metadata.SkillLevel,
		"age_group":    rec.Plan.Metadata.AgeGroup,
		"mcq_count":    fmt.Sprintf("%d", mcqCount),
		"frq_count":    fmt.Sprintf("%d", defaultFRQCount),
	}
	name := prompt.ModuleQuiz
	if retake && weak != nil {
		name = prompt.ModuleQuizRetake
		vars["weak_subtopics"] = formatWeakness(weak.Frequencies)
		vars["last_percentage"] = fmt.Sprintf("%.1f", weak.LastPercentage)
	}
	p, err := prompt.Render(name, vars)
	if err != nil {
		return ModuleQuiz{}, err
	}

	raw, err := g.gen.Generate(ctx, p, moduleQuizSchema(), nil)
	if err != nil {
		return ModuleQuiz{}, err
	}
	var quiz ModuleQuiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return ModuleQuiz{}, &llm.GenerationError{Message: "module quiz did not match schema", Err: err}
	}
	if len(quiz.MultipleChoice) == 0 && len(quiz.FreeResponse) == 0 {
		return ModuleQuiz{}, &llm.GenerationError{Message: "module quiz has no questions"}
	}
	for i := range quiz.FreeResponse {
		if quiz.FreeResponse[i].MaxPoints <= 0 {
			quiz.FreeResponse[i].MaxPoints = defaultFRQMaxPoints
		}
	}

	if err := storage.SaveJSON(g.blobs, key, quiz); err != nil {
		return ModuleQuiz{}, fmt.Errorf("save module quiz: %w", err)
	}
	return quiz, nil
}

func formatWeakness(freq map[string]int) string {
	keys := make([]string, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if freq[keys[i]] != freq[keys[j]] {
			return freq[keys[i]] > freq[keys[j]]
		}
		return keys[i] < keys[j]
	})
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %d\n", k, freq[k])
	}
	return b.String()
}

// LoadModuleQuiz returns the cached quiz for a unit without generating.
// Evaluation uses it so students are scored against the exact question set
// they were served.
func (g *Generator) LoadModuleQuiz(courseID string, unitNumber int) (ModuleQuiz, error) {
	var quiz ModuleQuiz
	ok, err := storage.LoadJSON(g.blobs, storage.ModuleQuizKey(courseID, unitNumber).String(), &quiz)
	if err != nil {
		return ModuleQuiz{}, err
	}
	if !ok {
		return ModuleQuiz{}, fmt.Errorf("module quiz for unit %d: %w", unitNumber, ErrNotFound)
	}
	return quiz, nil
}
