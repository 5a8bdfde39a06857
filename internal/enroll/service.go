package enroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/claritas-learn/claritas-backend/internal/course"
	"github.com/claritas-learn/claritas-backend/internal/quiz"
)

// CourseLoader fetches stored course plans.
type CourseLoader interface {
	GetCourse(courseID string) (course.Record, error)
}

// AttemptSource reads a user's quiz history for completion checks.
type AttemptSource interface {
	ByCourse(ctx context.Context, authID, courseID string) ([]quiz.Attempt, error)
}

// Service implements enrollment and progress tracking on top of the
// relational store.
type Service struct {
	store    Store
	courses  CourseLoader
	attempts AttemptSource
}

func NewService(store Store, courses CourseLoader, attempts AttemptSource) *Service {
	return &Service{store: store, courses: courses, attempts: attempts}
}

// Enroll creates an enrollment row, snapshotting course metadata. It is
// idempotent: a duplicate enrollment returns the existing row and
// already=true instead of an error.
func (s *Service) Enroll(ctx context.Context, authID, courseID string) (Enrollment, bool, error) {
	rec, err := s.courses.GetCourse(courseID)
	if err != nil {
		return Enrollment{}, false, err
	}

	e := Enrollment{
		AuthID:            authID,
		CourseID:          courseID,
		CourseTitle:       rec.Plan.CourseTitle,
		CourseDescription: rec.Plan.Description,
		SkillLevel:        rec.Plan.Metadata.SkillLevel,
		AgeGroup:          rec.Plan.Metadata.AgeGroup,
		EstimatedDuration: rec.Plan.Metadata.EstimatedTotalDuration,
		CompletedTopics:   []string{},
	}
	created, err := s.store.Insert(ctx, e)
	if err == nil {
		return created, false, nil
	}
	if !errors.Is(err, ErrDuplicate) {
		return Enrollment{}, false, err
	}
	existing, err := s.store.Get(ctx, authID, courseID)
	if err != nil {
		return Enrollment{}, false, err
	}
	return existing, true, nil
}

// ListCourses returns a user's enrollments, newest first.
func (s *Service) ListCourses(ctx context.Context, authID string) ([]Enrollment, error) {
	return s.store.ListByUser(ctx, authID)
}

// UpdateProgress replaces the completed-topic list and lastVisited marker,
// recomputing isCompleted. Completion never regresses: once a record is
// completed it stays completed.
func (s *Service) UpdateProgress(ctx context.Context, authID, courseID string, completedTopics []string, lastVisited string) (Enrollment, error) {
	existing, err := s.store.Get(ctx, authID, courseID)
	if err != nil {
		return Enrollment{}, err
	}
	rec, err := s.courses.GetCourse(courseID)
	if err != nil {
		return Enrollment{}, err
	}

	completed := existing.IsCompleted
	if !completed {
		completed, err = s.courseCompleted(ctx, authID, rec, completedTopics)
		if err != nil {
			return Enrollment{}, err
		}
	}
	return s.store.UpdateProgress(ctx, authID, courseID, completedTopics, lastVisited, completed)
}

// courseCompleted is true only when every subtopic of every unit is in
// completedTopics and every unit has at least one passed quiz attempt.
func (s *Service) courseCompleted(ctx context.Context, authID string, rec course.Record, completedTopics []string) (bool, error) {
	done := map[string]bool{}
	for _, t := range completedTopics {
		done[t] = true
	}
	for _, u := range rec.Plan.Units {
		for i := range u.Subtopics {
			if !done[TopicKey(u.UnitNumber, i)] {
				return false, nil
			}
		}
	}

	attempts, err := s.attempts.ByCourse(ctx, authID, rec.CourseID)
	if err != nil {
		return false, err
	}
	passed := map[int]bool{}
	for _, a := range attempts {
		if a.Passed {
			passed[a.UnitNumber] = true
		}
	}
	for _, u := range rec.Plan.Units {
		if !passed[u.UnitNumber] {
			return false, nil
		}
	}
	return true, nil
}

// TopicKey builds the "unitNumber-subtopicIndex" key used in
// completedTopics and lastVisited.
func TopicKey(unitNumber, subtopicIndex int) string {
	return fmt.Sprintf("%d-%d", unitNumber, subtopicIndex)
}
