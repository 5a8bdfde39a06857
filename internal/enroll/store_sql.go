package enroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store is the relational gateway for enrollments.
type Store interface {
	Insert(ctx context.Context, e Enrollment) (Enrollment, error)
	Get(ctx context.Context, authID, courseID string) (Enrollment, error)
	ListByUser(ctx context.Context, authID string) ([]Enrollment, error)
	UpdateProgress(ctx context.Context, authID, courseID string, completedTopics []string, lastVisited string, isCompleted bool) (Enrollment, error)
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Insert(ctx context.Context, e Enrollment) (Enrollment, error) {
	e.ID = uuid.NewString()
	now := time.Now().Unix()
	e.EnrolledAt = now
	e.UpdatedAt = now
	if e.CompletedTopics == nil {
		e.CompletedTopics = []string{}
	}
	topicsJSON, _ := json.Marshal(e.CompletedTopics)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_courses
		 (id, auth_id, course_id, course_title, course_description,
		  skill_level, age_group, estimated_duration,
		  completed_topics, last_visited, is_completed, enrolled_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		e.ID, e.AuthID, e.CourseID, e.CourseTitle, e.CourseDescription,
		e.SkillLevel, e.AgeGroup, e.EstimatedDuration,
		string(topicsJSON), e.LastVisited, e.IsCompleted, e.EnrolledAt, e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Enrollment{}, ErrDuplicate
		}
		return Enrollment{}, err
	}
	return e, nil
}

func (s *SQLStore) Get(ctx context.Context, authID, courseID string) (Enrollment, error) {
	row := s.db.QueryRowContext(ctx,
		selectEnrollment+` WHERE auth_id=$1 AND course_id=$2`, authID, courseID)
	e, err := scanEnrollment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Enrollment{}, ErrNotEnrolled
		}
		return Enrollment{}, err
	}
	return e, nil
}

func (s *SQLStore) ListByUser(ctx context.Context, authID string) ([]Enrollment, error) {
	rows, err := s.db.QueryContext(ctx,
		selectEnrollment+` WHERE auth_id=$1 ORDER BY enrolled_at DESC`, authID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpdateProgress(ctx context.Context, authID, courseID string, completedTopics []string, lastVisited string, isCompleted bool) (Enrollment, error) {
	if completedTopics == nil {
		completedTopics = []string{}
	}
	topicsJSON, _ := json.Marshal(completedTopics)
	res, err := s.db.ExecContext(ctx,
		`UPDATE user_courses
		    SET completed_topics=$1, last_visited=$2, is_completed=$3, updated_at=$4
		  WHERE auth_id=$5 AND course_id=$6`,
		string(topicsJSON), lastVisited, isCompleted, time.Now().Unix(), authID, courseID)
	if err != nil {
		return Enrollment{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Enrollment{}, ErrNotEnrolled
	}
	return s.Get(ctx, authID, courseID)
}

const selectEnrollment = `
	SELECT id, auth_id, course_id, course_title, course_description,
	       skill_level, age_group, estimated_duration,
	       completed_topics, last_visited, is_completed, enrolled_at, updated_at
	  FROM user_courses`

type scanner interface {
	Scan(dest ...any) error
}

func scanEnrollment(row scanner) (Enrollment, error) {
	var e Enrollment
	var topicsJSON string
	if err := row.Scan(&e.ID, &e.AuthID, &e.CourseID, &e.CourseTitle, &e.CourseDescription,
		&e.SkillLevel, &e.AgeGroup, &e.EstimatedDuration,
		&topicsJSON, &e.LastVisited, &e.IsCompleted, &e.EnrolledAt, &e.UpdatedAt); err != nil {
		return Enrollment{}, err
	}
	if err := json.Unmarshal([]byte(topicsJSON), &e.CompletedTopics); err != nil {
		e.CompletedTopics = []string{}
	}
	return e, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
