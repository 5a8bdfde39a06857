package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SQLAttemptStore persists attempts in the quiz_attempts table. Attempt
// numbers are assigned here: read MAX+1, insert, and retry on a unique
// violation so two racing submissions for the same key get consecutive
// numbers instead of duplicates.
type SQLAttemptStore struct {
	db *sql.DB
}

func NewSQLAttemptStore(db *sql.DB) *SQLAttemptStore {
	return &SQLAttemptStore{db: db}
}

const appendRetries = 3

func (s *SQLAttemptStore) Append(ctx context.Context, a Attempt) (Attempt, error) {
	mcqJSON, _ := json.Marshal(a.MCQResults)
	frqJSON, _ := json.Marshal(a.FRQEvaluations)
	weakJSON, _ := json.Marshal(a.WeakSubtopics)

	var lastErr error
	for i := 0; i < appendRetries; i++ {
		var maxNum sql.NullInt64
		err := s.db.QueryRowContext(ctx,
			`SELECT MAX(attempt_number) FROM quiz_attempts
			  WHERE auth_id=$1 AND course_id=$2 AND unit_number=$3`,
			a.AuthID, a.CourseID, a.UnitNumber).Scan(&maxNum)
		if err != nil {
			return Attempt{}, err
		}
		a.AttemptNumber = int(maxNum.Int64) + 1
		a.ID = uuid.NewString()
		a.CreatedAt = time.Now().Unix()

		_, err = s.db.ExecContext(ctx,
			`INSERT INTO quiz_attempts
			 (id, auth_id, course_id, unit_number, attempt_number,
			  mcq_score, mcq_total, frq_score, frq_total,
			  total_score, total_possible, percentage, passed,
			  mcq_results_json, frq_evaluations_json, weak_subtopics_json,
			  overall_feedback, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
			a.ID, a.AuthID, a.CourseID, a.UnitNumber, a.AttemptNumber,
			a.MCQScore, a.MCQTotal, a.FRQScore, a.FRQTotal,
			a.TotalScore, a.TotalPossible, a.Percentage, a.Passed,
			string(mcqJSON), string(frqJSON), string(weakJSON),
			a.OverallFeedback, a.CreatedAt)
		if err == nil {
			return a, nil
		}
		if !isUniqueViolation(err) {
			return Attempt{}, err
		}
		lastErr = err
	}
	return Attempt{}, fmt.Errorf("append attempt: %w", lastErr)
}

func (s *SQLAttemptStore) List(ctx context.Context, authID, courseID string, unitNumber int) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		selectAttempt+` WHERE auth_id=$1 AND course_id=$2 AND unit_number=$3
		 ORDER BY attempt_number ASC`,
		authID, courseID, unitNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func (s *SQLAttemptStore) Recent(ctx context.Context, authID, courseID string, unitNumber, n int) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		selectAttempt+` WHERE auth_id=$1 AND course_id=$2 AND unit_number=$3
		 ORDER BY attempt_number DESC LIMIT $4`,
		authID, courseID, unitNumber, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func (s *SQLAttemptStore) ByCourse(ctx context.Context, authID, courseID string) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		selectAttempt+` WHERE auth_id=$1 AND course_id=$2
		 ORDER BY unit_number ASC, attempt_number ASC`,
		authID, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

const selectAttempt = `
	SELECT id, auth_id, course_id, unit_number, attempt_number,
	       mcq_score, mcq_total, frq_score, frq_total,
	       total_score, total_possible, percentage, passed,
	       mcq_results_json, frq_evaluations_json, weak_subtopics_json,
	       overall_feedback, created_at
	  FROM quiz_attempts`

func scanAttempts(rows *sql.Rows) ([]Attempt, error) {
	var out []Attempt
	for rows.Next() {
		var a Attempt
		var mcqJSON, frqJSON, weakJSON string
		if err := rows.Scan(&a.ID, &a.AuthID, &a.CourseID, &a.UnitNumber, &a.AttemptNumber,
			&a.MCQScore, &a.MCQTotal, &a.FRQScore, &a.FRQTotal,
			&a.TotalScore, &a.TotalPossible, &a.Percentage, &a.Passed,
			&mcqJSON, &frqJSON, &weakJSON,
			&a.OverallFeedback, &a.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(mcqJSON), &a.MCQResults); err != nil {
			a.MCQResults = []MCQResult{}
		}
		if err := json.Unmarshal([]byte(frqJSON), &a.FRQEvaluations); err != nil {
			a.FRQEvaluations = []FRQEvaluation{}
		}
		if err := json.Unmarshal([]byte(weakJSON), &a.WeakSubtopics); err != nil {
			a.WeakSubtopics = []string{}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// StatusByUnit rolls attempts up to one row per unit: attempt count, best
// and latest percentage, and whether any attempt passed.
func StatusByUnit(attempts []Attempt) []UnitStatus {
	byUnit := map[int]*UnitStatus{}
	var order []int
	for _, a := range attempts {
		st, ok := byUnit[a.UnitNumber]
		if !ok {
			st = &UnitStatus{UnitNumber: a.UnitNumber}
			byUnit[a.UnitNumber] = st
			order = append(order, a.UnitNumber)
		}
		st.Attempts++
		if a.Percentage > st.BestScore {
			st.BestScore = a.Percentage
		}
		if a.AttemptNumber >= st.LastAttempt {
			st.LastAttempt = a.AttemptNumber
			st.LastScore = a.Percentage
		}
		if a.Passed {
			st.Passed = true
			if a.CreatedAt > st.LastPassedAt {
				st.LastPassedAt = a.CreatedAt
			}
		}
	}
	out := make([]UnitStatus, 0, len(order))
	for _, u := range order {
		out = append(out, *byUnit[u])
	}
	return out
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value violates unique constraint") // postgres
}
