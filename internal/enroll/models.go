package enroll

import "errors"

// Enrollment is one user's membership in a course. Course title,
// description and metadata are snapshotted at enrollment time and are not
// refreshed if the plan is regenerated — deliberate staleness.
type Enrollment struct {
	ID                string   `json:"id"`
	AuthID            string   `json:"authId"`
	CourseID          string   `json:"courseId"`
	CourseTitle       string   `json:"courseTitle"`
	CourseDescription string   `json:"courseDescription"`
	SkillLevel        string   `json:"skillLevel"`
	AgeGroup          string   `json:"ageGroup"`
	EstimatedDuration string   `json:"estimatedDuration"`
	CompletedTopics   []string `json:"completedTopics"` // "unitNumber-subtopicIndex" keys
	LastVisited       string   `json:"lastVisited"`
	IsCompleted       bool     `json:"isCompleted"`
	EnrolledAt        int64    `json:"enrolledAt"`
	UpdatedAt         int64    `json:"updatedAt"`
}

// ErrNotEnrolled reports a progress update for a user who never enrolled.
var ErrNotEnrolled = errors.New("not enrolled")

// ErrDuplicate is returned by Store.Insert when the (authID, courseID)
// uniqueness constraint rejects the row.
var ErrDuplicate = errors.New("already enrolled")
