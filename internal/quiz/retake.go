package quiz

import (
	"context"

	"github.com/claritas-learn/claritas-backend/internal/course"
)

// retakeWindow bounds how much history biases a retake.
const retakeWindow = 3

// Selector derives a weakness context from a student's recent attempts so
// retake generation can emphasize what they keep missing.
type Selector struct {
	attempts AttemptStore
}

func NewSelector(attempts AttemptStore) *Selector {
	return &Selector{attempts: attempts}
}

// SelectWeaknessContext inspects up to the 3 most recent attempts for the
// key. It returns nil (with no error) when there is no weakness signal —
// generation then proceeds unbiased.
func (s *Selector) SelectWeaknessContext(ctx context.Context, authID, courseID string, unitNumber int) (*course.Weakness, error) {
	recent, err := s.attempts.Recent(ctx, authID, courseID, unitNumber, retakeWindow)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, nil
	}

	freq := map[string]int{}
	for _, a := range recent {
		// WeakSubtopics is already deduplicated per attempt, so each
		// attempt contributes at most 1 to a subtopic's count.
		for _, sub := range a.WeakSubtopics {
			freq[sub]++
		}
	}
	if len(freq) == 0 {
		return nil, nil
	}
	return &course.Weakness{
		Frequencies:    freq,
		LastPercentage: recent[0].Percentage,
	}, nil
}
