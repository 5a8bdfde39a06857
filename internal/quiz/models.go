package quiz

// MCQResult is the per-question outcome of multiple-choice scoring.
// Selected is -1 when the student left the question unanswered.
type MCQResult struct {
	QuestionIndex int  `json:"questionIndex"`
	Selected      int  `json:"selected"`
	Correct       bool `json:"correct"`
}

// FRQEvaluation is the LLM-graded outcome for one free-response question.
type FRQEvaluation struct {
	QuestionIndex int     `json:"questionIndex"`
	Score         float64 `json:"score"`
	MaxPoints     float64 `json:"maxPoints"`
	Feedback      string  `json:"feedback"`
}

// AttemptResult is one scored quiz submission.
type AttemptResult struct {
	MCQScore        int             `json:"mcqScore"`
	MCQTotal        int             `json:"mcqTotal"`
	FRQScore        float64         `json:"frqScore"`
	FRQTotal        float64         `json:"frqTotal"`
	TotalScore      float64         `json:"totalScore"`
	TotalPossible   float64         `json:"totalPossible"`
	Percentage      float64         `json:"percentage"`
	Passed          bool            `json:"passed"`
	MCQResults      []MCQResult     `json:"mcqResults"`
	FRQEvaluations  []FRQEvaluation `json:"frqEvaluations"`
	WeakSubtopics   []string        `json:"weakSubtopics"`
	OverallFeedback string          `json:"overallFeedback"`
}

// Attempt is the append-only persisted record of a scored submission.
// Never mutated after insert.
type Attempt struct {
	ID            string `json:"id"`
	AuthID        string `json:"authId"`
	CourseID      string `json:"courseId"`
	UnitNumber    int    `json:"unitNumber"`
	AttemptNumber int    `json:"attemptNumber"`
	AttemptResult
	CreatedAt int64 `json:"createdAt"`
}

// UnitStatus is the per-unit rollup served by the quiz status endpoint.
type UnitStatus struct {
	UnitNumber   int     `json:"unitNumber"`
	Attempts     int     `json:"attempts"`
	BestScore    float64 `json:"bestScore"` // best percentage
	Passed       bool    `json:"passed"`    // any attempt passed
	LastAttempt  int     `json:"lastAttempt"`
	LastScore    float64 `json:"lastScore"`
	LastPassedAt int64   `json:"lastPassedAt,omitempty"`
}
