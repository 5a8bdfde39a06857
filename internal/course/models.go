package course

// CourseMetadata describes who a generated course is for.
type CourseMetadata struct {
	SkillLevel             string `json:"skillLevel"`
	AgeGroup               string `json:"ageGroup"`
	EstimatedTotalDuration string `json:"estimatedTotalDuration"`
}

// QuizSummary is the per-unit quiz descriptor embedded in a course plan.
type QuizSummary struct {
	Title         string `json:"title"`
	QuestionCount int    `json:"questionCount"`
}

// Unit is one module of a course plan. Subtopics are referenced by index
// by downstream content generation, so their order is part of the unit's
// identity and must never change once the plan is stored.
type Unit struct {
	UnitNumber  int         `json:"unitNumber"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Duration    string      `json:"duration"`
	Subtopics   []string    `json:"subtopics"`
	Quiz        QuizSummary `json:"quiz"`
}

// CoursePlan is the generated curriculum document. Immutable once stored;
// regeneration produces a new plan under a new id.
type CoursePlan struct {
	CourseTitle string         `json:"courseTitle"`
	Description string         `json:"description"`
	Metadata    CourseMetadata `json:"metadata"`
	Units       []Unit         `json:"units"`
}

// Record is the persisted envelope for a course plan.
type Record struct {
	CourseID string     `json:"course_id"`
	SavedAt  string     `json:"saved_at"`
	Plan     CoursePlan `json:"course_plan"`
}

// Unit returns the unit with the given unitNumber. Unit numbers are unique
// within a plan but not necessarily contiguous.
func (p *CoursePlan) Unit(unitNumber int) (Unit, bool) {
	for _, u := range p.Units {
		if u.UnitNumber == unitNumber {
			return u, true
		}
	}
	return Unit{}, false
}

// TotalSubtopics counts subtopics across all units.
func (p *CoursePlan) TotalSubtopics() int {
	n := 0
	for _, u := range p.Units {
		n += len(u.Subtopics)
	}
	return n
}

// VideoRef points at external reference material for a subtopic.
type VideoRef struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Section is one heading+body block of lesson content.
type Section struct {
	Heading string     `json:"heading"`
	Body    string     `json:"body"` // markdown
	Videos  []VideoRef `json:"videos,omitempty"`
}

// TopicContent is the generated lesson material for one subtopic, cached
// per (courseID, unitNumber, subtopicIndex).
type TopicContent struct {
	Title     string    `json:"title"`
	Sections  []Section `json:"sections"`
	Questions []string  `json:"questions"` // comprehension questions, no answers
}

// MCQQuestion is a four-option multiple-choice question.
type MCQQuestion struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	Explanation        string   `json:"explanation"`
	RelatedSubtopic    string   `json:"relatedSubtopic,omitempty"`
}

// FRQQuestion is a free-response question graded by the LLM.
type FRQQuestion struct {
	Question        string   `json:"question"`
	SampleAnswer    string   `json:"sampleAnswer"`
	KeyPoints       []string `json:"keyPoints"`
	MaxPoints       float64  `json:"maxPoints"`
	RelatedSubtopic string   `json:"relatedSubtopic,omitempty"`
}

// ModuleQuiz is the question set for one unit, cached per
// (courseID, unitNumber) unless a retake regenerates it.
type ModuleQuiz struct {
	Title          string        `json:"title"`
	MultipleChoice []MCQQuestion `json:"multipleChoice"`
	FreeResponse   []FRQQuestion `json:"freeResponse"`
}

// Weakness biases retake quiz generation toward historically weak
// subtopics. Frequencies maps subtopic title to the number of recent
// attempts in which it appeared weak.
type Weakness struct {
	Frequencies    map[string]int `json:"subtopicFrequencies"`
	LastPercentage float64        `json:"lastPercentage"`
}

// AssessmentQuestion is one self-assessment multiple-choice question.
// CorrectAnswer is the exact text of one of the options.
type AssessmentQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"` // Easy|Medium|Hard
}

// Assessment is a generated 10-question self-assessment.
type Assessment struct {
	GradeLevel string               `json:"gradeLevel"`
	Subject    string               `json:"subject"`
	Questions  []AssessmentQuestion `json:"questions"`
}

// AssessmentAnalysis is the LLM-derived narrative for a scored
// self-assessment, plus the locally computed mastery label.
type AssessmentAnalysis struct {
	Percentage     float64 `json:"percentage"`
	MasteryLevel   string  `json:"masteryLevel"`
	Strengths      string  `json:"strengths"`
	Weaknesses     string  `json:"weaknesses"`
	Recommendation string  `json:"recommendation"`
}
