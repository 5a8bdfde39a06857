package storage

import "fmt"

// Key is a composite blob key. Constructing keys through these functions
// keeps the filename convention in one place so course, topic and quiz
// blobs can never collide by accident.
type Key string

func (k Key) String() string { return string(k) }

// CourseKey addresses the stored course plan envelope.
func CourseKey(courseID string) Key {
	return Key(fmt.Sprintf("%s.json", courseID))
}

// TopicKey addresses generated lesson content for one subtopic.
func TopicKey(courseID string, unitNumber, subtopicIndex int) Key {
	return Key(fmt.Sprintf("%s_topic_%d_%d.json", courseID, unitNumber, subtopicIndex))
}

// ModuleQuizKey addresses the generated quiz for one unit.
func ModuleQuizKey(courseID string, unitNumber int) Key {
	return Key(fmt.Sprintf("%s_module_quiz_%d.json", courseID, unitNumber))
}
