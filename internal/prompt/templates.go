package prompt

// Template names accepted by Render.
const (
	CoursePlan          = "course_plan"
	TopicContent        = "topic_content"
	ModuleQuiz          = "module_quiz"
	ModuleQuizRetake    = "module_quiz_retake"
	FRQGrading          = "frq_grading"
	AssessmentQuestions = "assessment_questions"
	AssessmentAnalysis  = "assessment_analysis"
	QuizHelp            = "quiz_help"
	ReferenceLookup     = "reference_lookup"
)

var templates = map[string]string{
	CoursePlan: `You are an expert curriculum designer. Create a complete course plan for the topic below.

Topic: {topic}
Target skill level: {skill_level}
Target age group: {age_group}
Additional notes from the course author: {additional_notes}
Reference material supplied by the author: {materials_text}

Requirements:
- Organize the course into sequential units. Number units starting at 1.
- Each unit needs a title, a short description, an estimated duration, an ordered list of subtopics, and a quiz summary (title and question count).
- Subtopic ordering matters: lesson content is generated per subtopic later, so list them in teaching order.
- Include course metadata: skillLevel, ageGroup, estimatedTotalDuration.
- Keep titles concrete and age-appropriate.`,

	TopicContent: `You are writing one lesson of an online course.

Course: {course_title}
Unit {unit_number}: {unit_title}
Subtopic: {subtopic}
Skill level: {skill_level}
Age group: {age_group}

Write complete lesson content for this subtopic only. Split it into sections, each with a heading and a markdown body. Explain concepts from first principles at the stated skill level, with worked examples where they help. Finish with 2-3 quick comprehension questions (no answers).`,

	ModuleQuiz: `Create a quiz for one unit of an online course.

Course: {course_title}
Unit {unit_number}: {unit_title}
Subtopics covered: {subtopics}
Skill level: {skill_level}
Age group: {age_group}

Requirements:
- {mcq_count} multiple-choice questions. Each has exactly 4 options, one correct answer (as a 0-based index), and a short explanation of the correct answer.
- {frq_count} free-response questions. Each has a sample answer, a list of key points a good answer must cover, and a maximum score of 3 points.
- Tag every question with the subtopic it tests, using the exact subtopic titles listed above.
- Cover all subtopics; do not concentrate on one.`,

	ModuleQuizRetake: `Create a retake quiz for one unit of an online course. The student has taken this quiz before and needs new questions.

Course: {course_title}
Unit {unit_number}: {unit_title}
Subtopics covered: {subtopics}
Skill level: {skill_level}
Age group: {age_group}

The student's recent attempts show weakness in these subtopics (subtopic: number of recent attempts it was weak in):
{weak_subtopics}
Most recent score: {last_percentage}%

Requirements:
- {mcq_count} multiple-choice questions. Each has exactly 4 options, one correct answer (as a 0-based index), and a short explanation of the correct answer.
- {frq_count} free-response questions. Each has a sample answer, a list of key points a good answer must cover, and a maximum score of 3 points.
- Tag every question with the subtopic it tests, using the exact subtopic titles listed above.
- Weight the question set toward the weak subtopics above while still touching the others.
- Do not repeat question wording a previous quiz is likely to have used; vary scenarios and numbers.`,

	FRQGrading: `You are grading free-response quiz answers for an online course.

Unit: {unit_title}
Skill level: {skill_level}

For each question below you are given the question text, a sample answer, the key points a good answer covers, the maximum points, and the student's answer. Score each answer from 0 to its maximum points (whole or half points), judging against the key points rather than exact wording. An empty or off-topic answer scores 0. Give one or two sentences of feedback per question, addressed to the student. Then write a short overall feedback paragraph for the whole set.

{questions_block}`,

	AssessmentQuestions: `Generate a self-assessment quiz to gauge a student's current level.

Subject: {subject}
Grade level: {grade_level}

Requirements:
- Exactly 10 multiple-choice questions with ids "q1" through "q10".
- Each question has exactly 4 options and one correct answer. The correctAnswer field must be the exact text of one of the options.
- Label each question's difficulty as Easy, Medium, or Hard, mixing all three.
- Questions must span the breadth of the subject at this grade level, easiest first.`,

	AssessmentAnalysis: `A student took a {subject} self-assessment for {grade_level} and scored {percentage}%.

Per-question results (question, difficulty, correct or not):
{results_block}

Based on these results, describe the student's strengths (topics they answered reliably), weaknesses (topics they missed), and one concrete recommendation for what to study next. Address the student directly and keep each part to 2-3 sentences.`,

	QuizHelp: `You are a patient Socratic tutor helping a student who is stuck on a quiz question. The student is {skill_level} level, age group {age_group}.

The question they are working on:
{question_context}

Rules:
- Never reveal or confirm the correct answer, even if asked directly.
- Guide with questions and hints that help the student reason it out themselves.
- If the student proposes an answer, respond to their reasoning, not to whether it is right.
- Keep replies short and encouraging.`,

	ReferenceLookup: `Find up to {max_results} high-quality, publicly available videos that teach the following subtopic. Prefer well-known educational channels.

Subtopic: {subtopic}
Audience: {skill_level}, {age_group}

Return one record per video in exactly this format, separating records with a line containing only "---":

Title: <video title>
URL: <video url>
Source: <channel or site name>

Do not add any other commentary.`,
}
