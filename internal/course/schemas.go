package course

import "github.com/google/generative-ai-go/genai"

// Response schemas declared to the provider. Field names must match the
// json tags on the models in this package; Generate parses its output
// directly into them.

func coursePlanSchema() *genai.Schema {
	return &genai.Schema{
		Type:     genai.TypeObject,
		Required: []string{"courseTitle", "description", "metadata", "units"},
		Properties: map[string]*genai.Schema{
			"courseTitle": {Type: genai.TypeString, Description: "A catchy and descriptive title for the course"},
			"description": {Type: genai.TypeString, Description: "A brief overview of what the student will learn"},
			"metadata": {
				Type:     genai.TypeObject,
				Required: []string{"skillLevel", "ageGroup", "estimatedTotalDuration"},
				Properties: map[string]*genai.Schema{
					"skillLevel":             {Type: genai.TypeString},
					"ageGroup":               {Type: genai.TypeString},
					"estimatedTotalDuration": {Type: genai.TypeString},
				},
			},
			"units": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type:     genai.TypeObject,
					Required: []string{"unitNumber", "title", "description", "duration", "subtopics", "quiz"},
					Properties: map[string]*genai.Schema{
						"unitNumber":  {Type: genai.TypeInteger, Description: "Sequential number of the unit"},
						"title":       {Type: genai.TypeString},
						"description": {Type: genai.TypeString},
						"duration":    {Type: genai.TypeString, Description: "Estimated duration to complete the unit"},
						"subtopics":   {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
						"quiz": {
							Type:     genai.TypeObject,
							Required: []string{"title", "questionCount"},
							Properties: map[string]*genai.Schema{
								"title":         {Type: genai.TypeString},
								"questionCount": {Type: genai.TypeInteger},
							},
						},
					},
				},
			},
		},
	}
}

func topicContentSchema() *genai.Schema {
	return &genai.Schema{
		Type:     genai.TypeObject,
		Required: []string{"title", "sections", "questions"},
		Properties: map[string]*genai.Schema{
			"title": {Type: genai.TypeString},
			"sections": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type:     genai.TypeObject,
					Required: []string{"heading", "body"},
					Properties: map[string]*genai.Schema{
						"heading": {Type: genai.TypeString},
						"body":    {Type: genai.TypeString, Description: "Markdown lesson text"},
					},
				},
			},
			"questions": {
				Type:        genai.TypeArray,
				Description: "Comprehension questions without answers",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
	}
}

func moduleQuizSchema() *genai.Schema {
	return &genai.Schema{
		Type:     genai.TypeObject,
		Required: []string{"title", "multipleChoice", "freeResponse"},
		Properties: map[string]*genai.Schema{
			"title": {Type: genai.TypeString},
			"multipleChoice": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type:     genai.TypeObject,
					Required: []string{"question", "options", "correctAnswerIndex", "explanation"},
					Properties: map[string]*genai.Schema{
						"question":           {Type: genai.TypeString},
						"options":            {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "Exactly 4 options"},
						"correctAnswerIndex": {Type: genai.TypeInteger, Description: "0-based index into options"},
						"explanation":        {Type: genai.TypeString},
						"relatedSubtopic":    {Type: genai.TypeString},
					},
				},
			},
			"freeResponse": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type:     genai.TypeObject,
					Required: []string{"question", "sampleAnswer", "keyPoints"},
					Properties: map[string]*genai.Schema{
						"question":        {Type: genai.TypeString},
						"sampleAnswer":    {Type: genai.TypeString},
						"keyPoints":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
						"maxPoints":       {Type: genai.TypeNumber},
						"relatedSubtopic": {Type: genai.TypeString},
					},
				},
			},
		},
	}
}

func assessmentSchema() *genai.Schema {
	return &genai.Schema{
		Type:     genai.TypeObject,
		Required: []string{"gradeLevel", "subject", "questions"},
		Properties: map[string]*genai.Schema{
			"gradeLevel": {Type: genai.TypeString},
			"subject":    {Type: genai.TypeString},
			"questions": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type:     genai.TypeObject,
					Required: []string{"id", "question", "options", "correctAnswer", "explanation", "difficulty"},
					Properties: map[string]*genai.Schema{
						"id":            {Type: genai.TypeString, Description: "q1 through q10"},
						"question":      {Type: genai.TypeString},
						"options":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "Exactly 4 options"},
						"correctAnswer": {Type: genai.TypeString, Description: "Exact text of the correct option"},
						"explanation":   {Type: genai.TypeString},
						"difficulty":    {Type: genai.TypeString, Enum: []string{"Easy", "Medium", "Hard"}},
					},
				},
			},
		},
	}
}

func assessmentAnalysisSchema() *genai.Schema {
	return &genai.Schema{
		Type:     genai.TypeObject,
		Required: []string{"strengths", "weaknesses", "recommendation"},
		Properties: map[string]*genai.Schema{
			"strengths":      {Type: genai.TypeString},
			"weaknesses":     {Type: genai.TypeString},
			"recommendation": {Type: genai.TypeString},
		},
	}
}
