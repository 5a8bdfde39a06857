package llm

import (
	"context"

	"github.com/google/generative-ai-go/genai"
)

// Attachment is an optional binary input (e.g. an uploaded syllabus)
// passed to the provider alongside the prompt.
type Attachment struct {
	Data     []byte
	MIMEType string
}

// Turn is one message of a tutoring conversation.
type Turn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// Generator is the structured-output LLM boundary. Implementations return
// *GenerationError for provider failures, timeouts and non-conformant
// output so callers can translate it into a user-facing failure without
// inspecting provider internals.
type Generator interface {
	// Generate runs prompt against the declared response schema and
	// returns the raw schema-conformant JSON document.
	Generate(ctx context.Context, prompt string, schema *genai.Schema, att *Attachment) ([]byte, error)
	// Converse produces one plain-text reply given a system prompt and
	// prior conversation turns.
	Converse(ctx context.Context, system string, history []Turn, message string) (string, error)
	// Lookup runs a free-text prompt and returns the raw text block for
	// record extraction (see ParseRecords).
	Lookup(ctx context.Context, prompt string) (string, error)
}

// GenerationError wraps any failure at the provider boundary.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error { return e.Err }
