package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements Generator against the Gemini API.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("llm: api key not set")
	}
	c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("llm: create client: %w", err)
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &GeminiClient{client: c, model: model, timeout: timeout}, nil
}

func (c *GeminiClient) Close() error { return c.client.Close() }

func (c *GeminiClient) Generate(ctx context.Context, prompt string, schema *genai.Schema, att *Attachment) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	m := c.client.GenerativeModel(c.model)
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = schema

	parts := []genai.Part{genai.Text(prompt)}
	if att != nil && len(att.Data) > 0 {
		parts = append(parts, genai.Blob{MIMEType: att.MIMEType, Data: att.Data})
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, &GenerationError{Message: "provider request failed", Err: err}
	}
	text := collectText(resp)
	if text == "" {
		return nil, &GenerationError{Message: "empty response from provider"}
	}
	// The schema asks for bare JSON, but guard against fenced output anyway.
	text = stripCodeFence(text)
	if !json.Valid([]byte(text)) {
		return nil, &GenerationError{Message: "provider returned non-JSON output"}
	}
	return []byte(text), nil
}

func (c *GeminiClient) Converse(ctx context.Context, system string, history []Turn, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	m := c.client.GenerativeModel(c.model)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	cs := m.StartChat()
	for _, t := range history {
		role := t.Role
		if role != "model" {
			role = "user"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(t.Text)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", &GenerationError{Message: "provider request failed", Err: err}
	}
	text := collectText(resp)
	if text == "" {
		return "", &GenerationError{Message: "empty response from provider"}
	}
	return text, nil
}

func (c *GeminiClient) Lookup(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	m := c.client.GenerativeModel(c.model)
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &GenerationError{Message: "provider request failed", Err: err}
	}
	text := collectText(resp)
	if text == "" {
		return "", &GenerationError{Message: "empty response from provider"}
	}
	return text, nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return strings.TrimSpace(b.String())
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
