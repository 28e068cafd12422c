package llm

import (
	"context"
	"encoding/json"
)

// Provider generates structured JSON from a prompt. Every backend
// (Gemini, Anthropic, OpenAI, OpenRouter, mock) implements it.
type Provider interface {
	// Generate sends req and returns the whole response. When req.Schema is
	// set the returned Content has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model used when a request names none.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system instruction.
	System string

	// Messages is the conversation. Content generation is single-turn, so
	// this normally holds one user message.
	Messages []Message

	// Schema, when set, asks the provider for JSON conforming to it.
	Schema *Schema

	// Model overrides the provider's configured model for this request.
	// Friendly aliases such as "gemini-pro" are resolved per provider.
	Model string

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies the schema, kebab-case, e.g. "note-module". It is
	// also the compiled-schema cache key.
	Name string

	Description string

	// Definition is the JSON Schema document.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is validated JSON when a Schema was requested, otherwise the
	// raw text.
	Content json.RawMessage

	Usage Usage

	// Model is the model that served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// pickModel returns the per-request model if set, resolved through aliases,
// or the provider default.
func pickModel(req Request, fallback string, aliases map[string]string) string {
	if req.Model == "" {
		return fallback
	}
	return resolveModel(req.Model, aliases)
}

// resolveModel maps a friendly model name to a provider model ID.
// Unknown names are used as-is.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
