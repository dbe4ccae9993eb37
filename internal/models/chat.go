package models

import "encoding/json"

// DefaultSystemContent is used when the client doesn't send systemContent.
const DefaultSystemContent = "Be a helpful assistant"

// DefaultContinueModel is used when a continuation request doesn't name
// a model.
const DefaultContinueModel = "meta-llama/Meta-Llama-3.1-8B-Instruct-Turbo"

// Message is a single turn in a conversation. Content stays raw JSON because
// user turns may carry structured parts (text + image blocks) instead of a
// plain string, and we forward those to the provider untouched.
type Message struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// TextMessage builds a message with plain string content.
func TextMessage(role, content string) Message {
	data, _ := json.Marshal(content)
	return Message{Role: role, Content: data}
}

// ChatRequest is the inbound /chat payload.
type ChatRequest struct {
	Message         json.RawMessage       `json:"message"`
	Conversation    []Message             `json:"conversation"`
	Model           string                `json:"model"`
	SystemContent   *string               `json:"systemContent"`
	Parameters      map[string]ParamValue `json:"parameters"`
	IsDeepQueryMode bool                  `json:"isDeepQueryMode"`
	StartTag        string                `json:"startTag"`
}

// MessageText returns the message as a plain string. ok is false when the
// message is structured content (e.g. an image message), which bypasses the
// augmentation pipeline entirely.
func (r *ChatRequest) MessageText() (string, bool) {
	var s string
	if err := json.Unmarshal(r.Message, &s); err != nil {
		return "", false
	}
	return s, true
}

// ContinueRequest is the inbound /continue_generation payload.
type ContinueRequest struct {
	Conversation  []Message             `json:"conversation"`
	Model         string                `json:"model"`
	SystemContent *string               `json:"systemContent"`
	Parameters    map[string]ParamValue `json:"parameters"`
}

// TitleRequest is the inbound /generate-title payload.
type TitleRequest struct {
	Message           string `json:"message"`
	Model             string `json:"model"`
	AssistantResponse string `json:"assistantResponse"`
}
