package genai

import (
	"context"
	"encoding/json"
)

// Modality selects the response medium for a generation request.
type Modality string

const (
	ModalityText  Modality = "TEXT"
	ModalityAudio Modality = "AUDIO"
)

// Schema is the subset of JSON schema the service accepts as a
// response-shape constraint.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// SpeechConfig selects the synthesized voice for audio responses.
type SpeechConfig struct {
	Voice string
}

// Request is a single generation call. ResponseSchema, when set, asks the
// service for schema-constrained JSON; Modality audio asks for synthesized
// speech instead of text.
type Request struct {
	Model          string
	Prompt         string
	System         string
	ResponseSchema *Schema
	Modality       Modality
	Speech         *SpeechConfig
}

// Kind tags which arm of a Response is populated.
type Kind int

const (
	KindText Kind = iota
	KindJSON
	KindAudio
)

// Response is the tagged union of things the service can return.
// Exactly one of Text, JSON, or Audio is populated, per Kind.
type Response struct {
	Kind  Kind
	Text  string
	JSON  json.RawMessage
	Audio []byte
}

// Generator is the AI text/audio service contract the workflows depend on.
// Implementations: Client (Gemini generateContent REST)
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}
