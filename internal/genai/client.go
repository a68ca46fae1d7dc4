package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client calls the generateContent endpoint. Requests are single-attempt:
// the features built on this client are best-effort and fall back on
// failure rather than retry.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type wirePart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *wireInlineData `json:"inlineData,omitempty"`
}

type wireInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type wireContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []wirePart `json:"parts"`
}

type wireSpeechConfig struct {
	VoiceConfig struct {
		PrebuiltVoiceConfig struct {
			VoiceName string `json:"voiceName"`
		} `json:"prebuiltVoiceConfig"`
	} `json:"voiceConfig"`
}

type wireGenerationConfig struct {
	ResponseMimeType   string            `json:"responseMimeType,omitempty"`
	ResponseSchema     *Schema           `json:"responseSchema,omitempty"`
	ResponseModalities []string          `json:"responseModalities,omitempty"`
	SpeechConfig       *wireSpeechConfig `json:"speechConfig,omitempty"`
}

type wireRequest struct {
	Contents          []wireContent         `json:"contents"`
	SystemInstruction *wireContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *wireGenerationConfig `json:"generationConfig,omitempty"`
}

type wireResponse struct {
	Candidates []struct {
		Content wireContent `json:"content"`
	} `json:"candidates"`
}

type wireError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewClient creates a generateContent client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{},
	}
}

// NewClientWithBaseURL creates a client against a non-default endpoint
// (used by tests and self-hosted gateways).
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

// Generate performs one generation round trip.
func (c *Client) Generate(ctx context.Context, req Request) (*Response, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("ZENTASK_API_KEY not set")
	}
	if req.Model == "" {
		return nil, fmt.Errorf("no model specified")
	}

	wire := wireRequest{
		Contents: []wireContent{
			{Role: "user", Parts: []wirePart{{Text: req.Prompt}}},
		},
	}
	if req.System != "" {
		wire.SystemInstruction = &wireContent{Parts: []wirePart{{Text: req.System}}}
	}

	gc := &wireGenerationConfig{}
	if req.ResponseSchema != nil {
		gc.ResponseMimeType = "application/json"
		gc.ResponseSchema = req.ResponseSchema
	}
	if req.Modality == ModalityAudio {
		gc.ResponseModalities = []string{"AUDIO"}
		sc := &wireSpeechConfig{}
		if req.Speech != nil {
			sc.VoiceConfig.PrebuiltVoiceConfig.VoiceName = req.Speech.Voice
		}
		gc.SpeechConfig = sc
	}
	if gc.ResponseMimeType != "" || len(gc.ResponseModalities) > 0 {
		wire.GenerationConfig = gc
	}

	body, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var wireErr wireError
		if json.Unmarshal(respBody, &wireErr) == nil && wireErr.Error.Message != "" {
			return nil, fmt.Errorf("AI service error (%d): %s", resp.StatusCode, wireErr.Error.Message)
		}
		return nil, fmt.Errorf("AI service error (%d): %s", resp.StatusCode, string(respBody))
	}

	var wireResp wireResponse
	if err := json.Unmarshal(respBody, &wireResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return responseFromWire(&wireResp, req)
}

// responseFromWire validates the vendor payload against the request and
// produces the tagged-union Response the workflows consume.
func responseFromWire(w *wireResponse, req Request) (*Response, error) {
	if len(w.Candidates) == 0 || len(w.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from AI service")
	}
	part := w.Candidates[0].Content.Parts[0]

	if req.Modality == ModalityAudio {
		if part.InlineData == nil || part.InlineData.Data == "" {
			return nil, fmt.Errorf("response missing audio payload")
		}
		audio, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode audio payload: %w", err)
		}
		return &Response{Kind: KindAudio, Audio: audio}, nil
	}

	if part.Text == "" {
		return nil, fmt.Errorf("response missing text")
	}

	if req.ResponseSchema != nil {
		if !json.Valid([]byte(part.Text)) {
			return nil, fmt.Errorf("response is not valid JSON")
		}
		return &Response{Kind: KindJSON, JSON: json.RawMessage(part.Text)}, nil
	}

	return &Response{Kind: KindText, Text: part.Text}, nil
}
