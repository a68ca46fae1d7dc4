package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithBaseURL("test-key", srv.URL)
}

func textResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{
				"parts": []map[string]any{{"text": text}},
			}},
		},
	}
}

func TestClient_Generate_Text(t *testing.T) {
	t.Run("Given a text response When Generate Then returns KindText", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(textResponse("refined description"))
		})

		resp, err := client.Generate(context.Background(), Request{
			Model:  "test-model",
			Prompt: "refine this",
		})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		if resp.Kind != KindText {
			t.Errorf("expected KindText, got %v", resp.Kind)
		}
		if resp.Text != "refined description" {
			t.Errorf("unexpected text: %q", resp.Text)
		}
	})

	t.Run("Given a schema constraint When Generate Then request carries it and response is KindJSON", func(t *testing.T) {
		var gotBody wireRequest
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&gotBody)
			json.NewEncoder(w).Encode(textResponse(`[{"title":"step","isDone":false}]`))
		})

		resp, err := client.Generate(context.Background(), Request{
			Model:  "test-model",
			Prompt: "break down",
			ResponseSchema: &Schema{
				Type:  "ARRAY",
				Items: &Schema{Type: "OBJECT"},
			},
		})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		if resp.Kind != KindJSON {
			t.Errorf("expected KindJSON, got %v", resp.Kind)
		}
		if gotBody.GenerationConfig == nil || gotBody.GenerationConfig.ResponseMimeType != "application/json" {
			t.Error("expected responseMimeType application/json in request")
		}
		if gotBody.GenerationConfig.ResponseSchema == nil || gotBody.GenerationConfig.ResponseSchema.Type != "ARRAY" {
			t.Error("expected response schema forwarded to the service")
		}
	})

	t.Run("Given invalid JSON under a schema When Generate Then fails", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(textResponse("not json at all"))
		})

		_, err := client.Generate(context.Background(), Request{
			Model:          "test-model",
			Prompt:         "break down",
			ResponseSchema: &Schema{Type: "ARRAY"},
		})
		if err == nil {
			t.Fatal("expected error for non-JSON response under schema")
		}
	})
}

func TestClient_Generate_Audio(t *testing.T) {
	t.Run("Given an inline audio payload When Generate Then returns decoded bytes", func(t *testing.T) {
		pcm := []byte{0x00, 0x40, 0x00, 0xc0} // two samples
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"candidates": []map[string]any{
					{"content": map[string]any{
						"parts": []map[string]any{
							{"inlineData": map[string]any{
								"mimeType": "audio/pcm",
								"data":     base64.StdEncoding.EncodeToString(pcm),
							}},
						},
					}},
				},
			})
		})

		resp, err := client.Generate(context.Background(), Request{
			Model:    "tts-model",
			Prompt:   "speak",
			Modality: ModalityAudio,
			Speech:   &SpeechConfig{Voice: "Kore"},
		})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		if resp.Kind != KindAudio {
			t.Errorf("expected KindAudio, got %v", resp.Kind)
		}
		if len(resp.Audio) != len(pcm) {
			t.Errorf("expected %d audio bytes, got %d", len(pcm), len(resp.Audio))
		}
	})

	t.Run("Given a missing audio payload When Generate Then fails", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(textResponse("spoken words, not audio"))
		})

		_, err := client.Generate(context.Background(), Request{
			Model:    "tts-model",
			Prompt:   "speak",
			Modality: ModalityAudio,
		})
		if err == nil {
			t.Fatal("expected error for missing audio payload")
		}
	})
}

func TestClient_Generate_Errors(t *testing.T) {
	t.Run("Given a vendor error When Generate Then message is enveloped", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": 429, "message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"},
			})
		})

		_, err := client.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("Given empty candidates When Generate Then fails", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
		})

		_, err := client.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
		if err == nil {
			t.Fatal("expected error for empty response")
		}
	})

	t.Run("Given no API key When Generate Then fails before any request", func(t *testing.T) {
		client := NewClient("")

		_, err := client.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
		if err == nil {
			t.Fatal("expected error for missing API key")
		}
	})

	t.Run("Given a failing request When Generate Then it is attempted exactly once", func(t *testing.T) {
		calls := 0
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
		})

		client.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
		if calls != 1 {
			t.Errorf("expected exactly 1 attempt, got %d", calls)
		}
	})
}
