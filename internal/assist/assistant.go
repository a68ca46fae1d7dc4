// Package assist orchestrates the AI-assisted task features: description
// refinement, sub-task decomposition, and category/priority suggestion.
// Every operation is best-effort: failures are logged and converted to a
// safe fallback, never surfaced as an error to the end user.
package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/rashmika0907/zentask/internal/genai"
	"github.com/rashmika0907/zentask/internal/model"
	"github.com/rashmika0907/zentask/internal/storage"
)

// ErrBusy is returned when a workflow already has a request in flight.
// A second invocation is rejected, not queued.
var ErrBusy = errors.New("a request is already in flight")

const refineSystem = "You are an expert productivity coach. Keep descriptions concise and under 100 words."

// DefaultSuggestion is the fallback when suggestion fails.
var DefaultSuggestion = model.Suggestion{Category: "General", Priority: model.PriorityMedium}

// inflight is a per-workflow single-flight guard.
type inflight struct {
	busy atomic.Bool
}

func (f *inflight) tryAcquire() bool {
	return f.busy.CompareAndSwap(false, true)
}

func (f *inflight) release() {
	f.busy.Store(false)
}

// Assistant runs the minor AI pass-throughs against a Generator.
type Assistant struct {
	gen   genai.Generator
	model string

	refining    inflight
	decomposing inflight
	suggesting  inflight
}

// NewAssistant creates an assistant using textModel for all calls.
func NewAssistant(gen genai.Generator, textModel string) *Assistant {
	return &Assistant{gen: gen, model: textModel}
}

// Refine asks for a clearer, actionable rewrite of a task description.
// On any failure the original description is returned unchanged.
func (a *Assistant) Refine(ctx context.Context, title, description string) (string, error) {
	if !a.refining.tryAcquire() {
		return "", ErrBusy
	}
	defer a.refining.release()

	resp, err := a.gen.Generate(ctx, genai.Request{
		Model:  a.model,
		Prompt: fmt.Sprintf("Refine this task into a clear, actionable, professional description.\nTitle: %s\nContext: %s", title, description),
		System: refineSystem,
	})
	if err != nil {
		log.Printf("Warning: refinement failed, keeping original description: %v", err)
		return description, nil
	}
	if resp.Kind != genai.KindText || resp.Text == "" {
		log.Printf("Warning: refinement returned no text, keeping original description")
		return description, nil
	}
	return resp.Text, nil
}

// Decompose asks for 3-5 actionable sub-tasks as schema-constrained JSON
// and assigns a fresh id to each. On any failure an empty sequence is
// returned and the caller proceeds as if no decomposition occurred.
func (a *Assistant) Decompose(ctx context.Context, title, description string) ([]model.SubTask, error) {
	if !a.decomposing.tryAcquire() {
		return nil, ErrBusy
	}
	defer a.decomposing.release()

	schema := &genai.Schema{
		Type: "ARRAY",
		Items: &genai.Schema{
			Type: "OBJECT",
			Properties: map[string]*genai.Schema{
				"title":  {Type: "STRING"},
				"isDone": {Type: "BOOLEAN"},
			},
			Required: []string{"title", "isDone"},
		},
	}

	resp, err := a.gen.Generate(ctx, genai.Request{
		Model:          a.model,
		Prompt:         fmt.Sprintf("Break down this task into 3-5 logical, actionable sub-tasks.\nTask: %s\nDetails: %s", title, description),
		ResponseSchema: schema,
	})
	if err != nil {
		log.Printf("Warning: decomposition failed: %v", err)
		return []model.SubTask{}, nil
	}
	if resp.Kind != genai.KindJSON {
		log.Printf("Warning: decomposition returned unexpected response kind")
		return []model.SubTask{}, nil
	}

	var items []struct {
		Title  string `json:"title"`
		IsDone bool   `json:"isDone"`
	}
	if err := json.Unmarshal(resp.JSON, &items); err != nil {
		log.Printf("Warning: decomposition response did not match schema: %v", err)
		return []model.SubTask{}, nil
	}

	subTasks := make([]model.SubTask, 0, len(items))
	for _, item := range items {
		if item.Title == "" {
			continue
		}
		subTasks = append(subTasks, model.SubTask{
			ID:     storage.GenerateID(),
			Title:  item.Title,
			IsDone: item.IsDone,
		})
	}
	return subTasks, nil
}

// Suggest asks for a category and priority for a task. On any failure,
// including an out-of-enum priority, the fixed default is returned.
func (a *Assistant) Suggest(ctx context.Context, title, description string) (model.Suggestion, error) {
	if !a.suggesting.tryAcquire() {
		return model.Suggestion{}, ErrBusy
	}
	defer a.suggesting.release()

	schema := &genai.Schema{
		Type: "OBJECT",
		Properties: map[string]*genai.Schema{
			"category": {Type: "STRING"},
			"priority": {
				Type:        "STRING",
				Description: "Must be one of: LOW, MEDIUM, HIGH",
			},
		},
		Required: []string{"category", "priority"},
	}

	resp, err := a.gen.Generate(ctx, genai.Request{
		Model:          a.model,
		Prompt:         fmt.Sprintf("Analyze this task and suggest a category and priority level.\nTitle: %s\nDescription: %s", title, description),
		ResponseSchema: schema,
	})
	if err != nil {
		log.Printf("Warning: suggestion failed: %v", err)
		return DefaultSuggestion, nil
	}
	if resp.Kind != genai.KindJSON {
		log.Printf("Warning: suggestion returned unexpected response kind")
		return DefaultSuggestion, nil
	}

	var suggestion model.Suggestion
	if err := json.Unmarshal(resp.JSON, &suggestion); err != nil {
		log.Printf("Warning: suggestion response did not match schema: %v", err)
		return DefaultSuggestion, nil
	}
	if suggestion.Category == "" || !suggestion.Priority.Valid() {
		log.Printf("Warning: suggestion response outside allowed values")
		return DefaultSuggestion, nil
	}
	return suggestion, nil
}
