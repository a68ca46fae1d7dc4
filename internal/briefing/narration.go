package briefing

import (
	"fmt"
	"strings"

	"github.com/rashmika0907/zentask/internal/model"
)

// noTasksSummary is spoken when nothing is active.
const noTasksSummary = "no urgent tasks at the moment. It's a great time to reflect or start something new."

// Narration builds the fixed-template spoken summary for the given tasks
// and returns it with the number of active (non-DONE) tasks.
func Narration(tasks []model.Task) (string, int) {
	var active []model.Task
	for _, t := range tasks {
		if t.Status != model.StatusDone {
			active = append(active, t)
		}
	}

	summary := noTasksSummary
	if len(active) > 0 {
		items := make([]string, len(active))
		for i, t := range active {
			items[i] = fmt.Sprintf("%s (%s priority)", t.Title, t.Priority)
		}
		summary = strings.Join(items, ", ")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Good day! Here is your Zentask briefing. Today you have %d active tasks. ", len(active)))
	if len(active) > 0 {
		sb.WriteString("Your focus items are: ")
	}
	sb.WriteString(summary)
	sb.WriteString(" Take a deep breath, and let's find your flow.")

	return sb.String(), len(active)
}

// prompt wraps the narration in the voice direction sent to the service.
func prompt(narration string) string {
	return fmt.Sprintf("Speak in a calm, encouraging professional voice: %q", narration)
}
