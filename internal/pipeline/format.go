package pipeline

import (
	"encoding/json"
	"strings"

	"tracescribe/internal/action"
	"tracescribe/internal/metrics"
	"tracescribe/internal/segment"
)

// Stage payloads are one or more JSON blocks joined by plain-text section headers.
// Only fields a model can act on are serialized; selectors are kept, raw DOM noise
// is not captured in the first place.

const maxSampleActionsPerChunk = 3

type promptAction struct {
	Index          int         `json:"index"`
	Type           action.Type `json:"type"`
	Timestamp      int64       `json:"timestamp"`
	URL            string      `json:"url"`
	Selector       string      `json:"selector,omitempty"`
	Text           string      `json:"text,omitempty"`
	PageTitle      string      `json:"pageTitle,omitempty"`
	IdleTimeBefore int64       `json:"idleTimeBefore,omitempty"`
}

type promptPreChunk struct {
	StartIndex int              `json:"startIndex"`
	EndIndex   int              `json:"endIndex"`
	Boundary   segment.Boundary `json:"boundary"`
}

type promptChunk struct {
	Phase          string         `json:"phase"`
	StartIndex     int            `json:"startIndex"`
	EndIndex       int            `json:"endIndex"`
	InferredIntent string         `json:"inferredIntent"`
	Patterns       []string       `json:"patterns,omitempty"`
	SampleActions  []promptAction `json:"sampleActions"`
}

func section(label string, body string) string {
	return "=== " + label + " ===\n" + body
}

func joinSections(sections ...string) string {
	return strings.Join(sections, "\n\n")
}

func marshalJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		// Every serialized type here is plain data; this cannot fail in practice.
		return "[]"
	}
	return string(data)
}

func formatActions(actions []action.Action) string {
	views := make([]promptAction, 0, len(actions))
	for i, act := range actions {
		views = append(views, toPromptAction(i, act))
	}
	return marshalJSON(views)
}

func toPromptAction(index int, act action.Action) promptAction {
	return promptAction{
		Index:          index,
		Type:           act.Type,
		Timestamp:      act.Timestamp,
		URL:            act.URL,
		Selector:       act.Target.Selector,
		Text:           act.Target.Text,
		PageTitle:      act.Metadata.PageTitle,
		IdleTimeBefore: act.Metadata.IdleTimeBefore,
	}
}

func formatMetrics(m metrics.TaskMetrics) string {
	return marshalJSON(m)
}

func formatPreChunks(chunks []segment.PreChunk) string {
	views := make([]promptPreChunk, 0, len(chunks))
	for _, chunk := range chunks {
		views = append(views, promptPreChunk{
			StartIndex: chunk.StartIndex,
			EndIndex:   chunk.EndIndex,
			Boundary:   chunk.Boundary,
		})
	}
	return marshalJSON(views)
}

// formatChunks serializes interpreted chunks with a representative action sample per
// chunk, capped at maxSampleActionsPerChunk (first, middle, last).
func formatChunks(chunks []ActionChunk) string {
	views := make([]promptChunk, 0, len(chunks))
	for _, chunk := range chunks {
		view := promptChunk{
			Phase:          chunk.Phase,
			StartIndex:     chunk.StartIndex,
			EndIndex:       chunk.EndIndex,
			InferredIntent: chunk.InferredIntent,
			Patterns:       chunk.Patterns,
			SampleActions:  []promptAction{},
		}
		for _, idx := range sampleIndices(len(chunk.Actions)) {
			view.SampleActions = append(view.SampleActions, toPromptAction(chunk.StartIndex+idx, chunk.Actions[idx]))
		}
		views = append(views, view)
	}
	return marshalJSON(views)
}

func sampleIndices(length int) []int {
	switch {
	case length <= 0:
		return nil
	case length <= maxSampleActionsPerChunk:
		indices := make([]int, length)
		for i := range indices {
			indices[i] = i
		}
		return indices
	default:
		return []int{0, length / 2, length - 1}
	}
}

func formatKnowHow(knowHow KnowHowExtraction) string {
	return marshalJSON(knowHow)
}
