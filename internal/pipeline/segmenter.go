package pipeline

import (
	"encoding/json"
	"fmt"

	"tracescribe/internal/action"
	"tracescribe/internal/metrics"
	"tracescribe/internal/segment"
)

const stageSegmenter = "segmenter"

const segmenterSystemPrompt = "You analyze recorded browser interaction traces. " +
	"You group a flat action sequence into coherent task phases, inferring what the user " +
	"was trying to accomplish in each phase. You answer with the exact response format " +
	"requested and nothing else."

func buildSegmenterPrompt(actions []action.Action, m metrics.TaskMetrics, preChunks []segment.PreChunk) string {
	instructions := "Segment the recorded actions below into sequential task phases.\n" +
		"Every action index must belong to exactly one phase, phases must be contiguous, " +
		"and together they must cover index 0 through the last index.\n" +
		"The rule-based boundaries are advisory hints from a deterministic pass; merge or " +
		"split them freely when the actions tell a different story.\n" +
		"For each phase give: phase (a short label), startIndex, endIndex, inferredIntent " +
		"(one sentence, what the user was trying to do), and patterns (notable behaviors " +
		"drawn from the metrics, may be empty)."
	responseFormat := "Respond with exactly one <chunks> block containing a JSON array:\n" +
		`<chunks>[{"phase":"","startIndex":0,"endIndex":0,"inferredIntent":"","patterns":[]}]</chunks>`
	return joinSections(
		instructions,
		section("ACTIONS", formatActions(actions)),
		section("METRICS", formatMetrics(m)),
		section("ADVISORY BOUNDARIES", formatPreChunks(preChunks)),
		responseFormat,
	)
}

// parseSegmenterChunks extracts and structurally validates the <chunks> block. A
// malformed response degrades to an empty chunk list instead of failing the stage.
func parseSegmenterChunks(raw string, actions []action.Action) ([]ActionChunk, *Degradation) {
	block, ok := extractBlock(raw, "chunks")
	if !ok {
		return []ActionChunk{}, &Degradation{Stage: stageSegmenter, Reason: "response contains no <chunks> block"}
	}
	body := []byte(stripCodeFence(block))
	if err := validateShape(chunksSchema, body); err != nil {
		return []ActionChunk{}, &Degradation{Stage: stageSegmenter, Reason: err.Error()}
	}
	var chunks []ActionChunk
	if err := json.Unmarshal(body, &chunks); err != nil {
		return []ActionChunk{}, &Degradation{Stage: stageSegmenter, Reason: fmt.Sprintf("decode chunks: %v", err)}
	}
	for i := range chunks {
		attachActions(&chunks[i], actions)
		if chunks[i].Patterns == nil {
			chunks[i].Patterns = []string{}
		}
	}
	return chunks, nil
}

// attachActions resolves a chunk's index span to a slice of the source actions,
// clamping out-of-range indices. Spans the model got backwards stay empty.
func attachActions(chunk *ActionChunk, actions []action.Action) {
	chunk.Actions = []action.Action{}
	if len(actions) == 0 {
		return
	}
	start := chunk.StartIndex
	end := chunk.EndIndex
	if start < 0 {
		start = 0
	}
	if end > len(actions)-1 {
		end = len(actions) - 1
	}
	if start > end {
		return
	}
	chunk.Actions = actions[start : end+1]
}
