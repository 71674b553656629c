package segment

import "tracescribe/internal/action"

// Boundary names the rule that closed a pre-chunk.
type Boundary string

const (
	BoundaryStart      Boundary = "start"
	BoundaryURLChange  Boundary = "url_change"
	BoundaryLongPause  Boundary = "long_pause"
	BoundaryModeChange Boundary = "mode_change"
)

// Idle gaps at or above this many milliseconds force a chunk boundary. Deliberately
// higher than the metrics long-pause threshold: a boundary implies a context switch,
// not just hesitation.
const boundaryPauseMs = 15_000

// PreChunk is a deterministic, rule-based chunk boundary proposal. The interpretive
// segmentation stage receives pre-chunks as advisory input and may disregard them.
type PreChunk struct {
	StartIndex int             `json:"startIndex"`
	EndIndex   int             `json:"endIndex"`
	Actions    []action.Action `json:"-"`
	Boundary   Boundary        `json:"boundary"`
}

type mode int

const (
	modeInteraction mode = iota
	modeNavigation
	modeExtraction
)

func modeOf(t action.Type) mode {
	switch t {
	case action.TypeNavigation, action.TypeScroll:
		return modeNavigation
	case action.TypeCopy:
		return modeExtraction
	default:
		return modeInteraction
	}
}

// boundaryRules is evaluated in order before each index; the first matching rule
// fires and the rest are skipped. Reordering would change observable boundaries.
var boundaryRules = []struct {
	boundary Boundary
	matches  func(prev, cur action.Action) bool
}{
	{BoundaryLongPause, func(prev, cur action.Action) bool {
		return cur.Metadata.IdleTimeBefore >= boundaryPauseMs
	}},
	{BoundaryURLChange, func(prev, cur action.Action) bool {
		prevHost, prevOK := action.Hostname(prev.URL)
		curHost, curOK := action.Hostname(cur.URL)
		// An unparseable URL on either side is treated as a domain change.
		if !prevOK || !curOK {
			return true
		}
		return prevHost != curHost
	}},
	{BoundaryModeChange, func(prev, cur action.Action) bool {
		return modeOf(prev.Type) != modeOf(cur.Type)
	}},
}

// Chunk splits an action list into contiguous, total-covering pre-chunks using a
// single forward pass. A chunk closed by a boundary carries that boundary's label;
// the terminal chunk is always labeled "start" regardless of why it ends.
func Chunk(actions []action.Action) []PreChunk {
	if len(actions) == 0 {
		return []PreChunk{}
	}
	chunks := []PreChunk{}
	start := 0
	for i := 1; i < len(actions); i++ {
		boundary, ok := boundaryBefore(actions[i-1], actions[i])
		if !ok {
			continue
		}
		chunks = append(chunks, PreChunk{
			StartIndex: start,
			EndIndex:   i - 1,
			Actions:    actions[start:i],
			Boundary:   boundary,
		})
		start = i
	}
	chunks = append(chunks, PreChunk{
		StartIndex: start,
		EndIndex:   len(actions) - 1,
		Actions:    actions[start:],
		Boundary:   BoundaryStart,
	})
	return chunks
}

func boundaryBefore(prev, cur action.Action) (Boundary, bool) {
	for _, rule := range boundaryRules {
		if rule.matches(prev, cur) {
			return rule.boundary, true
		}
	}
	return "", false
}
