package metrics

import (
	"fmt"
	"strings"

	"tracescribe/internal/action"
)

const (
	// Idle gaps at or above this many milliseconds count as a long pause.
	longPauseThresholdMs = 10_000
	// Revisits are only detected against this many most recent distinct URL visits;
	// older visits roll off and become invisible to back-and-forth detection.
	urlHistoryWindow = 10
	// Minimum run length for a repeated-action pattern.
	repeatRunLength = 3
	// Extraction context strings are clipped to this many runes.
	extractionContextLimit = 120
)

// LongPause marks an action preceded by an idle gap at or above the pause threshold.
type LongPause struct {
	Index      int   `json:"index"`
	DurationMs int64 `json:"durationMs"`
}

// BackForthPattern records a revisit of a recently seen URL, spanning every visit
// from the earlier occurrence through the revisit.
type BackForthPattern struct {
	URL     string `json:"url"`
	Indices []int  `json:"indices"`
}

// RepeatedActionInfo records a maximal contiguous run of identical action types.
type RepeatedActionInfo struct {
	Type    action.Type `json:"type"`
	Count   int         `json:"count"`
	Indices []int       `json:"indices"`
}

// ExtractionAction records a copy action together with where the value came from.
type ExtractionAction struct {
	Index   int    `json:"index"`
	URL     string `json:"url"`
	Context string `json:"context"`
}

// TaskMetrics aggregates the deterministic measurements over one action list. It is
// recomputed wholesale from the list each time, never patched incrementally.
type TaskMetrics struct {
	TotalActions      int                  `json:"totalActions"`
	TotalDurationMs   int64                `json:"totalDurationMs"`
	LongPauses        []LongPause          `json:"longPauses"`
	BackForthPatterns []BackForthPattern   `json:"backForthPatterns"`
	RepeatedActions   []RepeatedActionInfo `json:"repeatedActions"`
	ExtractionActions []ExtractionAction   `json:"extractionActions"`
	URLChanges        int                  `json:"urlChanges"`
	UniqueDomains     []string             `json:"uniqueDomains"`
}

// Compute derives TaskMetrics from an ordered action list. Total function: an empty
// list yields zero counts and empty (non-nil) slices.
func Compute(actions []action.Action) TaskMetrics {
	m := TaskMetrics{
		TotalActions:      len(actions),
		LongPauses:        []LongPause{},
		BackForthPatterns: []BackForthPattern{},
		RepeatedActions:   []RepeatedActionInfo{},
		ExtractionActions: []ExtractionAction{},
		UniqueDomains:     []string{},
	}
	if len(actions) == 0 {
		return m
	}
	m.TotalDurationMs = actions[len(actions)-1].Timestamp - actions[0].Timestamp

	m.LongPauses = detectLongPauses(actions)
	m.BackForthPatterns = detectBackForth(actions)
	m.RepeatedActions = detectRepeats(actions)
	m.ExtractionActions = detectExtractions(actions)
	m.URLChanges, m.UniqueDomains = analyzeURLs(actions)
	return m
}

func detectLongPauses(actions []action.Action) []LongPause {
	pauses := []LongPause{}
	for i, act := range actions {
		if act.Metadata.IdleTimeBefore >= longPauseThresholdMs {
			pauses = append(pauses, LongPause{Index: i, DurationMs: act.Metadata.IdleTimeBefore})
		}
	}
	return pauses
}

type urlVisit struct {
	url   string
	index int
}

// detectBackForth keeps a sliding window of the last urlHistoryWindow distinct URL
// visits. A revisit of any window entry other than the immediately preceding one
// emits a pattern covering the earlier occurrence, every intermediate visit, and the
// current index. Only the nearest qualifying prior occurrence is considered.
func detectBackForth(actions []action.Action) []BackForthPattern {
	patterns := []BackForthPattern{}
	var visits []urlVisit
	for i, act := range actions {
		if act.URL == "" {
			continue
		}
		if len(visits) > 0 && visits[len(visits)-1].url == act.URL {
			continue
		}
		for j := len(visits) - 2; j >= 0; j-- {
			if visits[j].url != act.URL {
				continue
			}
			indices := make([]int, 0, len(visits)-j+1)
			for _, visit := range visits[j:] {
				indices = append(indices, visit.index)
			}
			indices = append(indices, i)
			patterns = append(patterns, BackForthPattern{URL: act.URL, Indices: indices})
			break
		}
		visits = append(visits, urlVisit{url: act.URL, index: i})
		if len(visits) > urlHistoryWindow {
			visits = visits[len(visits)-urlHistoryWindow:]
		}
	}
	return patterns
}

// detectRepeats finds maximal contiguous runs of identical action types. Runs are by
// type only: three consecutive clicks on different elements still count.
func detectRepeats(actions []action.Action) []RepeatedActionInfo {
	repeats := []RepeatedActionInfo{}
	runStart := 0
	for i := 1; i <= len(actions); i++ {
		if i < len(actions) && actions[i].Type == actions[runStart].Type {
			continue
		}
		if count := i - runStart; count >= repeatRunLength {
			indices := make([]int, 0, count)
			for idx := runStart; idx < i; idx++ {
				indices = append(indices, idx)
			}
			repeats = append(repeats, RepeatedActionInfo{
				Type:    actions[runStart].Type,
				Count:   count,
				Indices: indices,
			})
		}
		runStart = i
	}
	return repeats
}

func detectExtractions(actions []action.Action) []ExtractionAction {
	extractions := []ExtractionAction{}
	for i, act := range actions {
		if act.Type != action.TypeCopy {
			continue
		}
		extractions = append(extractions, ExtractionAction{
			Index:   i,
			URL:     act.URL,
			Context: extractionContext(act),
		})
	}
	return extractions
}

func extractionContext(act action.Action) string {
	parts := []string{}
	if title := strings.TrimSpace(act.Metadata.PageTitle); title != "" {
		parts = append(parts, title)
	}
	if text := strings.TrimSpace(act.Target.Text); text != "" {
		parts = append(parts, fmt.Sprintf("copied %q", text))
	}
	return clip(strings.Join(parts, ": "), extractionContextLimit)
}

// analyzeURLs counts URL changes by raw string inequality against the previous
// action, while uniqueDomains is the distinct hostname set across the whole run. A
// malformed URL is skipped from domain extraction but still counts as a change.
func analyzeURLs(actions []action.Action) (int, []string) {
	changes := 0
	seen := map[string]bool{}
	domains := []string{}
	for i, act := range actions {
		if i > 0 && act.URL != actions[i-1].URL {
			changes++
		}
		host, ok := action.Hostname(act.URL)
		if !ok || seen[host] {
			continue
		}
		seen[host] = true
		domains = append(domains, host)
	}
	return changes, domains
}

func clip(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
