package pipeline

import (
	"tracescribe/internal/action"
	"tracescribe/internal/metrics"
)

// ActionChunk is a semantically labeled span of the action sequence, produced by the
// segmentation stage. The deterministic pre-chunk boundaries are only advisory input
// to that stage; the model may disregard them.
type ActionChunk struct {
	Phase          string          `json:"phase"`
	StartIndex     int             `json:"startIndex"`
	EndIndex       int             `json:"endIndex"`
	Actions        []action.Action `json:"-"`
	Patterns       []string        `json:"patterns"`
	InferredIntent string          `json:"inferredIntent"`
}

// DecisionCriterion captures a tacit rule the user applied at a decision point.
// Criteria below confidence 0.7 are excluded by the extractor prompt; the parser does
// not re-validate this producer contract.
type DecisionCriterion struct {
	Situation     string  `json:"situation"`
	Criterion     string  `json:"criterion"`
	SourcePattern string  `json:"sourcePattern"`
	Confidence    float64 `json:"confidence"`
}

// CornerCase records an unusual situation the user handled and how.
type CornerCase struct {
	Situation      string `json:"situation"`
	Resolution     string `json:"resolution"`
	SourceEvidence string `json:"sourceEvidence"`
}

// KnowHowExtraction bundles the tacit knowledge inferred from action patterns.
type KnowHowExtraction struct {
	DecisionCriteria []DecisionCriterion `json:"decisionCriteria"`
	SuccessSignals   []string            `json:"successSignals"`
	FailureSignals   []string            `json:"failureSignals"`
	CriticalFields   []string            `json:"criticalFields"`
	CornerCases      []CornerCase        `json:"cornerCases"`
	ExpertShortcuts  []string            `json:"expertShortcuts"`
}

// EmptyKnowHow returns a well-typed extraction with every list empty. Downstream
// stages always receive this shape, never nil slices.
func EmptyKnowHow() KnowHowExtraction {
	return KnowHowExtraction{
		DecisionCriteria: []DecisionCriterion{},
		SuccessSignals:   []string{},
		FailureSignals:   []string{},
		CriticalFields:   []string{},
		CornerCases:      []CornerCase{},
		ExpertShortcuts:  []string{},
	}
}

// GeneratedOutput is the rendered task document. RawMarkdown is the single source of
// truth; the three prose fields are views sliced out of it.
type GeneratedOutput struct {
	Summary      string `json:"summary"`
	Instructions string `json:"instructions"`
	KnowHow      string `json:"knowHow"`
	RawMarkdown  string `json:"rawMarkdown"`
}

// Degradation marks a stage whose structured response could not be parsed and was
// replaced by an empty-but-valid value. It distinguishes "the model said there was
// nothing" from "the model's response was unusable".
type Degradation struct {
	Stage  string `json:"stage"`
	Reason string `json:"reason"`
}

// Result is the outcome of one full generation run. Created wholesale per run;
// regeneration replaces it, never patches it.
type Result struct {
	Chunks       []ActionChunk       `json:"chunks"`
	Metrics      metrics.TaskMetrics `json:"metrics"`
	KnowHow      KnowHowExtraction   `json:"knowHow"`
	Output       GeneratedOutput     `json:"output"`
	Degradations []Degradation       `json:"degradations,omitempty"`
}
