package pipeline

import (
	"encoding/json"
	"fmt"

	"tracescribe/internal/action"
	"tracescribe/internal/metrics"
)

const stageExtractor = "extractor"

const extractorSystemPrompt = "You study how an experienced person performed a task in " +
	"the browser and surface the tacit knowledge they never wrote down: decision rules, " +
	"signals they watched for, fields they were careful with, shortcuts they took. You " +
	"only state what the recorded behavior supports and you answer with the exact " +
	"response format requested and nothing else."

func buildExtractorPrompt(chunks []ActionChunk, actions []action.Action, m metrics.TaskMetrics) string {
	instructions := "From the task phases and the full action record below, extract the tacit " +
		"know-how behind this workflow.\n" +
		"Report: decisionCriteria (situation, criterion, sourcePattern, confidence), " +
		"successSignals, failureSignals, criticalFields, cornerCases (situation, resolution, " +
		"sourceEvidence), and expertShortcuts.\n" +
		"Give each decision criterion a confidence between 0.7 and 1.0 and omit anything you " +
		"are less confident about. Every list may be empty."
	responseFormat := "Respond with exactly one <know_how_extraction> block containing a JSON object:\n" +
		`<know_how_extraction>{"decisionCriteria":[],"successSignals":[],"failureSignals":[],"criticalFields":[],"cornerCases":[],"expertShortcuts":[]}</know_how_extraction>`
	return joinSections(
		instructions,
		section("TASK PHASES", formatChunks(chunks)),
		section("ACTIONS", formatActions(actions)),
		section("METRICS", formatMetrics(m)),
		responseFormat,
	)
}

// parseKnowHow extracts and structurally validates the <know_how_extraction> block.
// A malformed response degrades to an all-empty extraction instead of failing the
// stage.
func parseKnowHow(raw string) (KnowHowExtraction, *Degradation) {
	block, ok := extractBlock(raw, "know_how_extraction")
	if !ok {
		return EmptyKnowHow(), &Degradation{Stage: stageExtractor, Reason: "response contains no <know_how_extraction> block"}
	}
	body := []byte(stripCodeFence(block))
	if err := validateShape(knowHowSchema, body); err != nil {
		return EmptyKnowHow(), &Degradation{Stage: stageExtractor, Reason: err.Error()}
	}
	knowHow := EmptyKnowHow()
	if err := json.Unmarshal(body, &knowHow); err != nil {
		return EmptyKnowHow(), &Degradation{Stage: stageExtractor, Reason: fmt.Sprintf("decode know-how: %v", err)}
	}
	return normalizeKnowHow(knowHow), nil
}

func normalizeKnowHow(knowHow KnowHowExtraction) KnowHowExtraction {
	if knowHow.DecisionCriteria == nil {
		knowHow.DecisionCriteria = []DecisionCriterion{}
	}
	if knowHow.SuccessSignals == nil {
		knowHow.SuccessSignals = []string{}
	}
	if knowHow.FailureSignals == nil {
		knowHow.FailureSignals = []string{}
	}
	if knowHow.CriticalFields == nil {
		knowHow.CriticalFields = []string{}
	}
	if knowHow.CornerCases == nil {
		knowHow.CornerCases = []CornerCase{}
	}
	if knowHow.ExpertShortcuts == nil {
		knowHow.ExpertShortcuts = []string{}
	}
	return knowHow
}
