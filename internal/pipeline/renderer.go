package pipeline

import (
	"strings"

	"tracescribe/internal/metrics"
)

const stageRenderer = "renderer"

const (
	headingSummary      = "# Summary"
	headingInstructions = "# Instructions"
	headingKnowHow      = "# Know-How"
)

var rendererHeadings = []string{headingSummary, headingInstructions, headingKnowHow}

const rendererSystemPrompt = "You write clear, reusable task documentation from analyzed " +
	"browser workflows. You write for a colleague who has never done the task. Plain " +
	"markdown only, no preamble before the first heading."

func buildRendererPrompt(chunks []ActionChunk, knowHow KnowHowExtraction, m metrics.TaskMetrics) string {
	instructions := "Write a task document from the analysis below.\n" +
		"The document must contain exactly three top-level sections, in this order, with " +
		"these literal headings:\n" +
		"# Summary — two or three sentences: what the task is and when to do it.\n" +
		"# Instructions — numbered steps a newcomer can follow, one phase per group of steps.\n" +
		"# Know-How — the tacit knowledge: decision rules, signals, corner cases, shortcuts.\n" +
		"Do not add other top-level headings and do not wrap the document in a code fence."
	return joinSections(
		instructions,
		section("TASK PHASES", formatChunks(chunks)),
		section("KNOW-HOW", formatKnowHow(knowHow)),
		section("METRICS", formatMetrics(m)),
	)
}

// parseRendererOutput slices the three documented sections out of the rendered
// markdown. The raw text stays the single source of truth; a missing heading yields
// an empty view for that field and is reported as a degradation, not an error.
func parseRendererOutput(raw string) (GeneratedOutput, *Degradation) {
	output := GeneratedOutput{
		RawMarkdown:  raw,
		Summary:      sliceSection(raw, headingSummary),
		Instructions: sliceSection(raw, headingInstructions),
		KnowHow:      sliceSection(raw, headingKnowHow),
	}
	missing := []string{}
	for _, heading := range rendererHeadings {
		if !strings.Contains(raw, heading) {
			missing = append(missing, heading)
		}
	}
	if len(missing) > 0 {
		return output, &Degradation{
			Stage:  stageRenderer,
			Reason: "rendered document is missing headings: " + strings.Join(missing, ", "),
		}
	}
	return output, nil
}

// sliceSection returns the text between a heading and the next known heading, or the
// end of the document. First-match search; an absent heading yields "".
func sliceSection(raw, heading string) string {
	start := strings.Index(raw, heading)
	if start < 0 {
		return ""
	}
	body := raw[start+len(heading):]
	end := len(body)
	for _, other := range rendererHeadings {
		if other == heading {
			continue
		}
		if idx := strings.Index(body, other); idx >= 0 && idx < end {
			end = idx
		}
	}
	return strings.TrimSpace(body[:end])
}
