package pipeline

import (
	"strings"
	"testing"

	"tracescribe/internal/metrics"
)

func TestParseRendererOutputSlicesAllSections(t *testing.T) {
	raw := "# Summary\n\nA short summary.\n\n# Instructions\n\n1. First step.\n2. Second step.\n\n# Know-How\n\n- A tacit rule.\n"
	output, degradation := parseRendererOutput(raw)
	if degradation != nil {
		t.Fatalf("unexpected degradation: %+v", degradation)
	}
	if output.RawMarkdown != raw {
		t.Fatal("raw markdown must be preserved verbatim")
	}
	if output.Summary != "A short summary." {
		t.Fatalf("unexpected summary: %q", output.Summary)
	}
	if output.Instructions != "1. First step.\n2. Second step." {
		t.Fatalf("unexpected instructions: %q", output.Instructions)
	}
	if output.KnowHow != "- A tacit rule." {
		t.Fatalf("unexpected know-how: %q", output.KnowHow)
	}
}

func TestParseRendererOutputRoundTrip(t *testing.T) {
	first, _ := parseRendererOutput("# Summary\n\nS text.\n\n# Instructions\n\nI text.\n\n# Know-How\n\nK text.\n")
	rebuilt := strings.Join([]string{
		"# Summary", "", first.Summary, "",
		"# Instructions", "", first.Instructions, "",
		"# Know-How", "", first.KnowHow, "",
	}, "\n")
	second, degradation := parseRendererOutput(rebuilt)
	if degradation != nil {
		t.Fatalf("unexpected degradation: %+v", degradation)
	}
	if second.Summary != first.Summary || second.Instructions != first.Instructions || second.KnowHow != first.KnowHow {
		t.Fatalf("round trip mismatch: %+v vs %+v", first, second)
	}
}

func TestParseRendererOutputMissingHeadingYieldsEmptyField(t *testing.T) {
	output, degradation := parseRendererOutput("# Summary\n\nOnly a summary.\n")
	if output.Summary != "Only a summary." {
		t.Fatalf("unexpected summary: %q", output.Summary)
	}
	if output.Instructions != "" || output.KnowHow != "" {
		t.Fatalf("missing sections must be empty: %+v", output)
	}
	if degradation == nil || !strings.Contains(degradation.Reason, "# Instructions") {
		t.Fatalf("expected degradation naming missing headings, got %+v", degradation)
	}
}

func TestBuildRendererPromptCarriesKnowHow(t *testing.T) {
	knowHow := EmptyKnowHow()
	knowHow.ExpertShortcuts = []string{"paste with ctrl+shift+v"}
	prompt := buildRendererPrompt([]ActionChunk{}, knowHow, metrics.Compute(nil))
	if !strings.Contains(prompt, "paste with ctrl+shift+v") {
		t.Fatal("renderer prompt missing know-how payload")
	}
	for _, heading := range rendererHeadings {
		if !strings.Contains(prompt, heading) {
			t.Fatalf("renderer prompt must name heading %q", heading)
		}
	}
}
