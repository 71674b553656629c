package pipeline

import (
	"strings"
	"testing"

	"tracescribe/internal/metrics"
	"tracescribe/internal/segment"
)

func TestBuildSegmenterPromptCarriesAllBlocks(t *testing.T) {
	actions := sampleActions()
	m := metrics.Compute(actions)
	prompt := buildSegmenterPrompt(actions, m, segment.Chunk(actions))
	for _, fragment := range []string{"=== ACTIONS ===", "=== METRICS ===", "=== ADVISORY BOUNDARIES ===", "<chunks>"} {
		if !strings.Contains(prompt, fragment) {
			t.Fatalf("prompt missing %q", fragment)
		}
	}
	if !strings.Contains(prompt, `"url": "https://crm.example/accounts/42"`) {
		t.Fatalf("prompt missing serialized action URL:\n%s", prompt)
	}
	if !strings.Contains(prompt, `"totalActions": 3`) {
		t.Fatal("prompt missing serialized metrics")
	}
}

func TestParseSegmenterChunksAttachesActionSlices(t *testing.T) {
	actions := sampleActions()
	raw := `<chunks>[{"phase":"all","startIndex":0,"endIndex":2,"inferredIntent":"everything","patterns":null}]</chunks>`
	chunks, degradation := parseSegmenterChunks(raw, actions)
	if degradation != nil {
		t.Fatalf("unexpected degradation: %+v", degradation)
	}
	if len(chunks) != 1 || len(chunks[0].Actions) != 3 {
		t.Fatalf("unexpected chunks: %+v", chunks)
	}
	if chunks[0].Patterns == nil {
		t.Fatal("patterns must be normalized to an empty list")
	}
}

func TestParseSegmenterChunksClampsOutOfRangeSpan(t *testing.T) {
	actions := sampleActions()
	raw := `<chunks>[{"phase":"wild","startIndex":0,"endIndex":99,"inferredIntent":"overshoot"}]</chunks>`
	chunks, degradation := parseSegmenterChunks(raw, actions)
	if degradation != nil {
		t.Fatalf("unexpected degradation: %+v", degradation)
	}
	if len(chunks[0].Actions) != len(actions) {
		t.Fatalf("expected clamped slice, got %d actions", len(chunks[0].Actions))
	}
}

func TestParseSegmenterChunksMissingBlockDegrades(t *testing.T) {
	chunks, degradation := parseSegmenterChunks("no structured output here", sampleActions())
	if degradation == nil || degradation.Stage != stageSegmenter {
		t.Fatalf("expected segmenter degradation, got %+v", degradation)
	}
	if chunks == nil || len(chunks) != 0 {
		t.Fatalf("expected empty chunk list, got %+v", chunks)
	}
}

func TestParseSegmenterChunksRejectsWrongShape(t *testing.T) {
	raw := `<chunks>[{"phase":"x","startIndex":"zero","endIndex":1,"inferredIntent":"bad type"}]</chunks>`
	chunks, degradation := parseSegmenterChunks(raw, sampleActions())
	if degradation == nil {
		t.Fatal("expected shape rejection")
	}
	if len(chunks) != 0 {
		t.Fatalf("expected empty chunk list, got %+v", chunks)
	}
}

func TestParseSegmenterChunksToleratesCodeFence(t *testing.T) {
	raw := "<chunks>```json\n[{\"phase\":\"fenced\",\"startIndex\":0,\"endIndex\":0,\"inferredIntent\":\"ok\"}]\n```</chunks>"
	chunks, degradation := parseSegmenterChunks(raw, sampleActions())
	if degradation != nil {
		t.Fatalf("unexpected degradation: %+v", degradation)
	}
	if len(chunks) != 1 || chunks[0].Phase != "fenced" {
		t.Fatalf("unexpected chunks: %+v", chunks)
	}
}
