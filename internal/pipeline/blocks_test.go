package pipeline

import "testing"

func TestExtractBlockFirstMatchWins(t *testing.T) {
	text := "prose <chunks>[1]</chunks> more <chunks>[2]</chunks>"
	body, ok := extractBlock(text, "chunks")
	if !ok || body != "[1]" {
		t.Fatalf("unexpected extraction: %q ok=%v", body, ok)
	}
}

func TestExtractBlockMissingTag(t *testing.T) {
	if _, ok := extractBlock("<chunks>[1]", "chunks"); ok {
		t.Fatal("unterminated block must not match")
	}
	if _, ok := extractBlock("no blocks at all", "chunks"); ok {
		t.Fatal("absent block must not match")
	}
}

func TestStripCodeFence(t *testing.T) {
	fenced := "```json\n{\"a\":1}\n```"
	if got := stripCodeFence(fenced); got != `{"a":1}` {
		t.Fatalf("unexpected strip result: %q", got)
	}
	if got := stripCodeFence(`{"a":1}`); got != `{"a":1}` {
		t.Fatalf("unfenced text must pass through: %q", got)
	}
}
