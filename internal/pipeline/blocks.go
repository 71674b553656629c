package pipeline

import "strings"

// extractBlock pulls the contents of the first <name>...</name> pair out of a model
// response. First-match delimiter search, deliberately not an XML parser: models wrap
// blocks in prose, code fences, and stray tags.
func extractBlock(text, name string) (string, bool) {
	open := "<" + name + ">"
	closing := "</" + name + ">"
	start := strings.Index(text, open)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(open):]
	end := strings.Index(rest, closing)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// stripCodeFence removes a surrounding markdown code fence if present, since models
// frequently fence JSON payloads even when told not to.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
