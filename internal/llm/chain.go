package llm

import (
	"fmt"
	"log"
	"strings"
)

// modelChain builds the ordered attempt list: the preferred model first, then the
// fallback chain with the preferred model deduplicated out.
func modelChain(preferred string, fallback []string) []string {
	chain := []string{}
	seen := map[string]bool{}
	for _, model := range append([]string{preferred}, fallback...) {
		model = strings.TrimSpace(model)
		if model == "" || seen[model] {
			continue
		}
		seen[model] = true
		chain = append(chain, model)
	}
	return chain
}

// ModelAttempt records one failed model attempt.
type ModelAttempt struct {
	Model string
	Err   error
}

// ChainError aggregates the failure of every model in the attempt list.
type ChainError struct {
	Attempts []ModelAttempt
}

func (e *ChainError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, attempt := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", attempt.Model, attempt.Err))
	}
	return fmt.Sprintf("all %d models failed: %s", len(e.Attempts), strings.Join(parts, "; "))
}

// runChain tries each model in order. First success wins; a failed model is recorded
// and the next one is tried immediately, with no backoff and no same-model retry.
func runChain(models []string, try func(model string) (string, error)) (string, error) {
	if len(models) == 0 {
		return "", fmt.Errorf("no models configured")
	}
	var attempts []ModelAttempt
	for _, model := range models {
		text, err := try(model)
		if err == nil {
			return text, nil
		}
		log.Printf("[llm] model %s failed: %v", model, err)
		attempts = append(attempts, ModelAttempt{Model: model, Err: err})
	}
	return "", &ChainError{Attempts: attempts}
}
