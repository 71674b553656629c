package action

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ParseBatch decodes a capture batch delivered by the extension. Batches arrive in
// capture order with no deduplication guarantee; entries with an unknown type are
// rejected rather than silently reinterpreted.
func ParseBatch(data []byte) ([]Action, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("capture batch is empty")
	}

	var actions []Action
	if err := json.Unmarshal([]byte(trimmed), &actions); err != nil {
		var wrapper struct {
			Actions []Action `json:"actions"`
		}
		if wrapErr := json.Unmarshal([]byte(trimmed), &wrapper); wrapErr != nil || wrapper.Actions == nil {
			return nil, fmt.Errorf("decode capture batch: %w", err)
		}
		actions = wrapper.Actions
	}

	for i, act := range actions {
		switch act.Type {
		case TypeClick, TypeInput, TypeNavigation, TypeCopy, TypeScroll:
		default:
			return nil, fmt.Errorf("capture batch entry %d has unknown type %q", i, act.Type)
		}
	}
	return actions, nil
}

// LoadBatch reads and decodes a capture batch from a JSON file.
func LoadBatch(path string) ([]Action, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBatch(data)
}
