package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Stage responses are validated structurally only: the shape of the returned data,
// never its meaning. Contiguity/coverage of chunks is deliberately not re-checked
// against the deterministic pre-chunks.

const chunksSchemaJSON = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["phase", "startIndex", "endIndex", "inferredIntent"],
		"properties": {
			"phase": {"type": "string"},
			"startIndex": {"type": "integer", "minimum": 0},
			"endIndex": {"type": "integer", "minimum": 0},
			"inferredIntent": {"type": "string"},
			"patterns": {"type": "array", "items": {"type": "string"}}
		}
	}
}`

const knowHowSchemaJSON = `{
	"type": "object",
	"properties": {
		"decisionCriteria": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["situation", "criterion"],
				"properties": {
					"situation": {"type": "string"},
					"criterion": {"type": "string"},
					"sourcePattern": {"type": "string"},
					"confidence": {"type": "number"}
				}
			}
		},
		"successSignals": {"type": "array", "items": {"type": "string"}},
		"failureSignals": {"type": "array", "items": {"type": "string"}},
		"criticalFields": {"type": "array", "items": {"type": "string"}},
		"cornerCases": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["situation", "resolution"],
				"properties": {
					"situation": {"type": "string"},
					"resolution": {"type": "string"},
					"sourceEvidence": {"type": "string"}
				}
			}
		},
		"expertShortcuts": {"type": "array", "items": {"type": "string"}}
	}
}`

var (
	chunksSchema  = jsonschema.MustCompileString("chunks.schema.json", chunksSchemaJSON)
	knowHowSchema = jsonschema.MustCompileString("know_how.schema.json", knowHowSchemaJSON)
)

func validateShape(schema *jsonschema.Schema, raw []byte) error {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("payload is not valid JSON: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("payload shape rejected: %w", err)
	}
	return nil
}
