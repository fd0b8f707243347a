// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// planSchema is the JSON schema every plan payload must satisfy before it
// is decoded: a description, a sequence of steps, and a kind plus a details
// object on every step.
const planSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["description", "steps"],
  "properties": {
    "description": { "type": "string", "minLength": 1 },
    "steps": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["kind", "details"],
        "properties": {
          "kind": { "type": "string", "minLength": 1 },
          "description": { "type": "string" },
          "details": { "type": "object" }
        }
      }
    }
  }
}`

// validatePlanPayload validates a raw plan document against planSchema.
func validatePlanPayload(payload []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(planSchema)
	documentLoader := gojsonschema.NewBytesLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		msg := "plan payload is not structurally valid:"
		for _, desc := range result.Errors() {
			msg += fmt.Sprintf(" %s;", desc)
		}
		return fmt.Errorf("%s", msg)
	}

	return nil
}
