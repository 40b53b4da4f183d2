package service

import (
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// exerciseSetSchema describes the envelope the provider is asked for
const exerciseSetSchema = `{
  "type": "object",
  "required": ["exercises"],
  "properties": {
    "exercises": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["question", "options", "correctAnswer", "explanation"],
        "properties": {
          "question": {"type": "string", "minLength": 1},
          "options": {
            "type": "array",
            "minItems": 4,
            "maxItems": 4,
            "items": {"type": "string"}
          },
          "correctAnswer": {"type": "integer", "minimum": 0, "maximum": 3},
          "explanation": {"type": "string"}
        }
      }
    }
  }
}`

var exerciseSchemaLoader = gojsonschema.NewStringLoader(exerciseSetSchema)

// ValidateExerciseSet checks a parsed payload against the exercise envelope.
// It returns the list of violations, empty when the payload conforms.
func ValidateExerciseSet(body json.RawMessage) ([]string, error) {
	result, err := gojsonschema.Validate(exerciseSchemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		return nil, nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		violations = append(violations, strings.TrimSpace(e.String()))
	}
	return violations, nil
}
