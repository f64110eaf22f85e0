package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/pageza/mealwise/internal/model"
)

// resultSchema only checks that the two fields the renderer cannot do without are present.
// Field types inside them and numeric ranges are left to the AI service's own schema.
const resultSchema = `{
	"type": "object",
	"required": ["estimatedNutrition", "suggestedRecipes"],
	"properties": {
		"estimatedNutrition": {"type": "object"},
		"suggestedRecipes": {"type": "array"}
	}
}`

var resultSchemaLoader = gojsonschema.NewStringLoader(resultSchema)

// ValidateResult checks a decoded JSON document against resultSchema.
func ValidateResult(doc interface{}) error {
	result, err := gojsonschema.Validate(resultSchemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to validate analysis: %w", err)
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrIncompleteResult, strings.Join(details, "; "))
}

// ParseResult decodes the AI response text into an AnalysisResult.
func ParseResult(text string) (*model.AnalysisResult, error) {
	raw := []byte(strings.TrimSpace(text))

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}
	if err := ValidateResult(doc); err != nil {
		return nil, err
	}

	var result model.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	return &result, nil
}
