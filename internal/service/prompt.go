package service

import (
	"fmt"

	"google.golang.org/genai"
)

const analysisPromptTemplate = `
Analyze the nutritional content for the following meal or list of ingredients: "%s".
Provide estimated nutritional information (calories, protein, carbs, fat).
Also give a brief health analysis.
Then suggest 2–3 healthy recipes based on this input.
Return the result as a valid JSON object, following this schema exactly: no text before or after the JSON.
`

// BuildPrompt interpolates the meal description into the analysis instructions.
func BuildPrompt(meal string) string {
	return fmt.Sprintf(analysisPromptTemplate, meal)
}

// RecipeSchema constrains a single suggested recipe.
func RecipeSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"recipeName": {
				Type:        genai.TypeString,
				Description: "The name of the recipe.",
			},
			"description": {
				Type:        genai.TypeString,
				Description: "A short, enticing description of the recipe.",
			},
			"ingredients": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "A list of ingredients with quantities.",
			},
			"instructions": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Step-by-step cooking instructions.",
			},
		},
		Required: []string{"recipeName", "description", "ingredients", "instructions"},
	}
}

// AnalysisSchema is the response schema sent with every analysis request.
func AnalysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"estimatedNutrition": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"calories": {Type: genai.TypeNumber},
					"protein":  {Type: genai.TypeNumber},
					"carbs":    {Type: genai.TypeNumber},
					"fat":      {Type: genai.TypeNumber},
				},
				Required: []string{"calories", "protein", "carbs", "fat"},
			},
			"healthAnalysis": {Type: genai.TypeString},
			"suggestedRecipes": {
				Type:  genai.TypeArray,
				Items: RecipeSchema(),
			},
		},
		Required: []string{"estimatedNutrition", "healthAnalysis", "suggestedRecipes"},
	}
}

// GenerationConfig builds the per-request config for a schema-constrained JSON answer.
func GenerationConfig(temperature float32) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   AnalysisSchema(),
		Temperature:      genai.Ptr(temperature),
	}
}
