package model

// Recipe is a single suggestion returned by the AI service.
type Recipe struct {
	RecipeName   string   `json:"recipeName"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}
