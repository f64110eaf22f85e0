package model

// AnalysisRequest carries the free-text meal description submitted by the user.
type AnalysisRequest struct {
	Meal string `json:"meal" form:"meal"`
}

// AnalysisResult is the structured answer for one meal. It lives only for the request that
// produced it.
type AnalysisResult struct {
	EstimatedNutrition *NutritionEstimate `json:"estimatedNutrition"`
	HealthAnalysis     string             `json:"healthAnalysis"`
	SuggestedRecipes   []Recipe           `json:"suggestedRecipes"`
}
