package model

// NutritionEstimate is the AI's macro estimate for a whole meal. Values are taken as returned;
// units are kcal for calories and grams for the rest.
type NutritionEstimate struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// MacroTotal is the sum of protein, carbs and fat in grams.
func (n NutritionEstimate) MacroTotal() float64 {
	return n.Protein + n.Carbs + n.Fat
}
