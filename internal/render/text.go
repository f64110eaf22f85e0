package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/pageza/mealwise/internal/model"
)

// WriteText prints a terminal-friendly summary of a result.
func WriteText(w io.Writer, result *model.AnalysisResult) error {
	view := NewResultView(result)
	if view == nil {
		return fmt.Errorf("no result to render")
	}

	var b strings.Builder
	b.WriteString("Nutritional Analysis\n")
	b.WriteString("====================\n")
	fmt.Fprintf(&b, "Total Estimated Calories: %s\n", view.Calories)
	if view.Chart.Empty() {
		fmt.Fprintf(&b, "%s\n", ChartFallback)
	}
	for _, bar := range view.Chart.Bars {
		fmt.Fprintf(&b, "  %-8s %8s  %6s%%\n", bar.Label, bar.Amount(), bar.Width())
	}
	fmt.Fprintf(&b, "\nHealth Summary\n%s\n", view.HealthAnalysis)

	b.WriteString("\nSuggested Recipes\n")
	for i, recipe := range view.Recipes {
		fmt.Fprintf(&b, "\n%d. %s\n   %s\n", i+1, recipe.RecipeName, recipe.Description)
		b.WriteString("   Ingredients:\n")
		for _, item := range recipe.Ingredients {
			fmt.Fprintf(&b, "     - %s\n", item)
		}
		b.WriteString("   Instructions:\n")
		for j, step := range recipe.Instructions {
			fmt.Fprintf(&b, "     %d) %s\n", j+1, step)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
