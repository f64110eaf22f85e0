package render

import (
	"fmt"
	"html/template"

	"github.com/pageza/mealwise/internal/model"
)

// ChartFallback is shown instead of bars when there is nothing to divide.
const ChartFallback = "Not enough data to create a chart."

// Bar is one row of the macronutrient chart.
type Bar struct {
	Label   string
	Color   string
	Grams   float64
	Percent float64
}

// Width is the bar width with two decimals, as used in the style attribute.
func (b Bar) Width() string {
	return fmt.Sprintf("%.2f", b.Percent)
}

// Amount is the gram label shown inside the bar.
func (b Bar) Amount() string {
	return fmt.Sprintf("%.1fg", b.Grams)
}

// Style is built only from our own numbers and colors, so it is safe to mark as CSS.
func (b Bar) Style() template.CSS {
	return template.CSS(fmt.Sprintf("width: %s%%; background-color: %s;", b.Width(), b.Color))
}

// Chart holds the three macro bars, or none when the macro total is not positive.
type Chart struct {
	Bars []Bar
}

// Empty reports whether the fallback message should be rendered.
func (c Chart) Empty() bool {
	return len(c.Bars) == 0
}

// NutritionChart splits protein, carbs and fat into percentage shares of their sum.
func NutritionChart(n model.NutritionEstimate) Chart {
	total := n.MacroTotal()
	if total <= 0 {
		return Chart{}
	}

	return Chart{Bars: []Bar{
		{Label: "Protein", Color: "#3B82F6", Grams: n.Protein, Percent: n.Protein / total * 100},
		{Label: "Carbs", Color: "#F59E0B", Grams: n.Carbs, Percent: n.Carbs / total * 100},
		{Label: "Fat", Color: "#EF4444", Grams: n.Fat, Percent: n.Fat / total * 100},
	}}
}
