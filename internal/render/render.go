// Package render turns analysis results into HTML. All free text goes through html/template
// contextual escaping; nothing from the user or the AI service is inserted as raw markup.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/pageza/mealwise/internal/model"
)

// Template names understood by Renderer and by gin's HTML renderer.
const (
	PageTemplate      = "page.html"
	ContainerTemplate = "results_container"
	ResultsTemplate   = "results"
	ErrorTemplate     = "error_alert"
	SpinnerTemplate   = "spinner"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData is the view model for the page and for the results container fragment.
type PageData struct {
	Meal   string
	Result *ResultView
	Error  string
}

// ResultView is an AnalysisResult prepared for the templates.
type ResultView struct {
	HealthAnalysis string
	Chart          Chart
	Calories       string
	Recipes        []model.Recipe
}

// NewResultView derives the chart and the rounded calorie label from a result.
func NewResultView(result *model.AnalysisResult) *ResultView {
	if result == nil {
		return nil
	}

	var nutrition model.NutritionEstimate
	if result.EstimatedNutrition != nil {
		nutrition = *result.EstimatedNutrition
	}

	return &ResultView{
		HealthAnalysis: result.HealthAnalysis,
		Chart:          NutritionChart(nutrition),
		Calories:       fmt.Sprintf("%.0f", nutrition.Calories),
		Recipes:        result.SuggestedRecipes,
	}
}

// ParseTemplates parses the embedded templates.
func ParseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").
		Funcs(template.FuncMap{"chartFallback": func() string { return ChartFallback }}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// Renderer executes the page templates.
type Renderer struct {
	tmpl *template.Template
}

// New creates a Renderer from the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := ParseTemplates()
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Template exposes the parsed set, e.g. for gin's SetHTMLTemplate.
func (r *Renderer) Template() *template.Template {
	return r.tmpl
}

// Page writes the full document.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	return r.tmpl.ExecuteTemplate(w, PageTemplate, data)
}

// Results renders the results fragment for one analysis.
func (r *Renderer) Results(result *model.AnalysisResult) (template.HTML, error) {
	return r.fragment(ResultsTemplate, NewResultView(result))
}

// Error renders the error alert fragment.
func (r *Renderer) Error(message string) (template.HTML, error) {
	return r.fragment(ErrorTemplate, message)
}

// Spinner renders the loading indicator fragment.
func (r *Renderer) Spinner() (template.HTML, error) {
	return r.fragment(SpinnerTemplate, nil)
}

func (r *Renderer) fragment(name string, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	// Output of html/template is already escaped.
	return template.HTML(buf.String()), nil
}
