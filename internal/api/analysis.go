package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/mealwise/internal/metrics"
	"github.com/pageza/mealwise/internal/middleware"
	"github.com/pageza/mealwise/internal/model"
	"github.com/pageza/mealwise/internal/render"
	"github.com/pageza/mealwise/internal/service"
)

// MsgRateLimited is shown in the page when the form is posted too often.
const MsgRateLimited = "Too many requests. Please wait a moment and try again."

// mealKey holds the validated meal description in the gin context.
const mealKey = "meal"

// AnalysisResponse is the JSON body of POST /api/v1/analyze.
type AnalysisResponse struct {
	Result *model.AnalysisResult `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// AnalysisHandler serves the analyzer page and the JSON API.
type AnalysisHandler struct {
	analyzer service.Analyzer
	limiter  middleware.Limiter
	logger   *zap.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler instance. limiter may be nil to disable rate limiting.
func NewAnalysisHandler(analyzer service.Analyzer, limiter middleware.Limiter, logger *zap.Logger) *AnalysisHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisHandler{
		analyzer: analyzer,
		limiter:  limiter,
		logger:   logger,
	}
}

// RegisterRoutes registers the page and API routes. The engine must have the render templates
// installed with SetHTMLTemplate.
func (h *AnalysisHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/", h.Index)
	// Blank input is rejected before the limiter so it never costs a token.
	router.POST("/analyze", h.requireFormMeal, h.limit(h.rateLimitedPage), h.AnalyzeForm)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/analyze", h.requireJSONMeal, h.limit(middleware.RateLimitJSON), h.AnalyzeJSON)
	}
}

// requireFormMeal answers blank form posts with the prompt message and stores the meal otherwise.
func (h *AnalysisHandler) requireFormMeal(c *gin.Context) {
	meal := c.PostForm("meal")
	if strings.TrimSpace(meal) == "" {
		h.rejectEmpty(c)
		h.page(c, http.StatusBadRequest, render.PageData{Meal: meal, Error: service.MsgEmptyMeal})
		c.Abort()
		return
	}
	c.Set(mealKey, meal)
	c.Next()
}

// requireJSONMeal binds the API request once, rejects blank meals and stores the meal otherwise.
func (h *AnalysisHandler) requireJSONMeal(c *gin.Context) {
	var req model.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, AnalysisResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Meal) == "" {
		h.rejectEmpty(c)
		c.AbortWithStatusJSON(http.StatusBadRequest, AnalysisResponse{Error: service.MsgEmptyMeal})
		return
	}
	c.Set(mealKey, req.Meal)
	c.Next()
}

func (h *AnalysisHandler) rejectEmpty(c *gin.Context) {
	metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeEmptyInput).Inc()
	h.logger.Debug("analysis rejected", zap.Error(service.ErrEmptyMeal), zap.String("request_id", middleware.RequestID(c)))
}

func (h *AnalysisHandler) limit(onLimit middleware.RateLimitHandler) gin.HandlerFunc {
	if h.limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimitMiddleware(h.limiter, h.logger, onLimit)
}

// Index renders the empty form.
func (h *AnalysisHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, render.PageTemplate, render.PageData{})
}

// AnalyzeForm handles the form post and renders the page, or only the results container
// when the request carries HX-Request. It runs after requireFormMeal.
func (h *AnalysisHandler) AnalyzeForm(c *gin.Context) {
	meal := c.GetString(mealKey)
	data := render.PageData{Meal: meal}

	result, err := h.analyzer.Analyze(c.Request.Context(), meal)
	status := http.StatusOK
	if err != nil {
		status = h.failure(c, err)
		data.Error = service.UserMessage(err)
	} else {
		data.Result = render.NewResultView(result)
	}

	h.page(c, status, data)
}

// AnalyzeJSON handles POST /api/v1/analyze. It runs after requireJSONMeal.
func (h *AnalysisHandler) AnalyzeJSON(c *gin.Context) {
	result, err := h.analyzer.Analyze(c.Request.Context(), c.GetString(mealKey))
	if err != nil {
		status := h.failure(c, err)
		c.JSON(status, AnalysisResponse{Error: service.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, AnalysisResponse{Result: result})
}

func (h *AnalysisHandler) rateLimitedPage(c *gin.Context, _ middleware.RateLimitConfig, _ middleware.Decision) {
	h.page(c, http.StatusTooManyRequests, render.PageData{Meal: c.GetString(mealKey), Error: MsgRateLimited})
	c.Abort()
}

func (h *AnalysisHandler) page(c *gin.Context, status int, data render.PageData) {
	if c.GetHeader("HX-Request") != "" {
		c.HTML(status, render.ContainerTemplate, data)
		return
	}
	c.HTML(status, render.PageTemplate, data)
}

// failure logs err and returns the status code it maps to.
func (h *AnalysisHandler) failure(c *gin.Context, err error) int {
	status := StatusForError(err)
	fields := []zap.Field{zap.Error(err), zap.Int("status", status), zap.String("request_id", middleware.RequestID(c))}
	if status == http.StatusBadRequest {
		h.logger.Debug("analysis rejected", fields...)
	} else {
		h.logger.Warn("analysis failed", fields...)
	}
	_ = c.Error(err)
	return status
}

// StatusForError maps an analysis error to an HTTP status code.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyMeal):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
