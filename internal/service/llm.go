package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/pageza/mealwise/internal/metrics"
	"github.com/pageza/mealwise/internal/model"
)

// AnalysisConfig configures the Gemini-backed analysis service.
type AnalysisConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// AnalysisService turns a meal description into an AnalysisResult with a single
// schema-constrained generate-content call.
type AnalysisService struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewAnalysisService creates the service. Without an API key the service is still returned so
// the UI can come up, but every Analyze call fails with ErrNotConfigured.
func NewAnalysisService(ctx context.Context, cfg AnalysisConfig, logger *zap.Logger) (*AnalysisService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	svc := &AnalysisService{
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		logger:      logger.Named("analysis"),
	}

	if cfg.APIKey == "" {
		svc.logger.Warn("API key not provided, meal analysis is disabled")
		return svc, nil
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	svc.client = client

	return svc, nil
}

// Configured reports whether an API key was provided.
func (s *AnalysisService) Configured() bool {
	return s.client != nil
}

// Analyze validates the input, performs one AI call and returns the parsed result.
func (s *AnalysisService) Analyze(ctx context.Context, meal string) (*model.AnalysisResult, error) {
	meal = strings.TrimSpace(meal)
	if meal == "" {
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeEmptyInput).Inc()
		return nil, ErrEmptyMeal
	}
	if s.client == nil {
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeNotConfigured).Inc()
		return nil, ErrNotConfigured
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.generate(ctx, meal)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		s.logger.Error("failed to analyze meal", zap.Error(err))
		return nil, err
	}

	result, err := ParseResult(text)
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, ErrIncompleteResult) {
			outcome = metrics.OutcomeIncomplete
		}
		metrics.AnalysesTotal.WithLabelValues(outcome).Inc()
		s.logger.Error("failed to read analysis", zap.Error(err), zap.Int("response_len", len(text)))
		return nil, err
	}

	metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.logger.Info("meal analyzed",
		zap.Int("input_len", len(meal)),
		zap.Int("recipes", len(result.SuggestedRecipes)),
	)
	return result, nil
}

func (s *AnalysisService) generate(ctx context.Context, meal string) (string, error) {
	start := time.Now()
	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(BuildPrompt(meal)), GenerationConfig(s.temperature))

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.AICallDuration.WithLabelValues(s.model, status).Observe(time.Since(start).Seconds())

	if err != nil {
		return "", fmt.Errorf("failed to generate analysis: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("no response from API")
	}

	s.logger.Debug("generate-content finished", zap.Duration("duration", time.Since(start)))
	return resp.Text(), nil
}
