package service

import (
	"context"

	"github.com/pageza/mealwise/internal/model"
)

// Analyzer is the contract the HTTP handlers and the CLI depend on.
type Analyzer interface {
	Analyze(ctx context.Context, meal string) (*model.AnalysisResult, error)
	Configured() bool
}

var _ Analyzer = (*AnalysisService)(nil)
