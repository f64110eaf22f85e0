package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/mealwise/internal/model"
)

// MockAnalyzer is a mock implementation of service.Analyzer
type MockAnalyzer struct {
	mock.Mock
}

// Analyze mocks the Analyze method
func (m *MockAnalyzer) Analyze(ctx context.Context, meal string) (*model.AnalysisResult, error) {
	args := m.Called(ctx, meal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalysisResult), args.Error(1)
}

// Configured mocks the Configured method
func (m *MockAnalyzer) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}
