// Package testutil provides centralized test mocks, fixtures, and helpers.
// All test files should import mocks from here instead of defining their own.
package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/runixer/rhetoric/internal/analysis"
	"github.com/runixer/rhetoric/internal/files"
)

// MockAnalyzer implements analysis.Analyzer for tests.
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, file files.SelectedFile) (*analysis.Result, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.Result), args.Error(1)
}

var _ analysis.Analyzer = (*MockAnalyzer)(nil)

// AnalyzerFunc adapts a function to analysis.Analyzer.
// Handy when a test needs to observe state while the call is in flight.
type AnalyzerFunc func(ctx context.Context, file files.SelectedFile) (*analysis.Result, error)

func (f AnalyzerFunc) Analyze(ctx context.Context, file files.SelectedFile) (*analysis.Result, error) {
	return f(ctx, file)
}
