// File: internal/locator/mocks_test.go
package locator

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/suture-cli/api/schemas"
)

// -- Strategy Mock --

// MockStrategy mocks the Strategy interface.
type MockStrategy struct {
	mock.Mock
	kind schemas.LocatorStrategy
}

func newMockStrategy(kind schemas.LocatorStrategy) *MockStrategy {
	return &MockStrategy{kind: kind}
}

func (m *MockStrategy) Kind() schemas.LocatorStrategy { return m.kind }

func (m *MockStrategy) Locate(ctx context.Context, anchor schemas.AnchorDescriptor, route schemas.ExecRoute) ([]Candidate, error) {
	args := m.Called(ctx, anchor, route)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Candidate), args.Error(1)
}

// -- ElementResolver Mock --

// MockElementResolver mocks the ElementResolver interface for healer tests.
type MockElementResolver struct {
	mock.Mock
}

func (m *MockElementResolver) Resolve(ctx context.Context, anchor schemas.AnchorDescriptor, route schemas.ExecRoute) (*ResolutionResult, error) {
	args := m.Called(ctx, anchor, route)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ResolutionResult), args.Error(1)
}

func (m *MockElementResolver) GenerateFallbackPlan(ctx context.Context, anchor schemas.AnchorDescriptor, route schemas.ExecRoute) (*FallbackPlan, error) {
	args := m.Called(ctx, anchor, route)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FallbackPlan), args.Error(1)
}

func (m *MockElementResolver) ResolveWithStrategy(ctx context.Context, anchor schemas.AnchorDescriptor, route schemas.ExecRoute, strategy schemas.LocatorStrategy) ([]Candidate, error) {
	args := m.Called(ctx, anchor, route, strategy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Candidate), args.Error(1)
}
