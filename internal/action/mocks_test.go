// File: internal/action/mocks_test.go
package action

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/suture-cli/api/schemas"
	"github.com/xkilldash9x/suture-cli/internal/locator"
)

// MockElementResolver mocks locator.ElementResolver.
type MockElementResolver struct {
	mock.Mock
}

func (m *MockElementResolver) Resolve(ctx context.Context, anchor schemas.AnchorDescriptor, route schemas.ExecRoute) (*locator.ResolutionResult, error) {
	args := m.Called(ctx, anchor, route)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*locator.ResolutionResult), args.Error(1)
}

func (m *MockElementResolver) GenerateFallbackPlan(ctx context.Context, anchor schemas.AnchorDescriptor, route schemas.ExecRoute) (*locator.FallbackPlan, error) {
	args := m.Called(ctx, anchor, route)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*locator.FallbackPlan), args.Error(1)
}

func (m *MockElementResolver) ResolveWithStrategy(ctx context.Context, anchor schemas.AnchorDescriptor, route schemas.ExecRoute, strategy schemas.LocatorStrategy) ([]locator.Candidate, error) {
	args := m.Called(ctx, anchor, route, strategy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]locator.Candidate), args.Error(1)
}

// MockSelfHealer mocks locator.SelfHealer.
type MockSelfHealer struct {
	mock.Mock
}

func (m *MockSelfHealer) Heal(ctx context.Context, req locator.HealRequest) (locator.HealOutcome, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(locator.HealOutcome), args.Error(1)
}

func (m *MockSelfHealer) IsHealAvailable(anchor schemas.AnchorDescriptor) bool {
	args := m.Called(anchor)
	return args.Bool(0)
}

func (m *MockSelfHealer) MarkHealed(anchor schemas.AnchorDescriptor) {
	m.Called(anchor)
}

func (m *MockSelfHealer) Reset() {
	m.Called()
}

// MockScriptResolver mocks the ScriptResolver boundary.
type MockScriptResolver struct {
	mock.Mock
}

func (m *MockScriptResolver) BuildSelector(ctx context.Context, prim schemas.PagePrimitives, anchor schemas.AnchorDescriptor) (string, error) {
	args := m.Called(ctx, prim, anchor)
	return args.String(0), args.Error(1)
}

// MockPagePrimitives mocks schemas.PagePrimitives.
type MockPagePrimitives struct {
	mock.Mock
}

func (m *MockPagePrimitives) EvaluateScript(ctx context.Context, expression string, out any) error {
	args := m.Called(ctx, expression, out)
	return args.Error(0)
}
