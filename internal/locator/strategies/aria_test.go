// File: internal/locator/strategies/aria_test.go
package strategies

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/suture-cli/api/schemas"
	"github.com/xkilldash9x/suture-cli/internal/locator"
)

func TestAriaQueryFor(t *testing.T) {
	tests := []struct {
		name      string
		anchor    schemas.AnchorDescriptor
		wantRoles []string
		wantName  string
	}{
		{"aria anchor queries its own role", schemas.AriaAnchor("button", "Submit"), []string{"button"}, "Submit"},
		{"aria anchor without role queries nothing", schemas.AnchorDescriptor{Strategy: schemas.StrategyAriaAx, Value: "Submit"}, nil, ""},
		{"text anchor hunts interactive roles", schemas.TextAnchor("Sign in"), interactiveRoles, "Sign in"},
		{"css anchor contributes nothing", schemas.CSSAnchor("#submit"), nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles, name := ariaQueryFor(tt.anchor)
			assert.Equal(t, tt.wantRoles, roles)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestScoreNameMatch(t *testing.T) {
	tests := []struct {
		name string
		want string
		got  string
		conf float64
	}{
		{"exact match", "Submit", "Submit", 0.9},
		{"case folded match", "submit", "Submit", 0.82},
		{"prefix match", "Sub", "Submit order", 0.7},
		{"substring match", "order", "Submit order", 0.6},
		{"no relation", "Cancel", "Submit", 0},
		{"empty wanted name matches weakly", "", "Submit", 0.55},
		{"empty accessible name never matches", "Submit", "", 0},
		{"surrounding whitespace ignored", " Submit ", "Submit", 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.conf, scoreNameMatch(tt.want, tt.got), 1e-9)
		})
	}
}

func TestAriaLocateSkipsCSSAnchors(t *testing.T) {
	s := NewAriaStrategy(zap.NewNop(), &stubRunner{})
	candidates, err := s.Locate(context.Background(), schemas.CSSAnchor("#submit"), schemas.ExecRoute{})
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestAriaLocateWrapsRunnerFailure(t *testing.T) {
	s := NewAriaStrategy(zap.NewNop(), &stubRunner{err: errors.New("target crashed")})
	_, err := s.Locate(context.Background(), schemas.AriaAnchor("button", "Submit"), schemas.ExecRoute{})

	require.Error(t, err)
	assert.Equal(t, locator.ErrCodeStrategyFailed, locator.CodeOf(err))
}
