// File: internal/locator/strategies/css_test.go
package strategies

import (
	"context"
	"errors"
	"testing"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/suture-cli/api/schemas"
	"github.com/xkilldash9x/suture-cli/internal/locator"
)

// stubRunner satisfies ActionRunner without a browser. Locate tests can only
// exercise the paths that never reach a live page: anchors that produce no
// query, and transport failures.
type stubRunner struct {
	err error
}

func (r *stubRunner) RunActions(ctx context.Context, actions ...chromedp.Action) error {
	return r.err
}

func TestCSSSelectorFor(t *testing.T) {
	tests := []struct {
		name   string
		anchor schemas.AnchorDescriptor
		want   string
	}{
		{"css anchor is used verbatim", schemas.CSSAnchor("#login > button.primary"), "#login > button.primary"},
		{"aria anchor with role and name", schemas.AriaAnchor("button", "Submit"), `[role="button"][aria-label="Submit"]`},
		{"aria anchor with role only", schemas.AriaAnchor("navigation", ""), `[role="navigation"]`},
		{"text anchor has no css rendering", schemas.TextAnchor("Continue"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cssSelectorFor(tt.anchor))
		})
	}
}

func TestScoreCSSMatch(t *testing.T) {
	tests := []struct {
		name       string
		selector   string
		matchCount int
		visible    bool
		enabled    bool
		want       float64
	}{
		{"unique visible enabled", "#submit", 1, true, true, 0.95},
		{"two matches dilute", "#submit", 2, true, true, 0.80},
		{"four matches dilute further", "#submit", 4, true, true, 0.50},
		{"more than four collapses", "#submit", 5, true, true, 0.45},
		{"bare tag selector penalised", "button", 1, true, true, 0.75},
		{"invisible penalised", "#submit", 1, false, true, 0.70},
		{"disabled penalised", "#submit", 1, true, false, 0.85},
		{"penalties floor at zero", "button", 9, false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreCSSMatch(tt.selector, tt.matchCount, tt.visible, tt.enabled)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCSSLocateSkipsAnchorsWithoutSelector(t *testing.T) {
	s := NewCSSStrategy(zap.NewNop(), &stubRunner{})
	candidates, err := s.Locate(context.Background(), schemas.TextAnchor("Continue"), schemas.ExecRoute{})
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestCSSLocateWrapsRunnerFailure(t *testing.T) {
	s := NewCSSStrategy(zap.NewNop(), &stubRunner{err: errors.New("target crashed")})
	_, err := s.Locate(context.Background(), schemas.CSSAnchor("#submit"), schemas.ExecRoute{})

	require.Error(t, err)
	assert.Equal(t, locator.ErrCodeStrategyFailed, locator.CodeOf(err))
	assert.True(t, locator.IsRetryable(err))
}
