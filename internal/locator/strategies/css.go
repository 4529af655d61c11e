// File: internal/locator/strategies/css.go
package strategies

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/suture-cli/api/schemas"
	"github.com/xkilldash9x/suture-cli/internal/locator"
)

// CSSStrategy probes the page with document.querySelectorAll. It fills the
// first slot of the fallback chain: fast, precise, and the only strategy
// that can use the anchor's selector verbatim.
type CSSStrategy struct {
	logger *zap.Logger
	runner ActionRunner
}

var _ locator.Strategy = (*CSSStrategy)(nil)

// NewCSSStrategy builds the CSS strategy.
func NewCSSStrategy(logger *zap.Logger, runner ActionRunner) *CSSStrategy {
	return &CSSStrategy{logger: logger.Named("strategy.css"), runner: runner}
}

// Kind implements locator.Strategy.
func (s *CSSStrategy) Kind() schemas.LocatorStrategy { return schemas.StrategyCss }

// Locate runs the probe script for the anchor's selector. For non-CSS
// anchors it derives a best-effort selector (aria attribute selector);
// text anchors have no CSS rendering and return no candidates.
func (s *CSSStrategy) Locate(ctx context.Context, anchor schemas.AnchorDescriptor, route schemas.ExecRoute) ([]locator.Candidate, error) {
	selector := cssSelectorFor(anchor)
	if selector == "" {
		return nil, nil
	}

	var matches []pageMatch
	if err := evaluate(ctx, s.runner, cssProbeScript(selector), &matches); err != nil {
		return nil, locator.NewStrategyError(schemas.StrategyCss, "probe script failed", err)
	}

	candidates := make([]locator.Candidate, 0, len(matches))
	for _, m := range matches {
		conf := scoreCSSMatch(selector, len(matches), m.Visible, m.Enabled)
		candidates = append(candidates, locator.NewCandidate(
			m.Selector, schemas.StrategyCss, conf, schemas.CSSAnchor(m.Selector),
		).WithMetadata(matchMetadata(m)))
	}
	s.logger.Debug("CSS probe complete.",
		zap.String("selector", selector),
		zap.String("route", route.String()),
		zap.Int("matches", len(candidates)))
	return candidates, nil
}

// cssSelectorFor renders the anchor as a CSS selector where one exists.
func cssSelectorFor(anchor schemas.AnchorDescriptor) string {
	switch anchor.Strategy {
	case schemas.StrategyCss:
		return anchor.Value
	case schemas.StrategyAriaAx:
		// Attribute selector approximation; the AX strategy does the real
		// role matching.
		if anchor.Role != "" && anchor.Value != "" {
			return `[role="` + anchor.Role + `"][aria-label="` + anchor.Value + `"]`
		}
		if anchor.Role != "" {
			return `[role="` + anchor.Role + `"]`
		}
		return ""
	default:
		return ""
	}
}

// scoreCSSMatch computes the confidence for one match of a selector probe.
// A unique, visible, enabled match of a specific selector scores highest;
// every additional sibling match dilutes confidence because the selector no
// longer identifies a single element.
func scoreCSSMatch(selector string, matchCount int, visible, enabled bool) float64 {
	conf := 0.95
	switch {
	case matchCount > 4:
		conf = 0.45
	case matchCount > 1:
		conf = 0.95 - 0.15*float64(matchCount-1)
	}
	// Bare tag selectors are weak evidence even when unique.
	if !strings.ContainsAny(selector, "#.[>:") {
		conf -= 0.2
	}
	if !visible {
		conf -= 0.25
	}
	if !enabled {
		conf -= 0.1
	}
	if conf < 0 {
		conf = 0
	}
	return conf
}

func matchMetadata(m pageMatch) locator.CandidateMetadata {
	return locator.CandidateMetadata{
		TagName:     m.Tag,
		VisibleText: m.Text,
		AriaRole:    m.Role,
		AriaLabel:   m.Label,
		DomIndex:    m.DomIndex,
		Visible:     m.Visible,
		Enabled:     m.Enabled,
	}
}
