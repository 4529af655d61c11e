// File: internal/locator/strategies/aria.go
package strategies

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/suture-cli/api/schemas"
	"github.com/xkilldash9x/suture-cli/internal/locator"
)

// AriaStrategy matches elements by ARIA role and accessible name. It sits
// between CSS and text in the chain: markup churn rarely changes an
// element's role, so this is the usual rescue path when a selector rots.
type AriaStrategy struct {
	logger *zap.Logger
	runner ActionRunner
}

var _ locator.Strategy = (*AriaStrategy)(nil)

// NewAriaStrategy builds the ARIA strategy.
func NewAriaStrategy(logger *zap.Logger, runner ActionRunner) *AriaStrategy {
	return &AriaStrategy{logger: logger.Named("strategy.aria"), runner: runner}
}

// Kind implements locator.Strategy.
func (s *AriaStrategy) Kind() schemas.LocatorStrategy { return schemas.StrategyAriaAx }

// Locate collects every element carrying the wanted role and scores each by
// how closely its accessible name matches the anchor. Non-ARIA anchors still
// participate: a text anchor is treated as a name hunt across common
// interactive roles, and a css anchor contributes nothing here.
func (s *AriaStrategy) Locate(ctx context.Context, anchor schemas.AnchorDescriptor, route schemas.ExecRoute) ([]locator.Candidate, error) {
	roles, wantName := ariaQueryFor(anchor)
	if len(roles) == 0 {
		return nil, nil
	}

	var candidates []locator.Candidate
	for _, role := range roles {
		var matches []pageMatch
		if err := evaluate(ctx, s.runner, ariaProbeScript(role), &matches); err != nil {
			return nil, locator.NewStrategyError(schemas.StrategyAriaAx, "probe script failed", err)
		}
		for _, m := range matches {
			conf := scoreNameMatch(wantName, m.Label)
			if conf == 0 {
				continue
			}
			if !m.Visible {
				conf -= 0.25
			}
			if !m.Enabled {
				conf -= 0.1
			}
			if conf <= 0 {
				continue
			}
			candidates = append(candidates, locator.NewCandidate(
				m.Selector, schemas.StrategyAriaAx, conf,
				schemas.AriaAnchor(role, m.Label),
			).WithMetadata(matchMetadata(m)))
		}
	}

	s.logger.Debug("ARIA probe complete.",
		zap.Strings("roles", roles),
		zap.String("name", wantName),
		zap.String("route", route.String()),
		zap.Int("matches", len(candidates)))
	return candidates, nil
}

// interactiveRoles are the roles hunted when the anchor gives no role of its
// own (text anchors).
var interactiveRoles = []string{"button", "link", "textbox", "checkbox", "radio"}

// ariaQueryFor derives the role set and wanted accessible name for an anchor.
func ariaQueryFor(anchor schemas.AnchorDescriptor) (roles []string, name string) {
	switch anchor.Strategy {
	case schemas.StrategyAriaAx:
		if anchor.Role == "" {
			return nil, ""
		}
		return []string{anchor.Role}, anchor.Value
	case schemas.StrategyText:
		return interactiveRoles, anchor.Value
	default:
		return nil, ""
	}
}

// scoreNameMatch grades accessible-name proximity. Exact beats case-folded
// beats prefix beats substring; anything else scores zero. An empty wanted
// name matches any element of the role, weakly.
func scoreNameMatch(want, got string) float64 {
	want = strings.TrimSpace(want)
	got = strings.TrimSpace(got)
	if want == "" {
		return 0.55
	}
	if got == "" {
		return 0
	}
	switch {
	case want == got:
		return 0.9
	case strings.EqualFold(want, got):
		return 0.82
	case strings.HasPrefix(strings.ToLower(got), strings.ToLower(want)):
		return 0.7
	case strings.Contains(strings.ToLower(got), strings.ToLower(want)):
		return 0.6
	}
	return 0
}
