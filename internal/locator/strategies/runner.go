// File: internal/locator/strategies/runner.go

// Package strategies holds the concrete matching techniques behind the
// locator chain: CSS selector probing, ARIA role/name matching, and visible
// text matching. Each strategy drives the page through an ActionRunner and
// is the only place in the locator stack that performs browser I/O.
package strategies

import (
	"context"

	"github.com/chromedp/chromedp"
)

// ActionRunner executes browser actions within an operational context,
// abstracting the underlying chromedp session. The implementation is
// responsible for combining the operational context with the long-lived
// session context so actions carry the CDP connection information.
type ActionRunner interface {
	RunActions(ctx context.Context, actions ...chromedp.Action) error
}

// evaluate runs a JS expression and unmarshals its JSON result into out.
func evaluate(ctx context.Context, runner ActionRunner, expression string, out any) error {
	return runner.RunActions(ctx, chromedp.Evaluate(expression, out))
}

// pageMatch is the wire shape each injected probe script returns per element.
type pageMatch struct {
	Selector string `json:"selector"`
	Tag      string `json:"tag"`
	Text     string `json:"text"`
	Role     string `json:"role"`
	Label    string `json:"label"`
	DomIndex int    `json:"domIndex"`
	Visible  bool   `json:"visible"`
	Enabled  bool   `json:"enabled"`
}
