// File: api/schemas/anchors.go
package schemas

import "fmt"

// LocatorStrategy identifies one matching technique for turning an anchor
// into concrete page elements.
type LocatorStrategy string

const (
	// StrategyCss matches by CSS selector. Fast and precise.
	StrategyCss LocatorStrategy = "css"
	// StrategyAriaAx matches by ARIA role and accessible name.
	StrategyAriaAx LocatorStrategy = "aria"
	// StrategyText matches by visible text content. Weakest and most
	// ambiguous, which is why it sits last in the chain.
	StrategyText LocatorStrategy = "text"
)

// FallbackChain returns the fixed, total try-order for resolution:
// Css -> AriaAx -> Text. The order is a global constant of the system and
// is not configurable per call.
func FallbackChain() []LocatorStrategy {
	return []LocatorStrategy{StrategyCss, StrategyAriaAx, StrategyText}
}

// Valid reports whether s is one of the known strategy variants.
func (s LocatorStrategy) Valid() bool {
	switch s {
	case StrategyCss, StrategyAriaAx, StrategyText:
		return true
	}
	return false
}

// AnchorDescriptor is a logical descriptor of a target element, independent
// of whether it currently matches anything on the live page. It is a tagged
// value: the Strategy field selects which of the payload fields is meaningful.
type AnchorDescriptor struct {
	// Strategy tags the descriptor kind.
	Strategy LocatorStrategy `json:"strategy"`
	// Value holds the css selector, the accessible name, or the text
	// content, depending on Strategy.
	Value string `json:"value"`
	// Role is the ARIA role. Only meaningful when Strategy == StrategyAriaAx.
	Role string `json:"role,omitempty"`
}

// CSSAnchor builds an anchor addressed by CSS selector.
func CSSAnchor(selector string) AnchorDescriptor {
	return AnchorDescriptor{Strategy: StrategyCss, Value: selector}
}

// AriaAnchor builds an anchor addressed by ARIA role + accessible name.
func AriaAnchor(role, name string) AnchorDescriptor {
	return AnchorDescriptor{Strategy: StrategyAriaAx, Role: role, Value: name}
}

// TextAnchor builds an anchor addressed by visible text content.
func TextAnchor(text string) AnchorDescriptor {
	return AnchorDescriptor{Strategy: StrategyText, Value: text}
}

// Key renders the canonical string key for the anchor (strategy tag plus
// value). Two structurally identical anchors always produce the same key,
// even when constructed independently. The healed-anchor set is keyed on
// this rendering.
func (a AnchorDescriptor) Key() string {
	if a.Strategy == StrategyAriaAx {
		return fmt.Sprintf("%s:%s/%s", a.Strategy, a.Role, a.Value)
	}
	return fmt.Sprintf("%s:%s", a.Strategy, a.Value)
}

// String implements fmt.Stringer using the canonical key rendering.
func (a AnchorDescriptor) String() string { return a.Key() }

// IsZero reports whether the descriptor carries no addressing information.
func (a AnchorDescriptor) IsZero() bool {
	return a.Value == "" && a.Role == ""
}
