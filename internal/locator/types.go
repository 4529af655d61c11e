// File: internal/locator/types.go
package locator

import (
	"sort"

	"github.com/xkilldash9x/suture-cli/api/schemas"
)

// Confidence thresholds. These are fixed constants of the scoring model, not
// tunables: strategies are calibrated against them.
const (
	// HighConfidenceThreshold marks a candidate as unambiguous on its own.
	HighConfidenceThreshold = 0.8
	// AcceptableConfidenceThreshold is the floor below which a best
	// candidate is still treated as element-not-found.
	AcceptableConfidenceThreshold = 0.5
)

// Defaults for HealRequest construction.
const (
	DefaultMaxHealCandidates = 10
	DefaultMinHealConfidence = AcceptableConfidenceThreshold
)

// CandidateMetadata carries descriptive attributes of a matched element.
// Diagnostics only; scoring never reads it.
type CandidateMetadata struct {
	TagName     string `json:"tag_name,omitempty"`
	VisibleText string `json:"visible_text,omitempty"`
	AriaRole    string `json:"aria_role,omitempty"`
	AriaLabel   string `json:"aria_label,omitempty"`
	DomIndex    int    `json:"dom_index"`
	Visible     bool   `json:"visible"`
	Enabled     bool   `json:"enabled"`
}

// Candidate is one concrete, scored match produced by a strategy. Candidates
// are transient: created per resolve call, never persisted.
type Candidate struct {
	ElementID  string                   `json:"element_id"`
	Strategy   schemas.LocatorStrategy  `json:"strategy"`
	Confidence float64                  `json:"confidence"`
	Anchor     schemas.AnchorDescriptor `json:"anchor"`
	Metadata   CandidateMetadata        `json:"metadata"`
}

// NewCandidate builds a candidate with its confidence clamped into [0, 1].
func NewCandidate(elementID string, strategy schemas.LocatorStrategy, confidence float64, anchor schemas.AnchorDescriptor) Candidate {
	return Candidate{
		ElementID:  elementID,
		Strategy:   strategy,
		Confidence: clampConfidence(confidence),
		Anchor:     anchor,
	}
}

// WithMetadata returns a copy of the candidate carrying metadata.
func (c Candidate) WithMetadata(md CandidateMetadata) Candidate {
	c.Metadata = md
	return c
}

// IsHighConfidence reports confidence >= 0.8.
func (c Candidate) IsHighConfidence() bool {
	return c.Confidence >= HighConfidenceThreshold
}

// IsAcceptable reports confidence >= 0.5.
func (c Candidate) IsAcceptable() bool {
	return c.Confidence >= AcceptableConfidenceThreshold
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ResolutionResult is the output of a single resolve call.
type ResolutionResult struct {
	ElementID  string                   `json:"element_id"`
	Strategy   schemas.LocatorStrategy  `json:"strategy"`
	Confidence float64                  `json:"confidence"`
	FromHeal   bool                     `json:"from_heal"`
	Anchor     schemas.AnchorDescriptor `json:"anchor"`
}

// FallbackPlan is the union of every strategy's candidates for one anchor,
// sorted non-increasing by confidence. It is a superset of what any
// single-strategy call would return.
type FallbackPlan struct {
	Primary   schemas.AnchorDescriptor `json:"primary"`
	Fallbacks []Candidate              `json:"fallbacks"`
}

// HasFallbacks reports whether the plan holds at least one candidate.
func (p *FallbackPlan) HasFallbacks() bool { return len(p.Fallbacks) > 0 }

// sortCandidatesByConfidence orders candidates descending by confidence.
// The sort is stable so equal-confidence candidates keep their strategy
// chain ordering, which in turn makes tie-breaking deterministic.
func sortCandidatesByConfidence(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Confidence > cands[j].Confidence
	})
}

// HealRequest parameterizes one self-heal attempt. Caller-constructed per
// attempt; not reused across calls.
type HealRequest struct {
	OriginalAnchor schemas.AnchorDescriptor `json:"original_anchor"`
	Route          schemas.ExecRoute        `json:"route"`
	MaxCandidates  int                      `json:"max_candidates"`
	MinConfidence  float64                  `json:"min_confidence"`
}

// NewHealRequest builds a request with the default candidate budget (10) and
// confidence floor (0.5).
func NewHealRequest(anchor schemas.AnchorDescriptor, route schemas.ExecRoute) HealRequest {
	return HealRequest{
		OriginalAnchor: anchor,
		Route:          route,
		MaxCandidates:  DefaultMaxHealCandidates,
		MinConfidence:  DefaultMinHealConfidence,
	}
}

// WithMaxCandidates returns a copy with the candidate budget replaced.
func (r HealRequest) WithMaxCandidates(n int) HealRequest {
	r.MaxCandidates = n
	return r
}

// WithMinConfidence returns a copy with the confidence floor replaced.
func (r HealRequest) WithMinConfidence(v float64) HealRequest {
	r.MinConfidence = v
	return r
}

// HealStatus discriminates the HealOutcome union.
type HealStatus string

const (
	// HealStatusHealed means a replacement anchor was validated and the
	// original anchor's heal slot is now consumed.
	HealStatusHealed HealStatus = "healed"
	// HealStatusSkipped means the request was rejected by policy before
	// any page work happened.
	HealStatusSkipped HealStatus = "skipped"
	// HealStatusExhausted means no candidate survived filtering, or every
	// surviving candidate failed its probe. The attempt completed, so the
	// anchor's heal slot is consumed just as for Healed.
	HealStatusExhausted HealStatus = "exhausted"
	// HealStatusAborted means the attempt stopped for an internal reason.
	HealStatusAborted HealStatus = "aborted"
)

// HealOutcome reports the result of one heal attempt. Status selects which
// fields are meaningful.
type HealOutcome struct {
	Status HealStatus `json:"status"`
	// UsedAnchor, Confidence and Strategy are set when Status is healed.
	// Confidence and Strategy come from the successful validation resolve,
	// not from the candidate's aggregate plan score.
	UsedAnchor *schemas.AnchorDescriptor `json:"used_anchor,omitempty"`
	Confidence float64                   `json:"confidence,omitempty"`
	Strategy   schemas.LocatorStrategy   `json:"strategy,omitempty"`
	// Reason is set when Status is skipped or aborted.
	Reason string `json:"reason,omitempty"`
	// Tried lists the filtered/truncated candidates that were probed when
	// Status is exhausted.
	Tried []Candidate `json:"tried,omitempty"`
}

// HealedOutcome builds a healed outcome from a successful validation resolve.
func HealedOutcome(used schemas.AnchorDescriptor, res *ResolutionResult) HealOutcome {
	return HealOutcome{
		Status:     HealStatusHealed,
		UsedAnchor: &used,
		Confidence: res.Confidence,
		Strategy:   res.Strategy,
	}
}

// SkippedOutcome builds a policy-rejection outcome.
func SkippedOutcome(reason string) HealOutcome {
	return HealOutcome{Status: HealStatusSkipped, Reason: reason}
}

// ExhaustedOutcome builds an outcome recording the candidates that were tried.
func ExhaustedOutcome(tried []Candidate) HealOutcome {
	return HealOutcome{Status: HealStatusExhausted, Tried: tried}
}

// AbortedOutcome builds an internal-stop outcome.
func AbortedOutcome(reason string) HealOutcome {
	return HealOutcome{Status: HealStatusAborted, Reason: reason}
}
