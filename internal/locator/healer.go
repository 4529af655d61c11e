// File: internal/locator/healer.go
package locator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/xkilldash9x/suture-cli/api/schemas"
)

// SelfHealer searches for, validates and substitutes a replacement anchor
// when the original no longer resolves. Each anchor gets exactly one heal
// attempt per healer instance: any completed attempt consumes the slot,
// whether it substitutes or exhausts its candidates. Only a hard failure
// during plan generation leaves the slot intact.
type SelfHealer interface {
	// Heal runs one heal attempt. The error return is reserved for hard
	// resolver I/O failures during plan generation; policy rejections come
	// back as a Skipped outcome with a nil error.
	Heal(ctx context.Context, req HealRequest) (HealOutcome, error)
	// IsHealAvailable reports whether the anchor still has its heal slot.
	IsHealAvailable(anchor schemas.AnchorDescriptor) bool
	// MarkHealed consumes the anchor's heal slot. No-op if already consumed.
	MarkHealed(anchor schemas.AnchorDescriptor)
	// Reset clears the healed set. Intended for test/session boundaries;
	// never invoked automatically.
	Reset()
}

// Healer implements SelfHealer over an ElementResolver. The healed set is
// the only shared mutable state; its mutex guards point lookups and inserts
// only and is never held across a suspension point, so concurrent
// resolutions for different anchors proceed fully in parallel.
type Healer struct {
	logger   *zap.Logger
	resolver ElementResolver

	mu     sync.Mutex
	healed map[string]struct{}
}

var _ SelfHealer = (*Healer)(nil)

// NewHealer builds a healer. The healed set starts empty and grows
// monotonically until Reset.
func NewHealer(logger *zap.Logger, resolver ElementResolver) (*Healer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if resolver == nil {
		return nil, errors.New("resolver cannot be nil")
	}
	return &Healer{
		logger:   logger.Named("healer"),
		resolver: resolver,
		healed:   make(map[string]struct{}),
	}, nil
}

// validateRequest applies the policy gate ahead of any page work. A non-empty
// return is the Skipped reason.
func (h *Healer) validateRequest(req HealRequest) string {
	if !h.IsHealAvailable(req.OriginalAnchor) {
		return fmt.Sprintf("Anchor already healed: %s", req.OriginalAnchor.Key())
	}
	if req.MinConfidence < 0.0 || req.MinConfidence > 1.0 {
		return fmt.Sprintf("Invalid confidence threshold: %v", req.MinConfidence)
	}
	if req.MaxCandidates == 0 {
		return "Candidate budget is zero"
	}
	return ""
}

// Heal executes the validate -> plan -> filter/rank/limit -> probe pipeline.
// A candidate surfaced during aggregation is not trusted until it resolves on
// its own. Every completed attempt consumes the original anchor's heal slot,
// healed or exhausted alike; a repeat request comes back Skipped.
func (h *Healer) Heal(ctx context.Context, req HealRequest) (HealOutcome, error) {
	log := h.logger.With(
		zap.String("anchor", req.OriginalAnchor.Key()),
		zap.String("route", req.Route.String()),
	)

	// 1. Validate.
	if reason := h.validateRequest(req); reason != "" {
		log.Info("Heal request rejected by policy.", zap.String("reason", reason))
		return SkippedOutcome(reason), nil
	}

	// 2. Plan.
	plan, err := h.resolver.GenerateFallbackPlan(ctx, req.OriginalAnchor, req.Route)
	if err != nil {
		return HealOutcome{}, NewError(ErrCodeHealFailed, "fallback plan generation failed", err)
	}
	if !plan.HasFallbacks() {
		log.Info("No fallback candidates available for healing.")
		h.MarkHealed(req.OriginalAnchor)
		return ExhaustedOutcome(nil), nil
	}

	// 3. Filter and rank.
	filtered := make([]Candidate, 0, len(plan.Fallbacks))
	for _, c := range plan.Fallbacks {
		if c.Confidence >= req.MinConfidence {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		log.Info("Every fallback candidate fell below the confidence floor.",
			zap.Float64("min_confidence", req.MinConfidence),
			zap.Int("plan_size", len(plan.Fallbacks)))
		h.MarkHealed(req.OriginalAnchor)
		return ExhaustedOutcome(nil), nil
	}
	sortCandidatesByConfidence(filtered)
	if req.MaxCandidates > 0 && len(filtered) > req.MaxCandidates {
		filtered = filtered[:req.MaxCandidates]
	}

	// 4. Probe in order. Each candidate must re-resolve independently; the
	// probe's own confidence and strategy are what the outcome reports.
	for i, candidate := range filtered {
		res, err := h.resolver.Resolve(ctx, candidate.Anchor, req.Route)
		if err != nil {
			// One failed probe never terminates the whole attempt.
			log.Debug("Heal candidate failed its validation probe.",
				zap.Int("rank", i),
				zap.String("candidate_anchor", candidate.Anchor.Key()),
				zap.Error(err))
			continue
		}

		h.MarkHealed(req.OriginalAnchor)
		log.Info("Anchor healed.",
			zap.String("healed_anchor", candidate.Anchor.Key()),
			zap.String("strategy", string(res.Strategy)),
			zap.Float64("confidence", res.Confidence),
			zap.Int("rank", i))
		return HealedOutcome(candidate.Anchor, res), nil
	}

	log.Warn("All heal candidates exhausted.", zap.Int("tried", len(filtered)))
	h.MarkHealed(req.OriginalAnchor)
	return ExhaustedOutcome(filtered), nil
}

// IsHealAvailable reports whether the anchor's canonical key is absent from
// the healed set.
func (h *Healer) IsHealAvailable(anchor schemas.AnchorDescriptor) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, done := h.healed[anchor.Key()]
	return !done
}

// MarkHealed inserts the anchor's canonical key. Idempotent and, short of
// Reset, irreversible for this healer instance.
func (h *Healer) MarkHealed(anchor schemas.AnchorDescriptor) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.healed[anchor.Key()] = struct{}{}
}

// Reset clears the healed set, making every anchor heal-eligible again.
func (h *Healer) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	clear(h.healed)
}
