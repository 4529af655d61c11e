// File: internal/locator/resolver.go
package locator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/suture-cli/api/schemas"
)

// Strategy is one matching technique (Css / AriaAx / Text). Implementations
// perform the actual DOM/AX/text querying against the live page; all I/O and
// suspension points live behind this interface.
type Strategy interface {
	// Kind identifies which chain slot the strategy fills.
	Kind() schemas.LocatorStrategy
	// Locate returns zero or more scored candidates for the anchor on the
	// routed page. An empty slice with a nil error means "queried fine,
	// nothing matched".
	Locate(ctx context.Context, anchor schemas.AnchorDescriptor, route schemas.ExecRoute) ([]Candidate, error)
}

// ElementResolver turns an anchor into a resolution, or aggregates every
// strategy into a fallback plan for the self-healer.
type ElementResolver interface {
	Resolve(ctx context.Context, anchor schemas.AnchorDescriptor, route schemas.ExecRoute) (*ResolutionResult, error)
	GenerateFallbackPlan(ctx context.Context, anchor schemas.AnchorDescriptor, route schemas.ExecRoute) (*FallbackPlan, error)
	ResolveWithStrategy(ctx context.Context, anchor schemas.AnchorDescriptor, route schemas.ExecRoute, strategy schemas.LocatorStrategy) ([]Candidate, error)
}

// ChainResolver implements ElementResolver over a registry of strategies,
// trying them in the fixed fallback order. It holds no per-call state and is
// safe for concurrent use by independent resolutions.
type ChainResolver struct {
	logger     *zap.Logger
	strategies map[schemas.LocatorStrategy]Strategy
}

var _ ElementResolver = (*ChainResolver)(nil)

// NewChainResolver builds a resolver from the supplied strategies. Strategies
// for variants missing from the registry are skipped at resolve time; at
// least one must be present.
func NewChainResolver(logger *zap.Logger, strategies ...Strategy) (*ChainResolver, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if len(strategies) == 0 {
		return nil, errors.New("at least one strategy is required")
	}
	reg := make(map[schemas.LocatorStrategy]Strategy, len(strategies))
	for _, s := range strategies {
		if s == nil {
			return nil, errors.New("strategy cannot be nil")
		}
		if !s.Kind().Valid() {
			return nil, fmt.Errorf("unknown strategy kind %q", s.Kind())
		}
		if _, dup := reg[s.Kind()]; dup {
			return nil, fmt.Errorf("duplicate strategy for kind %q", s.Kind())
		}
		reg[s.Kind()] = s
	}
	return &ChainResolver{
		logger:     logger.Named("resolver"),
		strategies: reg,
	}, nil
}

// Resolve walks the fallback chain in order. The first strategy that returns
// any candidates wins: its best candidate is selected and returned
// immediately, and later strategies are never tried, even when the match is
// ambiguous. A strategy error is logged and skipped rather than failing the
// chain.
func (r *ChainResolver) Resolve(ctx context.Context, anchor schemas.AnchorDescriptor, route schemas.ExecRoute) (*ResolutionResult, error) {
	if anchor.IsZero() {
		return nil, NewError(ErrCodeInvalidAnchor, "empty anchor descriptor", nil)
	}

	attemptID := uuid.NewString()
	log := r.logger.With(
		zap.String("attempt_id", attemptID),
		zap.String("anchor", anchor.Key()),
		zap.String("route", route.String()),
	)
	log.Debug("Starting resolution chain.")

	for _, kind := range schemas.FallbackChain() {
		strategy, ok := r.strategies[kind]
		if !ok {
			log.Debug("No strategy registered for variant, skipping.", zap.String("strategy", string(kind)))
			continue
		}

		candidates, err := strategy.Locate(ctx, anchor, route)
		if err != nil {
			// Not fatal to the chain. The next strategy may still match.
			log.Warn("Strategy failed, continuing down the chain.",
				zap.String("strategy", string(kind)),
				zap.Error(err))
			continue
		}
		if len(candidates) == 0 {
			log.Debug("Strategy returned no candidates.", zap.String("strategy", string(kind)))
			continue
		}

		best, err := r.selectBestCandidate(log, candidates)
		if err != nil {
			return nil, err
		}
		log.Info("Anchor resolved.",
			zap.String("strategy", string(best.Strategy)),
			zap.Float64("confidence", best.Confidence),
			zap.String("element_id", best.ElementID))
		return &ResolutionResult{
			ElementID:  best.ElementID,
			Strategy:   best.Strategy,
			Confidence: best.Confidence,
			Anchor:     anchor,
		}, nil
	}

	log.Debug("Resolution chain exhausted without candidates.")
	return nil, NewError(ErrCodeElementNotFound,
		fmt.Sprintf("no strategy produced an acceptable candidate for %s", anchor.Key()), nil)
}

// selectBestCandidate picks the candidate with maximal confidence (first
// maximum wins on ties). Multiple high-confidence candidates are logged as an
// ambiguity warning but still yield the single best; a best candidate below
// the acceptance threshold fails.
func (r *ChainResolver) selectBestCandidate(log *zap.Logger, candidates []Candidate) (*Candidate, error) {
	if len(candidates) == 0 {
		return nil, NewError(ErrCodeElementNotFound, "no candidates to select from", nil)
	}

	best := &candidates[0]
	highCount := 0
	for i := range candidates {
		c := &candidates[i]
		if c.IsHighConfidence() {
			highCount++
		}
		if c.Confidence > best.Confidence {
			best = c
		}
	}

	if highCount > 1 {
		// Observable, not fatal: the caller still gets the single best.
		log.Warn("Multiple high-confidence candidates; match is ambiguous.",
			zap.Int("high_confidence_count", highCount),
			zap.Int("candidate_count", len(candidates)),
			zap.String("chosen_element_id", best.ElementID))
	}

	if !best.IsAcceptable() {
		return nil, NewError(ErrCodeElementNotFound,
			fmt.Sprintf("best candidate confidence %.2f below acceptance threshold", best.Confidence), nil)
	}
	return best, nil
}

// GenerateFallbackPlan queries every registered strategy regardless of
// earlier success, unions their candidates and sorts the union descending by
// confidence. Individual strategy failures are ignored; the plan always
// succeeds and may be empty. Strategies run concurrently since each performs
// an independent page round-trip.
func (r *ChainResolver) GenerateFallbackPlan(ctx context.Context, anchor schemas.AnchorDescriptor, route schemas.ExecRoute) (*FallbackPlan, error) {
	log := r.logger.With(
		zap.String("anchor", anchor.Key()),
		zap.String("route", route.String()),
	)

	// Each strategy writes into its own chain-order slot so the pre-sort
	// union order is deterministic regardless of goroutine scheduling.
	chain := schemas.FallbackChain()
	results := make([][]Candidate, len(chain))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range chain {
		strategy, ok := r.strategies[kind]
		if !ok {
			continue
		}
		g.Go(func() error {
			candidates, err := strategy.Locate(gctx, anchor, route)
			if err != nil {
				log.Debug("Strategy failed during plan generation, ignoring.",
					zap.String("strategy", string(strategy.Kind())),
					zap.Error(err))
				return nil
			}
			results[i] = candidates
			return nil
		})
	}
	// Goroutines only return nil; Wait is for joining, not error collection.
	_ = g.Wait()

	var union []Candidate
	for _, candidates := range results {
		union = append(union, candidates...)
	}
	sortCandidatesByConfidence(union)
	log.Debug("Fallback plan generated.", zap.Int("candidates", len(union)))
	return &FallbackPlan{Primary: anchor, Fallbacks: union}, nil
}

// ResolveWithStrategy queries a single strategy directly, bypassing chain
// order and best-candidate selection. Used by diagnostics and by the healer's
// candidate re-validation.
func (r *ChainResolver) ResolveWithStrategy(ctx context.Context, anchor schemas.AnchorDescriptor, route schemas.ExecRoute, strategy schemas.LocatorStrategy) ([]Candidate, error) {
	s, ok := r.strategies[strategy]
	if !ok {
		return nil, NewError(ErrCodeInvalidAnchor,
			fmt.Sprintf("no strategy registered for %q", strategy), nil)
	}
	candidates, err := s.Locate(ctx, anchor, route)
	if err != nil {
		return nil, NewStrategyError(strategy, "strategy query failed", err)
	}
	return candidates, nil
}
