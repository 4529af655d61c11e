// File: internal/action/resolver.go

// Package action adapts the locator core to the action-execution engine's
// resolver contract: logical anchors in, executable selectors out, failures
// translated into the engine's error taxonomy.
package action

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/suture-cli/api/schemas"
	"github.com/xkilldash9x/suture-cli/internal/locator"
)

// ScriptResolver turns a matched anchor into an executable selector string by
// querying the live page. Supplied externally; the concrete implementation
// lives in internal/browser/scriptres.
type ScriptResolver interface {
	BuildSelector(ctx context.Context, prim schemas.PagePrimitives, anchor schemas.AnchorDescriptor) (string, error)
}

// LocatorBackedResolver implements schemas.AnchorResolver on top of the
// element resolver and, when configured, the self-healer.
type LocatorBackedResolver struct {
	logger   *zap.Logger
	resolver locator.ElementResolver
	healer   locator.SelfHealer // nil disables healing
	scripts  ScriptResolver

	healMaxCandidates int
	healMinConfidence float64
}

var _ schemas.AnchorResolver = (*LocatorBackedResolver)(nil)

// NewLocatorBackedResolver builds the bridge. A nil healer is allowed and
// turns resolution failures into a last-resort direct script lookup.
func NewLocatorBackedResolver(logger *zap.Logger, resolver locator.ElementResolver, healer locator.SelfHealer, scripts ScriptResolver) (*LocatorBackedResolver, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if resolver == nil {
		return nil, errors.New("element resolver cannot be nil")
	}
	if scripts == nil {
		return nil, errors.New("script resolver cannot be nil")
	}
	return &LocatorBackedResolver{
		logger:            logger.Named("anchor_resolver"),
		resolver:          resolver,
		healer:            healer,
		scripts:           scripts,
		healMaxCandidates: locator.DefaultMaxHealCandidates,
		healMinConfidence: locator.DefaultMinHealConfidence,
	}, nil
}

// SetHealParams overrides the candidate budget and confidence floor used for
// heal requests built by this bridge. Call before serving resolutions.
func (r *LocatorBackedResolver) SetHealParams(maxCandidates int, minConfidence float64) {
	r.healMaxCandidates = maxCandidates
	r.healMinConfidence = minConfidence
}

// Resolve turns an anchor into an executable selector. On a primary miss it
// attempts healing; with no healer configured it falls back to resolving the
// original anchor via the script resolver directly, unscored.
func (r *LocatorBackedResolver) Resolve(ctx context.Context, prim schemas.PagePrimitives, ec schemas.ExecCtx, anchor schemas.AnchorDescriptor) (*schemas.ResolvedSelector, error) {
	log := r.logger.With(
		zap.String("anchor", anchor.Key()),
		zap.String("route", ec.Route.String()),
	)

	res, err := r.resolver.Resolve(ctx, anchor, ec.Route)
	if err == nil {
		return r.toSelector(ctx, prim, res, nil)
	}

	// Informational only; a transient strategy failure changes nothing
	// about the fallback flow.
	if locator.IsRetryable(err) {
		log.Warn("Primary resolution failed with a retryable strategy error.", zap.Error(err))
	} else {
		log.Debug("Primary resolution failed.", zap.Error(err))
	}

	if r.healer == nil {
		log.Debug("No healer configured; falling back to direct script resolution.")
		selector, scriptErr := r.scripts.BuildSelector(ctx, prim, anchor)
		if scriptErr != nil {
			return nil, mapLocatorError(err)
		}
		if selector == "" {
			return nil, mapLocatorError(err)
		}
		// Last resort: no scoring information exists for this path.
		return &schemas.ResolvedSelector{
			Selector: selector,
			Strategy: anchor.Strategy,
		}, nil
	}

	return r.attemptHeal(ctx, prim, ec, anchor)
}

// attemptHeal dispatches one heal request and maps the outcome onto the
// bridge's success/error contract.
func (r *LocatorBackedResolver) attemptHeal(ctx context.Context, prim schemas.PagePrimitives, ec schemas.ExecCtx, anchor schemas.AnchorDescriptor) (*schemas.ResolvedSelector, error) {
	log := r.logger.With(zap.String("anchor", anchor.Key()))

	req := locator.NewHealRequest(anchor, ec.Route).
		WithMaxCandidates(r.healMaxCandidates).
		WithMinConfidence(r.healMinConfidence)
	outcome, err := r.healer.Heal(ctx, req)
	if err != nil {
		return nil, mapLocatorError(err)
	}

	switch outcome.Status {
	case locator.HealStatusHealed:
		log.Info("Heal succeeded; re-resolving healed anchor.",
			zap.String("healed_anchor", outcome.UsedAnchor.Key()),
			zap.Float64("confidence", outcome.Confidence))
		res, err := r.resolver.Resolve(ctx, *outcome.UsedAnchor, ec.Route)
		if err != nil {
			return nil, mapLocatorError(err)
		}
		return r.toSelector(ctx, prim, res, &schemas.SelfHealInfo{
			OriginalAnchor: anchor,
			HealedAnchor:   *outcome.UsedAnchor,
			Strategy:       outcome.Strategy,
			Confidence:     outcome.Confidence,
		})

	case locator.HealStatusSkipped:
		return nil, schemas.NewActionError(schemas.ErrCodeAnchorNotFound, outcome.Reason, nil)

	case locator.HealStatusExhausted:
		return nil, schemas.NewActionError(schemas.ErrCodeAnchorNotFound, "All healer candidates exhausted", nil)

	case locator.HealStatusAborted:
		return nil, schemas.NewActionError(schemas.ErrCodeInternal, outcome.Reason, nil)

	default:
		return nil, schemas.NewActionError(schemas.ErrCodeInternal,
			fmt.Sprintf("unknown heal status %q", outcome.Status), nil)
	}
}

// toSelector converts a resolution into an executable selector via the
// script resolver and stamps it with strategy, confidence and heal info.
func (r *LocatorBackedResolver) toSelector(ctx context.Context, prim schemas.PagePrimitives, res *locator.ResolutionResult, healInfo *schemas.SelfHealInfo) (*schemas.ResolvedSelector, error) {
	anchor := res.Anchor
	if healInfo != nil {
		anchor = healInfo.HealedAnchor
	}

	selector, err := r.scripts.BuildSelector(ctx, prim, anchor)
	if err != nil {
		return nil, schemas.NewActionError(schemas.ErrCodeCdpIo, "selector conversion failed", err)
	}
	if selector == "" {
		// The element resolved moments ago but the script resolver cannot
		// see it anymore; treat as a miss rather than fabricating a target.
		return nil, schemas.NewActionError(schemas.ErrCodeAnchorNotFound,
			fmt.Sprintf("resolved anchor %s no longer matches", anchor.Key()), nil)
	}

	return &schemas.ResolvedSelector{
		Selector:   selector,
		Strategy:   res.Strategy,
		Confidence: res.Confidence,
		HealInfo:   healInfo,
	}, nil
}

// mapLocatorError translates the locator taxonomy into the engine's.
func mapLocatorError(err error) *schemas.ActionError {
	var le *locator.Error
	if !errors.As(err, &le) {
		return schemas.NewActionError(schemas.ErrCodeInternal, err.Error(), err)
	}
	switch le.Code {
	case locator.ErrCodeElementNotFound,
		locator.ErrCodeAmbiguousMatch,
		locator.ErrCodeInvalidAnchor,
		locator.ErrCodeHealFailed:
		return schemas.NewActionError(schemas.ErrCodeAnchorNotFound, le.Message, err)
	case locator.ErrCodeCdp:
		return schemas.NewActionError(schemas.ErrCodeCdpIo, le.Message, err)
	case locator.ErrCodeTimeout:
		return schemas.NewActionError(schemas.ErrCodeWaitTimeout, le.Message, err)
	default:
		// StrategyFailed and Internal both land here.
		return schemas.NewActionError(schemas.ErrCodeInternal, le.Message, err)
	}
}
