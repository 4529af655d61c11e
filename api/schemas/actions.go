// File: api/schemas/actions.go
package schemas

import (
	"context"
	"fmt"
	"time"
)

// ExecRoute identifies which browser session / page / frame a resolution
// applies to. It is owned by the action-execution engine and passed through
// the locator core opaquely.
type ExecRoute struct {
	SessionID string `json:"session_id"`
	TargetID  string `json:"target_id,omitempty"`
	FrameID   string `json:"frame_id,omitempty"`
}

// String renders a compact route label for log fields.
func (r ExecRoute) String() string {
	if r.FrameID != "" {
		return fmt.Sprintf("%s/%s/%s", r.SessionID, r.TargetID, r.FrameID)
	}
	if r.TargetID != "" {
		return fmt.Sprintf("%s/%s", r.SessionID, r.TargetID)
	}
	return r.SessionID
}

// ExecCtx carries the routing and deadline information the action-execution
// engine supplies for one in-flight action. The locator core consults it only
// indirectly; aborting a stalled resolution is the caller's responsibility.
type ExecCtx struct {
	Route    ExecRoute
	Deadline time.Time
}

// SelfHealInfo describes a substitution performed by the self-healer. It is
// attached to a ResolvedSelector so downstream consumers can record that the
// original anchor no longer matched.
type SelfHealInfo struct {
	OriginalAnchor AnchorDescriptor `json:"original_anchor"`
	HealedAnchor   AnchorDescriptor `json:"healed_anchor"`
	Strategy       LocatorStrategy  `json:"strategy"`
	Confidence     float64          `json:"confidence"`
}

// ResolvedSelector is the executable output of anchor resolution: a selector
// string the browser layer can act on, stamped with how it was obtained.
type ResolvedSelector struct {
	Selector   string          `json:"selector"`
	Strategy   LocatorStrategy `json:"strategy"`
	Confidence float64         `json:"confidence"`
	// HealInfo is non-nil only when the selector was produced through a
	// self-heal substitution.
	HealInfo *SelfHealInfo `json:"heal_info,omitempty"`
}

// PagePrimitives is the minimal page-operation surface the locator bridge
// needs from the browser layer: script evaluation in the routed frame.
// The concrete implementation runs on chromedp.
type PagePrimitives interface {
	// EvaluateScript evaluates a JS expression in the page and unmarshals
	// the result into out. A nil out discards the result.
	EvaluateScript(ctx context.Context, expression string, out any) error
}

// AnchorResolver is the action-execution engine's resolver contract. The
// engine hands it a logical anchor and receives an executable selector.
type AnchorResolver interface {
	Resolve(ctx context.Context, prim PagePrimitives, ec ExecCtx, anchor AnchorDescriptor) (*ResolvedSelector, error)
}

// ActionErrorCode classifies resolver failures for the action-execution
// engine. Using a custom type keeps the set of codes closed.
type ActionErrorCode string

const (
	// ErrCodeAnchorNotFound means no strategy and no heal produced an
	// acceptable target for the anchor.
	ErrCodeAnchorNotFound ActionErrorCode = "ANCHOR_NOT_FOUND"
	// ErrCodeCdpIo means the underlying CDP transport failed.
	ErrCodeCdpIo ActionErrorCode = "CDP_IO"
	// ErrCodeWaitTimeout means a resolution step exceeded its deadline.
	ErrCodeWaitTimeout ActionErrorCode = "WAIT_TIMEOUT"
	// ErrCodeInternal is a bug or an unclassifiable failure.
	ErrCodeInternal ActionErrorCode = "INTERNAL"
)

// ActionError is the typed error surfaced across the bridge boundary.
// Consumers classify with errors.As rather than string matching.
type ActionError struct {
	Code    ActionErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ActionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return string(e.Code)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *ActionError) Unwrap() error { return e.Err }

// NewActionError builds an ActionError with an optional cause.
func NewActionError(code ActionErrorCode, message string, cause error) *ActionError {
	return &ActionError{Code: code, Message: message, Err: cause}
}
