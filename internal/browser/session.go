// File: internal/browser/session.go

// Package browser owns the chromedp session: process lifecycle, navigation,
// and the ActionRunner/PagePrimitives surfaces the locator stack drives the
// page through.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/suture-cli/api/schemas"
	"github.com/xkilldash9x/suture-cli/internal/config"
)

// Session is a single live browser tab plus the allocator that owns its
// Chrome process. It implements strategies.ActionRunner and
// schemas.PagePrimitives.
type Session struct {
	id          string
	logger      *zap.Logger
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
	// limiter paces CDP action batches so rapid-fire probing does not
	// starve the page's own event loop.
	limiter *rate.Limiter
}

// NewSession launches a browser and opens one tab. The caller must Close the
// session to reap the Chrome process.
func NewSession(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", cfg.Headless),
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.ActionsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.ActionsPerSecond), 1)
	}

	s := &Session{
		id:          uuid.NewString(),
		logger:      logger.Named("session"),
		allocCancel: allocCancel,
		ctx:         tabCtx,
		cancel:      tabCancel,
		limiter:     limiter,
	}

	// Start the browser eagerly so allocation failures surface here, not on
	// the first probe.
	startTimeout := cfg.StartupTimeout
	if startTimeout <= 0 {
		startTimeout = 30 * time.Second
	}
	startCtx, startCancel := context.WithTimeout(tabCtx, startTimeout)
	defer startCancel()
	if err := chromedp.Run(startCtx, chromedp.ActionFunc(func(context.Context) error { return nil })); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("browser startup failed: %w", err)
	}

	s.logger.Info("Browser session started.",
		zap.String("session_id", s.id),
		zap.Bool("headless", cfg.Headless))
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Route returns the ExecRoute addressing this session's tab.
func (s *Session) Route() schemas.ExecRoute {
	route := schemas.ExecRoute{SessionID: s.id}
	if c := chromedp.FromContext(s.ctx); c != nil && c.Target != nil {
		route.TargetID = string(c.Target.TargetID)
	}
	return route
}

// Navigate loads a URL and waits for the document to become ready.
func (s *Session) Navigate(ctx context.Context, targetURL string, timeout time.Duration) error {
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.RunActions(opCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", targetURL, err)
	}
	s.logger.Debug("Navigation complete.", zap.String("url", targetURL))
	return nil
}

// RunActions executes a batch of browser actions. The operational context
// carries the caller's deadline; the session context carries the CDP
// connection. The batch runs on a context derived from the session and
// cancelled with the caller's, so an expiring deadline aborts the in-flight
// CDP work instead of leaving it racing the next batch.
func (s *Session) RunActions(ctx context.Context, actions ...chromedp.Action) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// EvaluateScript implements schemas.PagePrimitives. Promise-returning
// expressions are awaited before the result is unmarshalled.
func (s *Session) EvaluateScript(ctx context.Context, expression string, out any) error {
	if out == nil {
		var discard any
		out = &discard
	}
	return s.RunActions(ctx, chromedp.Evaluate(expression, out,
		func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}))
}

// Close tears down the tab and the browser process.
func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
	s.logger.Debug("Browser session closed.", zap.String("session_id", s.id))
}
