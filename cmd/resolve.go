// File: cmd/resolve.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/suture-cli/api/schemas"
	"github.com/xkilldash9x/suture-cli/internal/browser"
	"github.com/xkilldash9x/suture-cli/internal/locator"
	"github.com/xkilldash9x/suture-cli/internal/locator/strategies"
	"github.com/xkilldash9x/suture-cli/internal/observability"
)

var jsonOut = jsoniter.ConfigCompatibleWithStandardLibrary

// anchorFlags collects the mutually exclusive anchor descriptor flags shared
// by the resolve and heal commands.
type anchorFlags struct {
	css      string
	ariaRole string
	ariaName string
	text     string
}

func (f *anchorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.css, "css", "", "anchor: CSS selector")
	cmd.Flags().StringVar(&f.ariaRole, "aria-role", "", "anchor: ARIA role (with --aria-name)")
	cmd.Flags().StringVar(&f.ariaName, "aria-name", "", "anchor: ARIA accessible name (with --aria-role)")
	cmd.Flags().StringVar(&f.text, "text", "", "anchor: visible text content")
}

func (f *anchorFlags) anchor() (schemas.AnchorDescriptor, error) {
	set := 0
	var anchor schemas.AnchorDescriptor
	if f.css != "" {
		anchor = schemas.CSSAnchor(f.css)
		set++
	}
	if f.ariaRole != "" || f.ariaName != "" {
		if f.ariaRole == "" {
			return anchor, errors.New("--aria-name requires --aria-role")
		}
		anchor = schemas.AriaAnchor(f.ariaRole, f.ariaName)
		set++
	}
	if f.text != "" {
		anchor = schemas.TextAnchor(f.text)
		set++
	}
	if set != 1 {
		return anchor, errors.New("exactly one of --css, --aria-role, --text is required")
	}
	return anchor, nil
}

// resolveReport is the JSON document the resolve command prints.
type resolveReport struct {
	URL      string                    `json:"url"`
	Anchor   schemas.AnchorDescriptor  `json:"anchor"`
	Result   *locator.ResolutionResult `json:"result,omitempty"`
	Plan     *locator.FallbackPlan     `json:"plan,omitempty"`
	Error    string                    `json:"error,omitempty"`
	Duration string                    `json:"duration"`
}

// newResolveCmd creates the resolve command: navigate to a URL and resolve a
// single anchor through the strategy chain.
func newResolveCmd() *cobra.Command {
	var (
		targetURL string
		timeout   time.Duration
		withPlan  bool
		anchors   anchorFlags
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve one anchor against a live page and report the match.",
		RunE: func(cmd *cobra.Command, args []string) error {
			anchor, err := anchors.anchor()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			logger := observability.GetLogger()
			session, resolver, err := buildResolver(ctx, logger, targetURL)
			if err != nil {
				return err
			}
			defer session.Close()

			start := time.Now()
			res, resolveErr := resolver.Resolve(ctx, anchor, session.Route())
			report := resolveReport{
				URL:      targetURL,
				Anchor:   anchor,
				Result:   res,
				Duration: time.Since(start).Round(time.Millisecond).String(),
			}
			if resolveErr != nil {
				report.Error = resolveErr.Error()
			}
			if withPlan {
				// Plan generation never hard-fails; an empty plan means no
				// strategy found any candidate.
				report.Plan, _ = resolver.GenerateFallbackPlan(ctx, anchor, session.Route())
			}

			if err := printJSON(report); err != nil {
				return err
			}
			if resolveErr != nil {
				return fmt.Errorf("resolution failed: %w", resolveErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&targetURL, "url", "", "page URL to resolve against")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline for the command")
	cmd.Flags().BoolVar(&withPlan, "plan", false, "include the ranked fallback plan in the report")
	anchors.register(cmd)
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

// buildResolver wires a browser session to a full strategy chain.
func buildResolver(ctx context.Context, logger *zap.Logger, targetURL string) (*browser.Session, *locator.ChainResolver, error) {
	session, err := browser.NewSession(ctx, cfg.Browser, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start browser: %w", err)
	}

	if err := session.Navigate(ctx, targetURL, cfg.Browser.NavigationTimeout); err != nil {
		session.Close()
		return nil, nil, err
	}

	resolver, err := locator.NewChainResolver(logger,
		strategies.NewCSSStrategy(logger, session),
		strategies.NewAriaStrategy(logger, session),
		strategies.NewTextStrategy(logger, session),
	)
	if err != nil {
		session.Close()
		return nil, nil, err
	}
	return session, resolver, nil
}

func printJSON(v any) error {
	out, err := jsonOut.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
