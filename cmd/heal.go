// File: cmd/heal.go
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/suture-cli/api/schemas"
	"github.com/xkilldash9x/suture-cli/internal/action"
	"github.com/xkilldash9x/suture-cli/internal/browser/scriptres"
	"github.com/xkilldash9x/suture-cli/internal/locator"
	"github.com/xkilldash9x/suture-cli/internal/observability"
)

// healReport is the JSON document the heal command prints.
type healReport struct {
	URL      string                    `json:"url"`
	Anchor   schemas.AnchorDescriptor  `json:"anchor"`
	Selector *schemas.ResolvedSelector `json:"selector,omitempty"`
	Error    string                    `json:"error,omitempty"`
	Duration string                    `json:"duration"`
}

// newHealCmd creates the heal command: resolve an anchor through the full
// bridge, letting the self-healer substitute a replacement when the primary
// anchor no longer matches.
func newHealCmd() *cobra.Command {
	var (
		targetURL     string
		timeout       time.Duration
		maxCandidates int
		minConfidence float64
		anchors       anchorFlags
	)

	cmd := &cobra.Command{
		Use:   "heal",
		Short: "Resolve an anchor with self-healing enabled and report the selector.",
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

			healer, err := locator.NewHealer(logger, resolver)
			if err != nil {
				return err
			}
			bridge, err := action.NewLocatorBackedResolver(logger, resolver, healer, scriptres.New(logger))
			if err != nil {
				return err
			}

			mc, floor := maxCandidates, minConfidence
			if !cmd.Flags().Changed("max-candidates") && cfg.Healer.MaxCandidates > 0 {
				mc = cfg.Healer.MaxCandidates
			}
			if !cmd.Flags().Changed("min-confidence") {
				floor = cfg.Healer.MinConfidence
			}
			bridge.SetHealParams(mc, floor)

			start := time.Now()
			selected, resolveErr := bridge.Resolve(ctx, session, schemas.ExecCtx{Route: session.Route()}, anchor)
			report := healReport{
				URL:      targetURL,
				Anchor:   anchor,
				Selector: selected,
				Duration: time.Since(start).Round(time.Millisecond).String(),
			}
			if resolveErr != nil {
				report.Error = resolveErr.Error()
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
	cmd.Flags().IntVar(&maxCandidates, "max-candidates", 10, "heal candidate budget")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0.5, "heal candidate confidence floor")
	anchors.register(cmd)
	_ = cmd.MarkFlagRequired("url")

	return cmd
}
