// File: internal/locator/strategies/text.go
package strategies

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/suture-cli/api/schemas"
	"github.com/xkilldash9x/suture-cli/internal/locator"
)

// TextStrategy matches elements by visible text content. It snapshots the
// DOM once and does all matching offline against the parsed tree, so it
// costs a single CDP round-trip regardless of how many elements it inspects.
// Weakest and most ambiguous of the three, which is why it closes the chain.
type TextStrategy struct {
	logger *zap.Logger
	runner ActionRunner
}

var _ locator.Strategy = (*TextStrategy)(nil)

// NewTextStrategy builds the text strategy.
func NewTextStrategy(logger *zap.Logger, runner ActionRunner) *TextStrategy {
	return &TextStrategy{logger: logger.Named("strategy.text"), runner: runner}
}

// Kind implements locator.Strategy.
func (s *TextStrategy) Kind() schemas.LocatorStrategy { return schemas.StrategyText }

// Locate snapshots the document and walks it for text matches. CSS anchors
// carry no text to hunt for and return no candidates; ARIA anchors hunt for
// their accessible name.
func (s *TextStrategy) Locate(ctx context.Context, anchor schemas.AnchorDescriptor, route schemas.ExecRoute) ([]locator.Candidate, error) {
	needle := textNeedleFor(anchor)
	if needle == "" {
		return nil, nil
	}

	var snapshot string
	if err := s.runner.RunActions(ctx, chromedp.OuterHTML("html", &snapshot, chromedp.ByQuery)); err != nil {
		return nil, locator.NewStrategyError(schemas.StrategyText, "DOM snapshot failed", err)
	}

	root, err := html.Parse(strings.NewReader(snapshot))
	if err != nil {
		return nil, locator.NewStrategyError(schemas.StrategyText, "snapshot parse failed", err)
	}

	matches := collectTextMatches(root, needle)
	candidates := make([]locator.Candidate, 0, len(matches))
	for i, m := range matches {
		candidates = append(candidates, locator.NewCandidate(
			m.Selector, schemas.StrategyText, m.Confidence,
			schemas.TextAnchor(m.Text),
		).WithMetadata(locator.CandidateMetadata{
			TagName:     m.Tag,
			VisibleText: m.Text,
			DomIndex:    i,
			Visible:     true,
			Enabled:     true,
		}))
	}

	s.logger.Debug("Text probe complete.",
		zap.String("needle", needle),
		zap.String("route", route.String()),
		zap.Int("matches", len(candidates)))
	return candidates, nil
}

func textNeedleFor(anchor schemas.AnchorDescriptor) string {
	switch anchor.Strategy {
	case schemas.StrategyText, schemas.StrategyAriaAx:
		return strings.TrimSpace(anchor.Value)
	default:
		return ""
	}
}

// textMatch is one offline match found in the parsed snapshot.
type textMatch struct {
	Selector   string
	Tag        string
	Text       string
	Confidence float64
}

// skippedTextTags never contribute text candidates.
var skippedTextTags = map[string]bool{
	"html": true, "head": true, "body": true, "script": true,
	"style": true, "noscript": true, "template": true, "title": true,
}

// collectTextMatches walks the tree and scores every element whose own
// visible text relates to the needle. Only the innermost matching element is
// kept for a given text run: a <span> inside a <button> wins over the button
// wrapper when both carry the same text.
func collectTextMatches(root *html.Node, needle string) []textMatch {
	var matches []textMatch
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		childMatched := false
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			before := len(matches)
			walk(c)
			if len(matches) > before {
				childMatched = true
			}
		}
		if childMatched || n.Type != html.ElementNode || skippedTextTags[n.Data] {
			return
		}
		text := nodeVisibleText(n)
		conf := scoreTextMatch(needle, text)
		if conf == 0 {
			return
		}
		matches = append(matches, textMatch{
			Selector:   buildNodePath(n),
			Tag:        n.Data,
			Text:       text,
			Confidence: conf,
		})
	}
	walk(root)
	return matches
}

// nodeVisibleText concatenates the trimmed text content under a node,
// collapsing runs of whitespace the way a renderer would.
func nodeVisibleText(n *html.Node) string {
	var sb strings.Builder
	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
			return
		}
		if n.Type == html.ElementNode && skippedTextTags[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// scoreTextMatch grades how well an element's text matches the wanted text.
// Text evidence is inherently weak, so even an exact match stays below the
// high-confidence threshold.
func scoreTextMatch(want, got string) float64 {
	want = strings.TrimSpace(want)
	got = strings.TrimSpace(got)
	if want == "" || got == "" {
		return 0
	}
	switch {
	case want == got:
		return 0.75
	case strings.EqualFold(want, got):
		return 0.68
	case strings.Contains(strings.ToLower(got), strings.ToLower(want)):
		// Containment in a long text run is barely evidence at all.
		if len(got) > 3*len(want) {
			return 0.3
		}
		return 0.55
	}
	return 0
}

// buildNodePath renders a CSS path of the form
// "div:nth-child(2) > button:nth-child(1)", rooted at the nearest ancestor
// with an id when one exists.
func buildNodePath(n *html.Node) string {
	var parts []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		if id := attrValue(cur, "id"); id != "" {
			parts = append([]string{"#" + id}, parts...)
			break
		}
		idx := 1
		for sib := cur.PrevSibling; sib != nil; sib = sib.PrevSibling {
			if sib.Type == html.ElementNode {
				idx++
			}
		}
		parts = append([]string{fmt.Sprintf("%s:nth-child(%d)", cur.Data, idx)}, parts...)
	}
	return strings.Join(parts, " > ")
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
