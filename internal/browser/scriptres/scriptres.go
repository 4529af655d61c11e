// File: internal/browser/scriptres/scriptres.go

// Package scriptres converts a matched anchor into an executable selector
// string by running a resolver script inside the page. It is the concrete
// implementation of the script-resolver boundary the locator bridge depends
// on.
package scriptres

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/suture-cli/api/schemas"
)

// Resolver resolves anchors to selectors via injected JS.
type Resolver struct {
	logger *zap.Logger
}

// New builds a script resolver.
func New(logger *zap.Logger) *Resolver {
	return &Resolver{logger: logger.Named("scriptres")}
}

// BuildSelector locates the anchor's first match in the page and returns a
// stable selector for it. An empty result means the anchor matched nothing.
func (r *Resolver) BuildSelector(ctx context.Context, prim schemas.PagePrimitives, anchor schemas.AnchorDescriptor) (string, error) {
	var selector string
	if err := prim.EvaluateScript(ctx, resolverScript(anchor), &selector); err != nil {
		return "", fmt.Errorf("resolver script failed for %s: %w", anchor.Key(), err)
	}
	if selector == "" {
		r.logger.Debug("Resolver script found no match.", zap.String("anchor", anchor.Key()))
		return "", nil
	}
	r.logger.Debug("Selector built.",
		zap.String("anchor", anchor.Key()),
		zap.String("selector", selector))
	return selector, nil
}

func jsString(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", ``)
	return `"` + replacer.Replace(s) + `"`
}

// resolverScript finds the anchor's first match and emits a selector the
// action layer can re-query: test-id / id / name attributes when present,
// a bounded nth-child path otherwise.
func resolverScript(anchor schemas.AnchorDescriptor) string {
	var finder string
	switch anchor.Strategy {
	case schemas.StrategyCss:
		finder = fmt.Sprintf(`(() => { try { return document.querySelector(%s); } catch (e) { return null; } })()`,
			jsString(anchor.Value))
	case schemas.StrategyAriaAx:
		finder = fmt.Sprintf(`(() => {
			const byAttr = document.querySelector('[role=' + JSON.stringify(%s) + '][aria-label=' + JSON.stringify(%s) + ']');
			if (byAttr) return byAttr;
			for (const el of document.querySelectorAll('[role=' + JSON.stringify(%s) + ']')) {
				const label = (el.getAttribute('aria-label') || el.textContent || '').trim();
				if (label === %s) return el;
			}
			return null;
		})()`, jsString(anchor.Role), jsString(anchor.Value), jsString(anchor.Role), jsString(anchor.Value))
	case schemas.StrategyText:
		finder = fmt.Sprintf(`(() => {
			const want = %s;
			const walker = document.createTreeWalker(document.body, NodeFilter.SHOW_ELEMENT);
			let best = null;
			while (walker.nextNode()) {
				const el = walker.currentNode;
				const text = (el.textContent || '').trim();
				if (text !== want) continue;
				// Prefer the innermost element carrying exactly this text.
				best = el;
			}
			return best;
		})()`, jsString(anchor.Value))
	default:
		finder = `null`
	}

	return fmt.Sprintf(`(() => {
		const buildSelector = (el) => {
			const tag = el.tagName.toLowerCase();
			for (const attr of ['data-testid', 'data-test-id', 'data-test', 'data-qa', 'data-cy']) {
				const val = el.getAttribute(attr);
				if (val) return tag + '[' + attr + '="' + val + '"]';
			}
			if (el.id && /^[a-zA-Z][\w-]*$/.test(el.id)) return '#' + el.id;
			if (el.name && ['input', 'select', 'textarea', 'button'].includes(tag)) {
				return tag + '[name="' + el.name + '"]';
			}
			let path = [];
			let current = el;
			let depth = 0;
			while (current && current.tagName && depth < 4) {
				const t = current.tagName.toLowerCase();
				if (current.id && /^[a-zA-Z][\w-]*$/.test(current.id)) {
					path.unshift('#' + current.id);
					break;
				}
				const index = Array.from(current.parentNode?.children || []).indexOf(current);
				path.unshift(index >= 0 ? t + ':nth-child(' + (index + 1) + ')' : t);
				current = current.parentElement;
				depth++;
			}
			return path.join(' > ') || tag;
		};
		const el = %s;
		return el ? buildSelector(el) : '';
	})()`, finder)
}
