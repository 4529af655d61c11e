// File: internal/locator/strategies/scripts.go
package strategies

import (
	"fmt"
	"strings"
)

// selectorHelpersJS builds a short, stable selector for an element, preferring
// test ids, then ids, then name/aria attributes, then a bounded nth-child
// path. Shared by the CSS and ARIA probes so both report targets the action
// layer can re-query directly.
const selectorHelpersJS = `
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
		const ariaLabel = el.getAttribute('aria-label');
		if (ariaLabel && ariaLabel.length < 80) {
			return tag + '[aria-label="' + ariaLabel.replace(/"/g, '\\"') + '"]';
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
	const isVisible = (el) => {
		const style = window.getComputedStyle(el);
		if (style.display === 'none' || style.visibility === 'hidden' || style.opacity === '0') return false;
		const rect = el.getBoundingClientRect();
		return rect.width > 0 && rect.height > 0;
	};
	const describe = (el, idx) => ({
		selector: buildSelector(el),
		tag: el.tagName.toLowerCase(),
		text: (el.textContent || '').trim().slice(0, 64),
		role: el.getAttribute('role') || '',
		label: el.getAttribute('aria-label') || '',
		domIndex: idx,
		visible: isVisible(el),
		enabled: !el.disabled && el.getAttribute('aria-disabled') !== 'true',
	});
`

// jsString renders s as a double-quoted JS string literal.
func jsString(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", ``)
	return `"` + replacer.Replace(s) + `"`
}

// cssProbeScript queries the document for a selector and describes every
// match.
func cssProbeScript(selector string) string {
	return fmt.Sprintf(`(() => {
		%s
		let matched;
		try {
			matched = document.querySelectorAll(%s);
		} catch (e) {
			throw new Error('invalid selector: ' + e.message);
		}
		return Array.from(matched).map(describe);
	})()`, selectorHelpersJS, jsString(selector))
}

// ariaProbeScript collects elements carrying the requested ARIA role, either
// explicitly or through a small implicit-role table, and describes each one
// together with its computed accessible name so the Go side can score name
// proximity.
func ariaProbeScript(role string) string {
	return fmt.Sprintf(`(() => {
		%s
		const implicitRoles = {
			'a': 'link', 'button': 'button', 'select': 'listbox',
			'textarea': 'textbox', 'nav': 'navigation', 'main': 'main',
			'form': 'form', 'img': 'img', 'table': 'table',
			'h1': 'heading', 'h2': 'heading', 'h3': 'heading',
		};
		const inputRoles = {
			'button': 'button', 'submit': 'button', 'reset': 'button',
			'checkbox': 'checkbox', 'radio': 'radio', 'range': 'slider',
			'search': 'searchbox',
		};
		const roleOf = (el) => {
			const explicit = el.getAttribute('role');
			if (explicit) return explicit;
			const tag = el.tagName.toLowerCase();
			if (tag === 'input') {
				return inputRoles[(el.type || 'text').toLowerCase()] || 'textbox';
			}
			return implicitRoles[tag] || '';
		};
		const accessibleName = (el) => {
			const label = el.getAttribute('aria-label');
			if (label) return label.trim();
			const labelledBy = el.getAttribute('aria-labelledby');
			if (labelledBy) {
				const parts = labelledBy.split(/\s+/)
					.map(id => document.getElementById(id))
					.filter(Boolean)
					.map(ref => (ref.textContent || '').trim());
				if (parts.length) return parts.join(' ');
			}
			if (el.labels && el.labels.length) {
				return (el.labels[0].textContent || '').trim();
			}
			if (el.tagName.toLowerCase() === 'input' && el.value &&
				['button', 'submit', 'reset'].includes((el.type || '').toLowerCase())) {
				return el.value.trim();
			}
			return (el.textContent || '').trim().slice(0, 120);
		};
		const want = %s;
		const result = [];
		let idx = 0;
		for (const el of document.querySelectorAll('*')) {
			if (roleOf(el) !== want) continue;
			const entry = describe(el, idx++);
			entry.label = accessibleName(el);
			entry.role = want;
			result.push(entry);
		}
		return result;
	})()`, selectorHelpersJS, jsString(role))
}
