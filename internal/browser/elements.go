package browser

import (
	"context"
	"fmt"
)

// Map extracts the visible inputs and buttons of the page
func (p *Page) Map(ctx context.Context) (*PageMap, error) {
	pg := p.page.Context(ctx)

	info, err := pg.Info()
	if err != nil {
		return nil, fmt.Errorf("page info: %w", err)
	}

	res, err := pg.Eval(`() => {
		const elements = [];
		const seen = new Set();

		// CSS identifiers can't start with a digit or contain selector syntax
		function isValidIdent(s) {
			if (!s) return false;
			if (/^-?[0-9]/.test(s)) return false;
			if (/[.:#\[\]()>~+*\/\\\s]/.test(s)) return false;
			return true;
		}

		function getSelector(el) {
			const tag = el.tagName.toLowerCase();
			if (el.id && isValidIdent(el.id)) return '#' + el.id;
			if (el.name) return tag + '[name="' + el.name + '"]';
			if (el.className && typeof el.className === 'string') {
				const classes = el.className.trim().split(/\s+/).filter(isValidIdent).slice(0, 2);
				if (classes.length > 0) {
					const sel = tag + '.' + classes.join('.');
					try {
						if (document.querySelectorAll(sel).length === 1) return sel;
					} catch (e) {}
				}
			}
			const parent = el.parentElement;
			if (parent) {
				const index = Array.from(parent.children).indexOf(el) + 1;
				return getSelector(parent) + ' > ' + tag + ':nth-child(' + index + ')';
			}
			return tag;
		}

		function labelFor(el) {
			if (el.labels && el.labels.length > 0) return el.labels[0].textContent.trim().slice(0, 50);
			return el.getAttribute('aria-label') || '';
		}

		document.querySelectorAll('input:not([type="hidden"]), button, [role="button"]').forEach(el => {
			if (!el.offsetParent) return;
			const selector = getSelector(el);
			if (seen.has(selector)) return;
			seen.add(selector);
			elements.push({
				selector: selector,
				tag: el.tagName.toLowerCase(),
				type: el.getAttribute('type') || '',
				text: (el.textContent || el.value || '').trim().slice(0, 50),
				placeholder: el.placeholder || '',
				name: el.name || '',
				id: el.id || '',
				autocomplete: el.getAttribute('autocomplete') || '',
				label: labelFor(el)
			});
		});

		return elements;
	}`)
	if err != nil {
		return nil, fmt.Errorf("extract elements: %w", err)
	}

	var elements []Element
	for _, v := range res.Value.Arr() {
		elements = append(elements, Element{
			Selector:     v.Get("selector").String(),
			Tag:          v.Get("tag").String(),
			Type:         v.Get("type").String(),
			Text:         v.Get("text").String(),
			Placeholder:  v.Get("placeholder").String(),
			Name:         v.Get("name").String(),
			ID:           v.Get("id").String(),
			Autocomplete: v.Get("autocomplete").String(),
			Label:        v.Get("label").String(),
		})
	}

	return &PageMap{
		URL:      info.URL,
		Title:    info.Title,
		Elements: elements,
	}, nil
}
