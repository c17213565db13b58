package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"

	"github.com/v0xg/jobgate/internal/heuristics"
	"github.com/v0xg/jobgate/internal/login"
)

const defaultFieldWait = time.Second

// Page adapts a Rod page to login.Page
type Page struct {
	page *rod.Page
}

// NewPage wraps an existing Rod page
func NewPage(p *rod.Page) *Page {
	return &Page{page: p}
}

// Rod returns the underlying Rod page
func (p *Page) Rod() *rod.Page {
	return p.page
}

// Snapshot reads the current URL, title and markup
func (p *Page) Snapshot(ctx context.Context) (login.Snapshot, error) {
	pg := p.page.Context(ctx)
	info, err := pg.Info()
	if err != nil {
		return login.Snapshot{}, fmt.Errorf("page info: %w", err)
	}
	html, err := pg.HTML()
	if err != nil {
		return login.Snapshot{}, fmt.Errorf("page html: %w", err)
	}
	return login.Snapshot{URL: info.URL, Title: info.Title, HTML: html}, nil
}

// Find polls for an element matching loc for at most wait
func (p *Page) Find(ctx context.Context, loc heuristics.Locator, wait time.Duration) (login.Element, error) {
	if wait <= 0 {
		wait = defaultFieldWait
	}
	tctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	pg := p.page.Context(tctx)

	var (
		el  *rod.Element
		err error
	)
	switch loc.Strategy {
	case heuristics.CSS:
		el, err = pg.Element(loc.Value)
	case heuristics.XPath:
		el, err = pg.ElementX(loc.Value)
	case heuristics.Text:
		el, err = pg.ElementR(loc.Value, "/"+loc.Pattern+"/i")
	default:
		return nil, fmt.Errorf("unknown locator strategy %q", loc.Strategy)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, login.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %s: %v", login.ErrNotFound, loc, err)
	}
	return &element{el: el.Context(ctx)}, nil
}

// Screenshot captures the viewport as PNG
func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	return p.page.Context(ctx).Screenshot(false, nil)
}

type element struct {
	el *rod.Element
}

func (e *element) Clear() error {
	_, err := e.el.Eval(`() => {
		this.value = '';
		this.dispatchEvent(new Event('input', { bubbles: true }));
	}`)
	return err
}

func (e *element) Type(text string) error {
	return e.el.Input(text)
}

// Click dispatches the click from script rather than the mouse.
func (e *element) Click() error {
	_, err := e.el.Eval(`() => this.click()`)
	return err
}

func (e *element) PressEnter() error {
	return e.el.Type(input.Enter)
}

// Center returns the element's midpoint in viewport pixels
func (e *element) Center() (int, int, error) {
	box, err := e.el.Shape()
	if err != nil {
		return 0, 0, err
	}
	if len(box.Quads) == 0 {
		return 0, 0, fmt.Errorf("element has no shape")
	}
	quad := box.Quads[0]
	x := int((quad[0] + quad[2] + quad[4] + quad[6]) / 4)
	y := int((quad[1] + quad[3] + quad[5] + quad[7]) / 4)
	return x, y, nil
}
