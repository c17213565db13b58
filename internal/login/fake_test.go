package login

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/v0xg/jobgate/internal/heuristics"
)

// fakePage serves snapshot "before" until an element submits the form, then
// "after". Elements are keyed by locator value (text locators by
// value+"|"+element text).
type fakePage struct {
	mu        sync.Mutex
	before    Snapshot
	after     Snapshot
	elements  map[string]*fakeElement
	submitted bool
	probes    []heuristics.Locator
	snapErr   error
}

func newFakePage(before, after Snapshot) *fakePage {
	return &fakePage{before: before, after: after, elements: make(map[string]*fakeElement)}
}

func (p *fakePage) add(key string) *fakeElement {
	el := &fakeElement{page: p, key: key}
	p.elements[key] = el
	return el
}

func (p *fakePage) Snapshot(ctx context.Context) (Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snapErr != nil {
		return Snapshot{}, p.snapErr
	}
	if p.submitted {
		return p.after, nil
	}
	return p.before, nil
}

func (p *fakePage) Find(ctx context.Context, loc heuristics.Locator, wait time.Duration) (Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.probes = append(p.probes, loc)

	if loc.Strategy == heuristics.Text {
		re := regexp.MustCompile("(?i)" + loc.Pattern)
		for key, el := range p.elements {
			sel, text, ok := strings.Cut(key, "|")
			if ok && sel == loc.Value && re.MatchString(text) {
				return el, nil
			}
		}
		return nil, ErrNotFound
	}
	if el, ok := p.elements[loc.Value]; ok {
		return el, nil
	}
	return nil, ErrNotFound
}

func (p *fakePage) markSubmitted() {
	p.mu.Lock()
	p.submitted = true
	p.mu.Unlock()
}

type fakeElement struct {
	page     *fakePage
	key      string
	value    string
	cleared  int
	clicks   int
	enters   int
	submits  bool // clicking or pressing enter submits the form
	typeErr  error
	clickErr error
}

func (e *fakeElement) Clear() error {
	e.cleared++
	e.value = ""
	return nil
}

func (e *fakeElement) Type(text string) error {
	if e.typeErr != nil {
		return e.typeErr
	}
	e.value += text
	return nil
}

func (e *fakeElement) Click() error {
	if e.clickErr != nil {
		return e.clickErr
	}
	e.clicks++
	if e.submits {
		e.page.markSubmitted()
	}
	return nil
}

func (e *fakeElement) PressEnter() error {
	e.enters++
	if e.submits {
		e.page.markSubmitted()
	}
	return nil
}

type fakeSuggester struct {
	suggestions map[Field][]heuristics.Locator
	err         error
	asked       []Field
}

func (s *fakeSuggester) Suggest(ctx context.Context, page Page, fields []Field) (map[Field][]heuristics.Locator, error) {
	s.asked = append(s.asked, fields...)
	return s.suggestions, s.err
}

type fakeRecorder struct {
	stages []Stage
	marks  []int
}

func (r *fakeRecorder) Capture(ctx context.Context, stage Stage, marks map[Field]Element) {
	r.stages = append(r.stages, stage)
	r.marks = append(r.marks, len(marks))
}

var errBoom = errors.New("boom")
