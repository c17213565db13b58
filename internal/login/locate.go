package login

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/v0xg/jobgate/internal/heuristics"
)

// Suggester proposes extra locators for fields the heuristics could not find.
type Suggester interface {
	Suggest(ctx context.Context, page Page, fields []Field) (map[Field][]heuristics.Locator, error)
}

// Finder resolves form controls by trying locator candidates in order.
type Finder struct {
	Set    *heuristics.Set
	Wait   time.Duration
	Logger *zap.Logger
}

// Chain returns the configured candidates for a field.
func (f *Finder) Chain(field Field) heuristics.Chain {
	switch field {
	case Username:
		return f.Set.Username
	case Password:
		return f.Set.Password
	case Submit:
		return f.Set.Submit
	}
	return heuristics.Chain{}
}

// Find returns the first element matched by the field's primary locators,
// then its fallback locators. A miss is not an error: ok is false.
func (f *Finder) Find(ctx context.Context, page Page, field Field) (Element, heuristics.Locator, bool) {
	chain := f.Chain(field)
	if el, loc, ok := f.Try(ctx, page, field, "primary", chain.Primary); ok {
		return el, loc, true
	}
	return f.Try(ctx, page, field, "fallback", chain.Fallback)
}

// Try probes candidates in order, each with a bounded wait.
func (f *Finder) Try(ctx context.Context, page Page, field Field, pass string, candidates []heuristics.Locator) (Element, heuristics.Locator, bool) {
	for i, loc := range candidates {
		if ctx.Err() != nil {
			break
		}
		el, err := page.Find(ctx, loc, f.Wait)
		if err != nil || el == nil {
			f.Logger.Debug("locator missed",
				zap.String("field", string(field)),
				zap.String("pass", pass),
				zap.Int("index", i+1),
				zap.Stringer("locator", loc))
			continue
		}
		f.Logger.Debug("locator matched",
			zap.String("field", string(field)),
			zap.String("pass", pass),
			zap.Int("index", i+1),
			zap.Stringer("locator", loc))
		return el, loc, true
	}
	return nil, heuristics.Locator{}, false
}
