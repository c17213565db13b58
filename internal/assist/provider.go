// Package assist asks a language model for CSS selectors when none of the
// configured locators find a login field.
package assist

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/v0xg/jobgate/internal/browser"
	"github.com/v0xg/jobgate/internal/heuristics"
	"github.com/v0xg/jobgate/internal/login"
)

// Provider defines the interface for model-backed selector suggestions
type Provider interface {
	SuggestSelectors(ctx context.Context, pageMap *browser.PageMap, fields []login.Field) (map[login.Field][]string, error)
}

// NewProvider creates a new provider based on the provider name
func NewProvider(name, model string) (Provider, error) {
	switch name {
	case "claude", "anthropic":
		return NewClaudeProvider(model)
	case "openai", "gpt":
		return NewOpenAIProvider(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: claude, openai)", name)
	}
}

// Mapper is implemented by pages that can describe their form elements
type Mapper interface {
	Map(ctx context.Context) (*browser.PageMap, error)
}

// Suggester adapts a Provider to login.Suggester
type Suggester struct {
	Provider Provider
	Logger   *zap.Logger
}

func NewSuggester(p Provider, logger *zap.Logger) *Suggester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Suggester{Provider: p, Logger: logger}
}

var errNoMap = errors.New("page cannot describe its elements")

// Suggest maps the page and asks the provider for selectors for fields
func (s *Suggester) Suggest(ctx context.Context, page login.Page, fields []login.Field) (map[login.Field][]heuristics.Locator, error) {
	mapper, ok := page.(Mapper)
	if !ok {
		return nil, errNoMap
	}
	pageMap, err := mapper.Map(ctx)
	if err != nil {
		return nil, fmt.Errorf("map page: %w", err)
	}
	if len(pageMap.Elements) == 0 {
		return nil, nil
	}

	s.Logger.Info("asking model for selectors",
		zap.Int("elements", len(pageMap.Elements)),
		zap.Any("fields", fields))

	selectors, err := s.Provider.SuggestSelectors(ctx, pageMap, fields)
	if err != nil {
		return nil, err
	}

	out := make(map[login.Field][]heuristics.Locator, len(selectors))
	for _, f := range fields {
		for _, sel := range selectors[f] {
			if sel == "" {
				continue
			}
			out[f] = append(out[f], heuristics.Locator{Strategy: heuristics.CSS, Value: sel})
		}
	}
	return out, nil
}
