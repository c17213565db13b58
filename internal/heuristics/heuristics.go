// Package heuristics holds the keyword signals and ordered element locators
// that drive login detection. Markup on job sites drifts, so everything here
// can be replaced from a YAML file without rebuilding.
package heuristics

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Strategy is how a locator addresses an element.
type Strategy string

const (
	CSS   Strategy = "css"
	XPath Strategy = "xpath"
	Text  Strategy = "text" // CSS selector plus a text pattern
)

// Locator is one candidate address for a form control.
type Locator struct {
	Strategy Strategy `yaml:"strategy" json:"strategy"`
	Value    string   `yaml:"value" json:"value"`
	Pattern  string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
}

func (l Locator) String() string {
	if l.Strategy == Text {
		return fmt.Sprintf("%s:%s~/%s/i", l.Strategy, l.Value, l.Pattern)
	}
	return fmt.Sprintf("%s:%s", l.Strategy, l.Value)
}

func (l Locator) Validate() error {
	if l.Value == "" {
		return errors.New("empty value")
	}
	switch l.Strategy {
	case CSS, XPath:
		return nil
	case Text:
		if l.Pattern == "" {
			return errors.New("text locator needs a pattern")
		}
		if _, err := regexp.Compile("(?i)" + l.Pattern); err != nil {
			return fmt.Errorf("bad pattern: %w", err)
		}
		// the pattern is sent to the page as a /pattern/i literal
		if strings.Contains(l.Pattern, "/") {
			return errors.New("pattern must not contain '/'")
		}
		return nil
	default:
		return fmt.Errorf("unknown strategy %q", l.Strategy)
	}
}

// Chain is the ordered candidate list for one field kind.
type Chain struct {
	Primary  []Locator `yaml:"primary"`
	Fallback []Locator `yaml:"fallback"`
}

// All returns primary then fallback locators.
func (c Chain) All() []Locator {
	out := make([]Locator, 0, len(c.Primary)+len(c.Fallback))
	out = append(out, c.Primary...)
	return append(out, c.Fallback...)
}

// Set is a complete heuristics configuration.
type Set struct {
	LoginKeywords   []string `yaml:"login_keywords"`
	ErrorKeywords   []string `yaml:"error_keywords"`
	JobSiteKeywords []string `yaml:"job_site_keywords"`
	Username        Chain    `yaml:"username"`
	Password        Chain    `yaml:"password"`
	Submit          Chain    `yaml:"submit"`
}

func (s *Set) Validate() error {
	if len(s.LoginKeywords) == 0 {
		return errors.New("login_keywords is empty")
	}
	chains := []struct {
		name  string
		chain Chain
	}{
		{"username", s.Username},
		{"password", s.Password},
		{"submit", s.Submit},
	}
	for _, c := range chains {
		if len(c.chain.All()) == 0 && c.name != "submit" {
			return fmt.Errorf("%s: no locators", c.name)
		}
		for i, l := range c.chain.All() {
			if err := l.Validate(); err != nil {
				return fmt.Errorf("%s locator #%d: %w", c.name, i+1, err)
			}
		}
	}
	return nil
}

// Default returns a fresh copy of the built-in heuristics.
func Default() *Set {
	var s Set
	if err := yaml.Unmarshal(defaultYAML, &s); err != nil {
		panic(fmt.Sprintf("heuristics: embedded default.yaml: %v", err))
	}
	return &s
}

// Parse overlays YAML onto the defaults: sections present in data replace
// the built-in ones, absent sections keep them. A locator section replaces
// the whole chain, so naming only primary leaves fallback empty.
func Parse(data []byte) (*Set, error) {
	var present map[string]yaml.Node
	if err := yaml.Unmarshal(data, &present); err != nil {
		return nil, fmt.Errorf("parse heuristics: %w", err)
	}

	s := Default()
	for key, chain := range map[string]*Chain{"username": &s.Username, "password": &s.Password, "submit": &s.Submit} {
		if _, ok := present[key]; ok {
			*chain = Chain{}
		}
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse heuristics: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid heuristics: %w", err)
	}
	return s, nil
}

// Load reads a heuristics file. An empty path yields the defaults.
func Load(path string) (*Set, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read heuristics: %w", err)
	}
	return Parse(data)
}

// WriteDefault writes the commented built-in heuristics file.
func WriteDefault(w io.Writer) error {
	_, err := w.Write(defaultYAML)
	return err
}
