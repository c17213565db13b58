package login

import "strings"

// MatchKeyword returns the first keyword contained in text, ignoring case.
func MatchKeyword(text string, keywords []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if k == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(k)) {
			return k, true
		}
	}
	return "", false
}

// IsLoginPage reports whether any login keyword appears in the page title or
// markup. It errs towards yes: a page that merely mentions "password"
// somewhere counts.
func IsLoginPage(s Snapshot, keywords []string) bool {
	_, ok := DetectKeyword(s, keywords)
	return ok
}

// DetectKeyword returns the login keyword that marks s as a login page.
// Markup is checked before the title.
func DetectKeyword(s Snapshot, keywords []string) (string, bool) {
	if k, ok := MatchKeyword(s.HTML, keywords); ok {
		return k, true
	}
	return MatchKeyword(s.Title, keywords)
}
