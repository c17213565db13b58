package dispatch

import (
	"strings"

	"github.com/v0xg/jobgate/internal/login"
)

// Normalize trims raw and adds an https scheme when it has none. It reports
// false for empty input.
func Normalize(raw string) (string, bool) {
	u := strings.TrimSpace(raw)
	if u == "" {
		return "", false
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return u, true
}

// LikelyNeedsLogin reports whether url contains any of the job-site fragments.
// It only shapes status messages; neither path branches on it.
func LikelyNeedsLogin(url string, fragments []string) bool {
	_, ok := login.MatchKeyword(url, fragments)
	return ok
}
