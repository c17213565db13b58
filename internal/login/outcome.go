package login

import (
	"fmt"
	"strings"

	"github.com/v0xg/jobgate/internal/heuristics"
)

// Outcome classifies a finished login attempt.
type Outcome string

const (
	NoLoginNeeded            Outcome = "no_login_needed"
	LoginSucceeded           Outcome = "login_succeeded"
	LoginFailedErrorDetected Outcome = "login_failed_error_detected"
	LoginFailedStillOnLogin  Outcome = "login_failed_still_on_login_page"
	LoginFieldsMissing       Outcome = "login_fields_missing"
	SubmissionException      Outcome = "submission_exception"
)

// Outcomes lists every outcome, in state-machine order.
var Outcomes = []Outcome{
	NoLoginNeeded,
	LoginFieldsMissing,
	SubmissionException,
	LoginFailedErrorDetected,
	LoginFailedStillOnLogin,
	LoginSucceeded,
}

// Result is the record of one attempt. It is never persisted.
type Result struct {
	AttemptID string
	Outcome   Outcome
	StartURL  string
	FinalURL  string
	Keyword   string // login keyword that triggered the attempt
	Matched   map[Field]heuristics.Locator
	Missing   []Field
	Err       string
}

// Status renders the result for a human operator.
func (r *Result) Status() string {
	switch r.Outcome {
	case NoLoginNeeded:
		return "ℹ No login required - page loaded directly"
	case LoginSucceeded:
		return "✓ Login completed successfully! Page changed after login."
	case LoginFailedErrorDetected:
		return "⚠ Login attempted but failed - error detected on page"
	case LoginFailedStillOnLogin:
		return "⚠ Login attempted but still on login page - may have failed"
	case LoginFieldsMissing:
		names := make([]string, len(r.Missing))
		for i, f := range r.Missing {
			names[i] = string(f)
		}
		return fmt.Sprintf("⚠ Login page detected but couldn't find %s field(s) - please login manually", strings.Join(names, ", "))
	case SubmissionException:
		return fmt.Sprintf("✗ Error during login form submission: %s", r.Err)
	default:
		return fmt.Sprintf("unknown outcome %q", r.Outcome)
	}
}

// Succeeded reports whether the attempt left the user logged in or never
// needed to.
func (r *Result) Succeeded() bool {
	return r.Outcome == LoginSucceeded || r.Outcome == NoLoginNeeded
}
