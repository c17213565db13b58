package login

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/v0xg/jobgate/internal/credentials"
	"github.com/v0xg/jobgate/internal/heuristics"
)

const (
	loginURL  = "https://sso.example.edu/login"
	loginHTML = `<html><head><title>Sign In</title></head><body><form>
<input name="username"><input name="password" type="password"><button type="submit">Sign in</button>
</form></body></html>`
)

var creds = &credentials.Record{Username: "sdoe", Password: "hunter2"}

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	return New(heuristics.Default(), Options{}, zaptest.NewLogger(t))
}

// standardPage has username, password and a submit button that navigates to
// after.
func standardPage(after Snapshot) (*fakePage, *fakeElement, *fakeElement, *fakeElement) {
	p := newFakePage(Snapshot{URL: loginURL, Title: "Sign In", HTML: loginHTML}, after)
	user := p.add("input[name='username']")
	pass := p.add("input[name='password']")
	submit := p.add("button[type='submit']")
	submit.submits = true
	return p, user, pass, submit
}

func TestRun_NoLoginNeeded(t *testing.T) {
	home := Snapshot{URL: "https://www.google.com", Title: "Google", HTML: "<html><body>Search</body></html>"}
	p := newFakePage(home, home)

	res := newTestExecutor(t).Run(context.Background(), p, creds)

	assert.Equal(t, NoLoginNeeded, res.Outcome)
	assert.Empty(t, p.probes, "no locator should be probed on a non-login page")
	assert.Equal(t, home.URL, res.StartURL)
	_, err := uuid.Parse(res.AttemptID)
	assert.NoError(t, err)
}

func TestRun_Succeeded(t *testing.T) {
	p, user, pass, submit := standardPage(Snapshot{
		URL:   "https://myworkday.com/home",
		Title: "Home",
		HTML:  "<html><body>Welcome back</body></html>",
	})

	res := newTestExecutor(t).Run(context.Background(), p, creds)

	require.Equal(t, LoginSucceeded, res.Outcome, res.Status())
	assert.Equal(t, "sdoe", user.value)
	assert.Equal(t, "hunter2", pass.value)
	assert.Equal(t, 1, user.cleared)
	assert.Equal(t, 1, pass.cleared)
	assert.Equal(t, 1, submit.clicks)
	assert.Zero(t, pass.enters)
	assert.Equal(t, loginURL, res.StartURL)
	assert.Equal(t, "https://myworkday.com/home", res.FinalURL)
	assert.Equal(t, heuristics.Locator{Strategy: heuristics.CSS, Value: "input[name='username']"}, res.Matched[Username])
	assert.Equal(t, "username", res.Keyword)
	assert.True(t, res.Succeeded())
}

func TestRun_StillOnLoginPage(t *testing.T) {
	p, _, _, _ := standardPage(Snapshot{URL: loginURL, Title: "Sign In", HTML: loginHTML})

	res := newTestExecutor(t).Run(context.Background(), p, creds)

	assert.Equal(t, LoginFailedStillOnLogin, res.Outcome)
	assert.False(t, res.Succeeded())
}

func TestRun_SameURLWithoutLoginKeywordsSucceeds(t *testing.T) {
	p, _, _, _ := standardPage(Snapshot{URL: loginURL, Title: "Dashboard", HTML: "<body>Dashboard</body>"})

	res := newTestExecutor(t).Run(context.Background(), p, creds)

	assert.Equal(t, LoginSucceeded, res.Outcome)
}

func TestRun_ErrorDetectedEvenIfURLChanged(t *testing.T) {
	p, _, _, _ := standardPage(Snapshot{
		URL:  "https://sso.example.edu/login?attempt=2",
		HTML: "<body><p>Invalid username or password</p></body>",
	})

	res := newTestExecutor(t).Run(context.Background(), p, creds)

	assert.Equal(t, LoginFailedErrorDetected, res.Outcome)
}

func TestRun_FieldsMissing(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		missing []Field
	}{
		{"no fields", nil, []Field{Username, Password}},
		{"no password", []string{"input[name='userid']"}, []Field{Password}},
		{"no username", []string{"input[type='password']"}, []Field{Username}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newFakePage(Snapshot{URL: loginURL, HTML: "<p>Enter your password</p>"}, Snapshot{})
			for _, k := range tt.keys {
				p.add(k)
			}

			res := newTestExecutor(t).Run(context.Background(), p, creds)

			assert.Equal(t, LoginFieldsMissing, res.Outcome)
			assert.Equal(t, tt.missing, res.Missing)
			for _, f := range tt.missing {
				assert.Contains(t, res.Status(), string(f))
			}
		})
	}
}

func TestRun_EnterWhenNoSubmitButton(t *testing.T) {
	p := newFakePage(Snapshot{URL: loginURL, HTML: loginHTML}, Snapshot{URL: "https://example.edu/portal", HTML: "<body>hi</body>"})
	p.add("input[name='j_username']")
	pass := p.add("input[name='j_password']")
	pass.submits = true

	res := newTestExecutor(t).Run(context.Background(), p, creds)

	assert.Equal(t, LoginSucceeded, res.Outcome)
	assert.Equal(t, 1, pass.enters)
	_, hasSubmit := res.Matched[Submit]
	assert.False(t, hasSubmit)
}

func TestRun_TextLocatorSubmit(t *testing.T) {
	p := newFakePage(Snapshot{URL: loginURL, HTML: loginHTML}, Snapshot{URL: "https://example.edu/portal"})
	p.add("input[name='user']")
	p.add("input[name='pwd']")
	btn := p.add("button|  LOGIN  ")
	btn.submits = true

	res := newTestExecutor(t).Run(context.Background(), p, creds)

	assert.Equal(t, LoginSucceeded, res.Outcome)
	assert.Equal(t, 1, btn.clicks)
	assert.Equal(t, heuristics.Text, res.Matched[Submit].Strategy)
}

func TestRun_SubmissionException(t *testing.T) {
	t.Run("type fails", func(t *testing.T) {
		p, user, _, _ := standardPage(Snapshot{})
		user.typeErr = errBoom

		res := newTestExecutor(t).Run(context.Background(), p, creds)

		assert.Equal(t, SubmissionException, res.Outcome)
		assert.Contains(t, res.Err, "boom")
		assert.Contains(t, res.Status(), "boom")
	})

	t.Run("click fails", func(t *testing.T) {
		p, _, _, submit := standardPage(Snapshot{})
		submit.clickErr = errBoom

		res := newTestExecutor(t).Run(context.Background(), p, creds)

		assert.Equal(t, SubmissionException, res.Outcome)
		assert.Contains(t, res.Err, "click submit")
	})

	t.Run("snapshot fails", func(t *testing.T) {
		p, _, _, _ := standardPage(Snapshot{})
		p.snapErr = errBoom

		res := newTestExecutor(t).Run(context.Background(), p, creds)

		assert.Equal(t, SubmissionException, res.Outcome)
	})
}

func TestRun_PriorityOrder(t *testing.T) {
	p, _, _, _ := standardPage(Snapshot{URL: "https://example.edu/portal"})
	// a generic fallback is also present but must lose to the specific one
	p.add("input[type='email']")
	p.add("//input[@type='password']")

	res := newTestExecutor(t).Run(context.Background(), p, creds)

	assert.Equal(t, "input[name='username']", res.Matched[Username].Value)
	assert.Equal(t, "input[name='password']", res.Matched[Password].Value)
}

func TestRun_SuggesterFillsGaps(t *testing.T) {
	p := newFakePage(Snapshot{URL: loginURL, HTML: loginHTML}, Snapshot{URL: "https://example.edu/portal"})
	p.add("input[name='username']")
	p.add("#weird-secret-box").submits = true

	s := &fakeSuggester{suggestions: map[Field][]heuristics.Locator{
		Password: {{Strategy: heuristics.CSS, Value: "#nope"}, {Strategy: heuristics.CSS, Value: "#weird-secret-box"}},
	}}
	res := newTestExecutor(t).WithSuggester(s).Run(context.Background(), p, creds)

	assert.Equal(t, []Field{Password}, s.asked)
	assert.Equal(t, LoginSucceeded, res.Outcome)
	assert.Equal(t, "#weird-secret-box", res.Matched[Password].Value)
}

func TestRun_SuggesterErrorMeansMissing(t *testing.T) {
	p := newFakePage(Snapshot{URL: loginURL, HTML: loginHTML}, Snapshot{})
	p.add("input[name='username']")

	s := &fakeSuggester{err: errBoom}
	res := newTestExecutor(t).WithSuggester(s).Run(context.Background(), p, creds)

	assert.Equal(t, LoginFieldsMissing, res.Outcome)
	assert.Equal(t, []Field{Password}, res.Missing)
}

func TestRun_RecorderStages(t *testing.T) {
	p, _, _, _ := standardPage(Snapshot{URL: "https://example.edu/portal"})
	r := &fakeRecorder{}

	newTestExecutor(t).WithRecorder(r).Run(context.Background(), p, creds)

	assert.Equal(t, []Stage{StageLoginCheck, StageFilled, StageOutcome}, r.stages)
	assert.Equal(t, []int{0, 3, 0}, r.marks)
}

func TestRun_SettleDelay(t *testing.T) {
	home := Snapshot{URL: "https://example.com", HTML: "<body>hello</body>"}
	p := newFakePage(home, home)
	e := New(heuristics.Default(), Options{SettleDelay: 30 * time.Millisecond}, nil)

	start := time.Now()
	e.Run(context.Background(), p, creds)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestRun_CanceledContextSkipsWaits(t *testing.T) {
	home := Snapshot{URL: "https://example.com", HTML: "<body>hello</body>"}
	p := newFakePage(home, home)
	e := New(heuristics.Default(), Options{SettleDelay: time.Hour}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := e.Run(ctx, p, creds)
	assert.Equal(t, NoLoginNeeded, res.Outcome)
}

func TestRun_CanceledDuringSearchIsException(t *testing.T) {
	p, user, _, _ := standardPage(Snapshot{URL: "https://myworkday.com/home"})
	e := New(heuristics.Default(), Options{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := e.Run(ctx, p, creds)

	assert.Equal(t, SubmissionException, res.Outcome)
	assert.Contains(t, res.Err, context.Canceled.Error())
	assert.Empty(t, res.Missing, "an interrupted search is not a missing field")
	assert.Empty(t, user.value)
}

func TestRun_NilCredentials(t *testing.T) {
	p, user, _, submit := standardPage(Snapshot{URL: "https://myworkday.com/home"})

	var res *Result
	require.NotPanics(t, func() {
		res = newTestExecutor(t).Run(context.Background(), p, nil)
	})

	assert.Equal(t, SubmissionException, res.Outcome)
	assert.Equal(t, errNoCredentials.Error(), res.Err)
	assert.Empty(t, p.probes)
	assert.Empty(t, user.value)
	assert.Zero(t, submit.clicks)
}
