package login

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/v0xg/jobgate/internal/credentials"
	"github.com/v0xg/jobgate/internal/heuristics"
)

// Stage names the points at which a Recorder is called.
type Stage string

const (
	StageLoginCheck Stage = "login_check"
	StageFilled     Stage = "filled"
	StageOutcome    Stage = "outcome_check"
)

// Recorder observes an attempt, e.g. to keep screenshots for the operator.
// marks holds the elements located so far, keyed by field.
type Recorder interface {
	Capture(ctx context.Context, stage Stage, marks map[Field]Element)
}

// Options holds the fixed waits of an attempt.
type Options struct {
	SettleDelay     time.Duration // before the first snapshot
	PostSubmitDelay time.Duration // before the outcome snapshot
	FieldWait       time.Duration // per locator candidate
	FillPause       time.Duration // between clearing and typing
	SubmitPause     time.Duration // between filling and submitting
}

var errNoCredentials = errors.New("no credential record")

// Executor runs the detect, locate, fill, submit, classify procedure.
type Executor struct {
	set       *heuristics.Set
	opts      Options
	logger    *zap.Logger
	finder    *Finder
	suggester Suggester
	recorder  Recorder
}

// New creates an executor. A nil logger discards output.
func New(set *heuristics.Set, opts Options, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if set == nil {
		set = heuristics.Default()
	}
	return &Executor{
		set:    set,
		opts:   opts,
		logger: logger,
		finder: &Finder{Set: set, Wait: opts.FieldWait, Logger: logger},
	}
}

// WithSuggester adds a last-resort locator source for missing fields.
func (e *Executor) WithSuggester(s Suggester) *Executor {
	e.suggester = s
	return e
}

// WithRecorder attaches a Recorder.
func (e *Executor) WithRecorder(r Recorder) *Executor {
	e.recorder = r
	return e
}

// Run performs one login attempt on page. Every failure is folded into the
// returned Result; there is no rollback of partially filled forms.
func (e *Executor) Run(ctx context.Context, page Page, creds *credentials.Record) *Result {
	res := &Result{
		AttemptID: uuid.NewString(),
		Matched:   make(map[Field]heuristics.Locator),
	}
	log := e.logger.With(zap.String("attempt", res.AttemptID))
	if creds == nil {
		return e.fail(log, res, errNoCredentials)
	}

	log.Info("checking for login page")
	sleep(ctx, e.opts.SettleDelay)

	before, err := page.Snapshot(ctx)
	if err != nil {
		return e.fail(log, res, fmt.Errorf("snapshot: %w", err))
	}
	res.StartURL = before.URL
	res.FinalURL = before.URL
	log.Info("page loaded", zap.String("url", before.URL), zap.String("title", before.Title))

	keyword, isLogin := DetectKeyword(before, e.set.LoginKeywords)
	e.capture(ctx, StageLoginCheck, nil)
	if !isLogin {
		res.Outcome = NoLoginNeeded
		log.Info("no login required")
		return res
	}
	res.Keyword = keyword
	log.Info("login page detected", zap.String("keyword", keyword))

	found := e.locate(ctx, log, page, res)
	if err := ctx.Err(); err != nil {
		// the search was cut short, not exhausted
		return e.fail(log, res, fmt.Errorf("locate fields: %w", err))
	}
	user, pass, submit := found[Username], found[Password], found[Submit]

	log.Info("fields located",
		zap.Bool("username", user != nil),
		zap.Bool("password", pass != nil),
		zap.Bool("submit", submit != nil))

	if user == nil {
		res.Missing = append(res.Missing, Username)
	}
	if pass == nil {
		res.Missing = append(res.Missing, Password)
	}
	if len(res.Missing) > 0 {
		res.Outcome = LoginFieldsMissing
		log.Warn("login fields missing", zap.Any("missing", res.Missing))
		return res
	}

	if err := e.fill(ctx, user, creds.Username, pass, creds.Password); err != nil {
		return e.fail(log, res, err)
	}
	log.Info("credentials entered", zap.String("username", creds.Username))
	e.capture(ctx, StageFilled, found)

	sleep(ctx, e.opts.SubmitPause)
	if err := e.submit(log, submit, pass); err != nil {
		return e.fail(log, res, err)
	}

	log.Info("waiting for login to complete")
	sleep(ctx, e.opts.PostSubmitDelay)

	after, err := page.Snapshot(ctx)
	if err != nil {
		return e.fail(log, res, fmt.Errorf("snapshot after submit: %w", err))
	}
	res.FinalURL = after.URL
	e.capture(ctx, StageOutcome, nil)

	res.Outcome = e.classify(before, after)
	log.Info("login attempt finished",
		zap.String("outcome", string(res.Outcome)),
		zap.String("url", after.URL))
	return res
}

// locate resolves all three fields. Required fields still missing after the
// heuristic passes are offered to the suggester, if any.
func (e *Executor) locate(ctx context.Context, log *zap.Logger, page Page, res *Result) map[Field]Element {
	found := make(map[Field]Element, 3)
	var missing []Field
	for _, f := range []Field{Username, Password, Submit} {
		log.Debug("searching for field", zap.String("field", string(f)))
		if el, loc, ok := e.finder.Find(ctx, page, f); ok {
			found[f] = el
			res.Matched[f] = loc
		} else if f != Submit {
			missing = append(missing, f)
		}
	}

	if len(missing) == 0 || e.suggester == nil {
		return found
	}

	suggestions, err := e.suggester.Suggest(ctx, page, missing)
	if err != nil {
		log.Warn("locator suggestion failed", zap.Error(err))
		return found
	}
	for _, f := range missing {
		if el, loc, ok := e.finder.Try(ctx, page, f, "suggested", suggestions[f]); ok {
			found[f] = el
			res.Matched[f] = loc
		}
	}
	return found
}

func (e *Executor) fill(ctx context.Context, user Element, username string, pass Element, password string) error {
	if err := user.Clear(); err != nil {
		return fmt.Errorf("clear username: %w", err)
	}
	sleep(ctx, e.opts.FillPause)
	if err := user.Type(username); err != nil {
		return fmt.Errorf("type username: %w", err)
	}

	if err := pass.Clear(); err != nil {
		return fmt.Errorf("clear password: %w", err)
	}
	sleep(ctx, e.opts.FillPause)
	if err := pass.Type(password); err != nil {
		return fmt.Errorf("type password: %w", err)
	}
	return nil
}

func (e *Executor) submit(log *zap.Logger, submit, pass Element) error {
	if submit != nil {
		log.Info("clicking submit button")
		if err := submit.Click(); err != nil {
			return fmt.Errorf("click submit: %w", err)
		}
		return nil
	}
	log.Info("no submit button, pressing enter")
	if err := pass.PressEnter(); err != nil {
		return fmt.Errorf("press enter: %w", err)
	}
	return nil
}

// classify inspects the post-submit page. Error keywords win over a URL
// change; an unchanged URL alone is not a failure unless login keywords
// remain.
func (e *Executor) classify(before, after Snapshot) Outcome {
	if _, ok := MatchKeyword(after.HTML, e.set.ErrorKeywords); ok {
		return LoginFailedErrorDetected
	}
	_, stillLogin := MatchKeyword(after.HTML, e.set.LoginKeywords)
	if stillLogin && after.URL == before.URL {
		return LoginFailedStillOnLogin
	}
	return LoginSucceeded
}

func (e *Executor) fail(log *zap.Logger, res *Result, err error) *Result {
	res.Outcome = SubmissionException
	res.Err = err.Error()
	log.Warn("login attempt aborted", zap.Error(err))
	return res
}

func (e *Executor) capture(ctx context.Context, stage Stage, marks map[Field]Element) {
	if e.recorder != nil {
		e.recorder.Capture(ctx, stage, marks)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
