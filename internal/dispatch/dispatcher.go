// Package dispatch turns a URL typed by the user into a browser action: a new
// tab in the user's own Chrome, or a separate automation browser that tries
// to log in.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/v0xg/jobgate/internal/browser"
	"github.com/v0xg/jobgate/internal/config"
	"github.com/v0xg/jobgate/internal/credentials"
	"github.com/v0xg/jobgate/internal/heuristics"
	"github.com/v0xg/jobgate/internal/host"
	"github.com/v0xg/jobgate/internal/login"
	"github.com/v0xg/jobgate/internal/metrics"
	"github.com/v0xg/jobgate/internal/trail"
)

const emptyURLStatus = "✗ Please enter a URL"

// Tab is an automation browser showing one page.
type Tab interface {
	login.Page
	Close() error
}

// Launcher starts automation browsers.
type Launcher interface {
	Launch(ctx context.Context, opts browser.Options, url string) (Tab, error)
}

// Chrome is the go-rod Launcher.
type Chrome struct{}

func (Chrome) Launch(ctx context.Context, opts browser.Options, url string) (Tab, error) {
	s, err := browser.Launcher{}.Launch(ctx, opts, url)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Dispatcher implements the two delivery paths and the profile check. Every
// public method returns a status line for the operator and never an error.
type Dispatcher struct {
	cfg       *config.Config
	set       *heuristics.Set
	host      host.Host
	browsers  Launcher
	suggester login.Suggester
	logger    *zap.Logger

	// wait is replaced in tests
	wait func(ctx context.Context, d time.Duration)
}

func New(cfg *config.Config, set *heuristics.Set, h host.Host, l Launcher, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if set == nil {
		set = heuristics.Default()
	}
	return &Dispatcher{
		cfg:      cfg,
		set:      set,
		host:     h,
		browsers: l,
		logger:   logger,
		wait:     sleep,
	}
}

// WithSuggester enables model-assisted locating for auto-login attempts.
func (d *Dispatcher) WithSuggester(s login.Suggester) *Dispatcher {
	d.suggester = s
	return d
}

// OpenExisting opens url in a new tab of the user's own Chrome. It never
// tries to log in; a job-site URL only adds a manual-login reminder.
func (d *Dispatcher) OpenExisting(ctx context.Context, raw string) string {
	url, ok := Normalize(raw)
	if !ok {
		metrics.ObserveDispatch(metrics.PathExisting, metrics.ResultInvalid)
		return emptyURLStatus
	}
	log := d.logger.With(zap.String("url", url))

	path, err := d.host.Locate(d.cfg.Chrome.Paths)
	if err != nil {
		log.Warn("chrome not found", zap.Error(err))
		metrics.ObserveDispatch(metrics.PathExisting, metrics.ResultNoExec)
		return fmt.Sprintf("✗ Error opening in existing Chrome: %v\nUse \"Force Auto-Login\" to open a separate browser instead.", err)
	}

	if err := d.host.Launch(path, "--new-tab", url); err != nil {
		log.Warn("chrome launch failed", zap.Error(err))
		metrics.ObserveDispatch(metrics.PathExisting, metrics.ResultError)
		return fmt.Sprintf("✗ Error opening in existing Chrome: %v", err)
	}
	metrics.ObserveDispatch(metrics.PathExisting, metrics.ResultOK)
	log.Info("opened in existing chrome", zap.String("chrome", path))

	var b strings.Builder
	fmt.Fprintf(&b, "✓ Successfully opened in new tab: %s\nCheck your Chrome browser for the new tab.\n", url)
	if LikelyNeedsLogin(url, d.set.JobSiteKeywords) {
		b.WriteString("⚠ This opened in your existing Chrome browser. You'll need to log in manually; auto-login requires a separate browser.\n")
		b.WriteString("Tip: if you need auto-login, use \"Force Auto-Login (Separate Browser)\".")
	} else {
		b.WriteString("The interface remains open for more URLs.")
	}
	return b.String()
}

// AutoLogin opens url in the isolated automation browser and runs one login
// attempt whatever the URL looks like. The window stays open afterwards.
func (d *Dispatcher) AutoLogin(ctx context.Context, raw string) string {
	url, ok := Normalize(raw)
	if !ok {
		metrics.ObserveDispatch(metrics.PathAutoLogin, metrics.ResultInvalid)
		return emptyURLStatus
	}
	log := d.logger.With(zap.String("url", url))

	// Credentials first: no browser is started for an attempt that cannot
	// be completed.
	creds, err := credentials.LoadLogin(d.cfg.Credentials)
	if err != nil {
		log.Warn("credentials unavailable", zap.Error(err))
		metrics.ObserveDispatch(metrics.PathAutoLogin, metrics.ResultError)
		return fmt.Sprintf("✗ Cannot auto-login: %v", err)
	}

	bin, err := d.host.Locate(d.cfg.Chrome.Paths)
	if err != nil {
		log.Warn("chrome not found", zap.Error(err))
		metrics.ObserveDispatch(metrics.PathAutoLogin, metrics.ResultNoExec)
		return fmt.Sprintf("✗ Error with browser automation: %v", err)
	}

	log.Info("opening automation browser", zap.String("profile", d.cfg.Chrome.AutomationProfileDir))
	tab, err := d.browsers.Launch(ctx, browser.Options{
		Bin:        bin,
		ProfileDir: d.cfg.Chrome.AutomationProfileDir,
		DebugPort:  d.cfg.Chrome.DebugPort,
		Headless:   d.cfg.Chrome.Headless,
		KeepOpen:   !d.cfg.Chrome.Headless,
	}, url)
	if err != nil {
		log.Warn("automation browser failed", zap.Error(err))
		metrics.ObserveDispatch(metrics.PathAutoLogin, metrics.ResultError)
		return fmt.Sprintf("✗ Error with browser automation: %v", err)
	}
	metrics.ObserveDispatch(metrics.PathAutoLogin, metrics.ResultOK)

	exec := login.New(d.set, loginOptions(d.cfg.Login), d.logger)
	if d.suggester != nil {
		exec.WithSuggester(d.suggester)
	}
	var rec *trail.Recorder
	if d.cfg.Trail.Dir != "" {
		rec = trail.NewRecorder(tab, d.logger)
		exec.WithRecorder(rec)
	}

	start := time.Now()
	res := exec.Run(ctx, tab, creds)
	metrics.ObserveLogin(string(res.Outcome), time.Since(start))

	var trailPath string
	if rec != nil {
		trailPath, err = rec.Save(d.cfg.Trail.Dir, res.AttemptID, trail.GIFOptions{MaxWidth: d.cfg.Trail.Width})
		if err != nil {
			log.Warn("trail not saved", zap.Error(err))
		}
	}

	// Only a visible window is left for the user.
	if d.cfg.Chrome.Headless {
		if err := tab.Close(); err != nil {
			log.Debug("close browser", zap.Error(err))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✓ Successfully opened: %s\nLogin Status: %s\n", url, res.Status())
	if trailPath != "" {
		fmt.Fprintf(&b, "Trail: %s\n", trailPath)
	}
	if d.cfg.Chrome.Headless {
		b.WriteString("The headless browser has been closed.")
	} else {
		b.WriteString("A separate Chrome window was opened for auto-login and will remain open for your use.")
	}
	return b.String()
}

func loginOptions(c config.LoginConfig) login.Options {
	return login.Options{
		SettleDelay:     c.SettleDelay,
		PostSubmitDelay: c.PostSubmitDelay,
		FieldWait:       c.FieldWait,
		FillPause:       c.FillPause,
		SubmitPause:     c.SubmitPause,
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
