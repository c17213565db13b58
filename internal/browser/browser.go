package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Options configures the automation browser
type Options struct {
	Bin         string // Chrome executable; empty uses the driver's own lookup
	ProfileDir  string // --user-data-dir
	ProfileName string // --profile-directory inside ProfileDir
	DebugPort   int    // --remote-debugging-port, 0 picks one
	Headless    bool
	// KeepOpen leaves Chrome running after this process exits, so the user
	// can carry on in the window after an automated login.
	KeepOpen bool
	Timeout  time.Duration // navigation timeout
}

// Session wraps the Rod browser and the page it opened
type Session struct {
	*Page
	browser *rod.Browser
}

// Close shuts the browser down
func (s *Session) Close() error {
	var errs []error
	if s.Page != nil && s.Page.page != nil {
		errs = append(errs, s.Page.page.Close())
	}
	if s.browser != nil {
		errs = append(errs, s.browser.Close())
	}
	return errors.Join(errs...)
}

// Launcher starts automation browsers
type Launcher struct{}

// Launch starts a separate Chrome instance and navigates to url
func (Launcher) Launch(ctx context.Context, opts Options, url string) (*Session, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	l := launcher.New().Headless(opts.Headless).Leakless(!opts.KeepOpen)

	bin := opts.Bin
	if bin == "" {
		bin, _ = launcher.LookPath()
	}
	if bin != "" {
		l = l.Bin(bin)
	}
	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	}
	if opts.ProfileName != "" {
		l = l.ProfileDir(opts.ProfileName)
	}
	if opts.DebugPort > 0 {
		l = l.RemoteDebuggingPort(opts.DebugPort)
	}
	l = l.Set("start-maximized").
		Set("disable-blink-features", "AutomationControlled").
		Delete("enable-automation")

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	b, err := connect(ctx, u, l, opts.ProfileDir == "")
	if err != nil {
		return nil, err
	}
	// Later calls must outlive a request-scoped ctx.
	b = b.Context(context.Background())

	page, err := b.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("open %s: %w", url, err)
	}

	// A slow load is not fatal; the login check settles and looks anyway.
	_ = page.Timeout(opts.Timeout).WaitLoad()

	return &Session{Page: &Page{page: page}, browser: b}, nil
}

// chromeProcess is the part of *launcher.Launcher used to abandon a launch
type chromeProcess interface {
	Kill()
	Cleanup()
}

// connect attaches to the browser at controlURL. On failure the process is
// killed, since nothing else would stop it when leakless is off; a
// temporary profile directory is removed as well.
func connect(ctx context.Context, controlURL string, proc chromeProcess, tempProfile bool) (*rod.Browser, error) {
	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		proc.Kill()
		if tempProfile {
			proc.Cleanup()
		}
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	return b, nil
}
