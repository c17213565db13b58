package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/v0xg/jobgate/internal/browser"
	"github.com/v0xg/jobgate/internal/credentials"
	"github.com/v0xg/jobgate/internal/metrics"
)

const (
	ProfileCheckURL  = "https://www.google.com"
	ProfileName      = "Default"
	profileKillWait  = 2 * time.Second
	profileCheckHold = 3 * time.Second
)

// ProfileCheck verifies that the personal-data file is readable and that
// the automation driver can start Chrome on the user's default profile.
// Running Chrome processes are terminated first so the profile is not locked.
func (d *Dispatcher) ProfileCheck(ctx context.Context) string {
	info, err := credentials.LoadPersonalInfo(d.cfg.Credentials)
	if err != nil {
		d.logger.Warn("personal info unavailable", zap.Error(err))
		metrics.ObserveDispatch(metrics.PathProfile, metrics.ResultError)
		return fmt.Sprintf("✗ Cannot read personal data: %v", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\n", info.FullName, info.Email)

	if err := d.host.TerminateByName(d.cfg.Chrome.ProcessName); err != nil {
		d.logger.Warn("could not close running chrome", zap.Error(err))
		fmt.Fprintf(&b, "⚠ Could not close running Chrome: %v\n", err)
	}
	d.wait(ctx, profileKillWait)

	bin, err := d.host.Locate(d.cfg.Chrome.Paths)
	if err != nil {
		metrics.ObserveDispatch(metrics.PathProfile, metrics.ResultNoExec)
		fmt.Fprintf(&b, "✗ Chrome executable not found: %v", err)
		return b.String()
	}

	tab, err := d.browsers.Launch(ctx, browser.Options{
		Bin:         bin,
		ProfileDir:  d.cfg.Chrome.DefaultProfileDir,
		ProfileName: ProfileName,
		Headless:    d.cfg.Chrome.Headless,
	}, ProfileCheckURL)
	if err != nil {
		metrics.ObserveDispatch(metrics.PathProfile, metrics.ResultError)
		fmt.Fprintf(&b, "✗ Could not start Chrome with your profile: %v", err)
		return b.String()
	}
	defer func() {
		if err := tab.Close(); err != nil {
			d.logger.Debug("close browser", zap.Error(err))
		}
	}()

	snap, err := tab.Snapshot(ctx)
	if err != nil {
		metrics.ObserveDispatch(metrics.PathProfile, metrics.ResultError)
		fmt.Fprintf(&b, "✗ Chrome started but the page could not be read: %v", err)
		return b.String()
	}
	d.logger.Info("profile check page", zap.String("url", snap.URL), zap.String("title", snap.Title))

	d.wait(ctx, profileCheckHold)
	metrics.ObserveDispatch(metrics.PathProfile, metrics.ResultOK)
	fmt.Fprintf(&b, "✓ Chrome opened %s (%s) with your default profile", snap.URL, snap.Title)
	return b.String()
}
