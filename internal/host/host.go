// Package host isolates the process-wide side effects jobgate has on the
// local machine: finding the Chrome executable, killing running browsers and
// spawning new ones.
package host

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/go-rod/rod/lib/launcher"
	"go.uber.org/zap"
)

// ErrNotFound is returned by Locate when no candidate exists.
var ErrNotFound = errors.New("executable not found")

// Host is the capability surface the dispatcher needs from the OS.
type Host interface {
	// Locate returns the first candidate path that exists.
	Locate(candidates []string) (string, error)
	// TerminateByName force-kills every process with the given image name.
	TerminateByName(name string) error
	// Launch starts path with args and does not wait for it.
	Launch(path string, args ...string) error
}

// OS is the real Host.
type OS struct {
	Logger *zap.Logger
	// UseDriverLookup falls back to the automation driver's own browser
	// search when no candidate exists.
	UseDriverLookup bool
}

func NewOS(logger *zap.Logger) *OS {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OS{Logger: logger, UseDriverLookup: true}
}

func (h *OS) Locate(candidates []string) (string, error) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
		h.Logger.Debug("browser candidate missing", zap.String("path", c))
	}
	if h.UseDriverLookup {
		if path, ok := launcher.LookPath(); ok {
			return path, nil
		}
	}
	return "", ErrNotFound
}

func (h *OS) TerminateByName(name string) error {
	cmd := terminateCommand(name)
	out, err := cmd.CombinedOutput()
	if err != nil {
		// No matching process is the common case and not worth failing over.
		h.Logger.Debug("terminate returned error",
			zap.String("name", name),
			zap.ByteString("output", out),
			zap.Error(err))
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return fmt.Errorf("terminate %s: %w", name, err)
	}
	h.Logger.Info("terminated processes", zap.String("name", name))
	return nil
}

func (h *OS) Launch(path string, args ...string) error {
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", path, err)
	}
	h.Logger.Debug("launched", zap.String("path", path), zap.Strings("args", args), zap.Int("pid", cmd.Process.Pid))

	// Reap the child; chrome --new-tab hands the URL over and exits.
	go func() {
		if err := cmd.Wait(); err != nil {
			h.Logger.Debug("launched process exited", zap.String("path", path), zap.Error(err))
		}
	}()
	return nil
}
