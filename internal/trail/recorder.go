// Package trail keeps screenshots of a login attempt and turns them into a GIF
// with the located fields marked.
package trail

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/v0xg/jobgate/internal/login"
	"github.com/v0xg/jobgate/internal/overlay"
)

// Shooter is implemented by pages that can capture the viewport as PNG
type Shooter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// Centerer is implemented by elements that know their on-screen midpoint
type Centerer interface {
	Center() (int, int, error)
}

// Frame is one captured stage of an attempt
type Frame struct {
	Stage login.Stage
	Image image.Image
	Marks []overlay.Mark
	At    time.Time
}

var fieldOrder = []login.Field{login.Username, login.Password, login.Submit}

var markerColors = func() []color.RGBA {
	out := make([]color.RGBA, len(fieldOrder))
	for i, f := range fieldOrder {
		out[i] = overlay.ColorFor(string(f))
	}
	return out
}()

// Recorder implements login.Recorder by taking a screenshot at every stage.
// Capture errors are logged and never interrupt the attempt.
type Recorder struct {
	shooter Shooter
	logger  *zap.Logger

	mu     sync.Mutex
	frames []Frame
}

// NewRecorder returns a Recorder for page. Pages that cannot take
// screenshots produce an empty trail.
func NewRecorder(page login.Page, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	shooter, _ := page.(Shooter)
	return &Recorder{shooter: shooter, logger: logger}
}

// Capture implements login.Recorder
func (r *Recorder) Capture(ctx context.Context, stage login.Stage, marks map[login.Field]login.Element) {
	if r.shooter == nil {
		r.logger.Debug("page cannot take screenshots", zap.String("stage", string(stage)))
		return
	}

	data, err := r.shooter.Screenshot(ctx)
	if err != nil {
		r.logger.Warn("screenshot failed", zap.String("stage", string(stage)), zap.Error(err))
		return
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		r.logger.Warn("screenshot decode failed", zap.String("stage", string(stage)), zap.Error(err))
		return
	}

	frame := Frame{Stage: stage, Image: img, At: time.Now()}
	for _, f := range fieldOrder {
		el, ok := marks[f]
		if !ok || el == nil {
			continue
		}
		c, ok := el.(Centerer)
		if !ok {
			continue
		}
		x, y, err := c.Center()
		if err != nil {
			r.logger.Debug("no position for field", zap.String("field", string(f)), zap.Error(err))
			continue
		}
		frame.Marks = append(frame.Marks, overlay.Mark{X: x, Y: y, Kind: string(f)})
	}

	r.mu.Lock()
	r.frames = append(r.frames, frame)
	r.mu.Unlock()
}

// Frames returns a copy of the captured frames in capture order
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}

// Rendered returns every frame with its marks drawn
func (r *Recorder) Rendered() []image.Image {
	frames := r.Frames()
	out := make([]image.Image, len(frames))
	for i, f := range frames {
		out[i] = overlay.Apply(f.Image, f.Marks)
	}
	return out
}

// Save writes the trail as <dir>/<attemptID>.gif. It returns the path
// written, or "" when nothing was captured.
func (r *Recorder) Save(dir, attemptID string, opts GIFOptions) (string, error) {
	frames := r.Rendered()
	if len(frames) == 0 {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create trail dir: %w", err)
	}
	path := filepath.Join(dir, attemptID+".gif")
	size, err := WriteGIFFile(frames, path, opts)
	if err != nil {
		return "", fmt.Errorf("write trail: %w", err)
	}
	r.logger.Info("trail saved", zap.String("path", path), zap.Int64("bytes", size))
	return path, nil
}
