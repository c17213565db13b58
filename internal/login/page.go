package login

import (
	"context"
	"errors"
	"time"

	"github.com/v0xg/jobgate/internal/heuristics"
)

// Field is a kind of login form control.
type Field string

const (
	Username Field = "username"
	Password Field = "password"
	Submit   Field = "submit"
)

// Snapshot is a point-in-time, read-only view of a loaded page.
type Snapshot struct {
	URL   string
	Title string
	HTML  string
}

// ErrNotFound is returned by Page.Find when no element matches in time.
var ErrNotFound = errors.New("element not found")

// Page is the slice of a browser tab the login heuristic needs.
type Page interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	// Find waits up to wait for an element matching loc.
	Find(ctx context.Context, loc heuristics.Locator, wait time.Duration) (Element, error)
}

// Element is an interactive control on a Page.
type Element interface {
	Clear() error
	Type(text string) error
	Click() error
	// PressEnter sends a return keystroke to the element.
	PressEnter() error
}
