package dashboard

import (
	"time"

	"github.com/rileyhilliard/jtop/internal/board"
	"github.com/rileyhilliard/jtop/internal/telemetry"
)

// Key is a key event as reported by Bubble Tea, e.g. "q", "left", "alt+x".
type Key string

// NoKey is fed to the edge detector on frames without input.
const NoKey Key = ""

// MouseKey stands in for a mouse click in the edge detector.
const MouseKey Key = "mouse"

// String lets a Key be matched against key bindings.
func (k Key) String() string { return string(k) }

// Mouse is the last left click, in screen cells. Zero value means no click
// happened since the previous frame.
type Mouse struct {
	X, Y    int
	Clicked bool
}

// Page is one selectable view of the dashboard. Draw is called once per
// frame and must not block; a returned error skips the frame.
type Page interface {
	Name() string
	Draw(key Key, mouse Mouse) (string, error)
}

// KeyboardHandler is implemented by pages with their own shortcuts. The
// engine calls Keyboard for every key event while the page is active.
type KeyboardHandler interface {
	Keyboard(key Key)
}

// Telemetry is the read side of a telemetry source.
type Telemetry interface {
	Snapshot() *telemetry.Snapshot
	Interval() time.Duration
}

// PageContext is handed to every PageFactory. Screen is shared with the
// engine and reflects the current terminal size.
type PageContext struct {
	Screen    *Screen
	Theme     *Theme
	Telemetry Telemetry
	History   *telemetry.History
	Board     board.Info
	Refresh   time.Duration
}

// PageFactory builds a page.
type PageFactory func(ctx *PageContext) Page
