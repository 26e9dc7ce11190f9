package dashboard

// Minimum terminal size the dashboard draws at.
const (
	MinWidth  = 50
	MinHeight = 20
)

// Screen tracks the terminal size and the rows the chrome takes.
type Screen struct {
	Width    int
	Height   int
	Elevated bool // running as root; no sudo banner
}

// HeaderHeight is the number of rows above the body: the board line, plus
// the sudo banner when not elevated.
func (s *Screen) HeaderHeight() int {
	if s.Elevated {
		return 1
	}
	return 2
}

// BodyHeight is the number of rows available to the active page.
func (s *Screen) BodyHeight() int {
	h := s.Height - s.HeaderHeight() - 1
	if h < 0 {
		return 0
	}
	return h
}

// MenuRow is the zero-based row of the bottom menu.
func (s *Screen) MenuRow() int {
	return s.Height - 1
}

// TooSmall reports whether the terminal is below the minimum size.
func (s *Screen) TooSmall() bool {
	return s.Width < MinWidth || s.Height < MinHeight
}
