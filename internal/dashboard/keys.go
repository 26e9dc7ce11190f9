package dashboard

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// keyMap lists the engine's own bindings. Pages may react to any other key
// through KeyboardHandler.
type keyMap struct {
	Prev key.Binding
	Next key.Binding
	Jump key.Binding
	Quit key.Binding
	Help key.Binding
}

var defaultKeys = keyMap{
	Prev: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "previous page"),
	),
	Next: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "next page"),
	),
	Jump: key.NewBinding(
		key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("1-9", "jump to page"),
	),
	// A lone Escape arrives as "esc"; Escape followed by another key in the
	// same read arrives as "alt+<key>" and does not match.
	Quit: key.NewBinding(
		key.WithKeys("q", "Q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Quit, k.Help}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Jump},
		{k.Quit, k.Help},
	}
}

// newHelp builds a help model styled with the theme.
func newHelp(theme *Theme) help.Model {
	h := help.New()
	h.ShowAll = true
	h.Styles.FullKey = theme.NewStyle().Foreground(ColorTextPrimary).Bold(true)
	h.Styles.FullDesc = theme.Label
	h.Styles.FullSeparator = theme.Muted
	h.Styles.ShortKey = h.Styles.FullKey
	h.Styles.ShortDesc = h.Styles.FullDesc
	h.Styles.ShortSeparator = h.Styles.FullSeparator
	return h
}

// renderHelpOverlay renders a centered box listing the bindings.
func (e *Engine) renderHelpOverlay() string {
	lines := []string{
		e.theme.HelpTitle.Render("Keyboard Shortcuts"),
		e.help.View(e.keys),
		"",
		e.theme.Muted.Render("Click a page name in the menu to open it. Press ? to close"),
	}
	box := e.theme.HelpBox.Render(strings.Join(lines, "\n"))

	return lipgloss.Place(
		e.screen.Width,
		e.screen.Height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
	)
}
