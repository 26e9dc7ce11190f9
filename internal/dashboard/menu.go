package dashboard

import "strings"

// quitRegion marks the menu region that quits.
const quitRegion = -1

// menuStart is the column of the first menu label.
const menuStart = 1

// quitLabelWidth is the width of "Quit" plus its trailing space.
const quitLabelWidth = 4

// region is a clickable span [Start, End) of the menu row.
type region struct {
	Start, End int
	Page       int // zero-based page index, or quitRegion
}

// menuRegions lays out the menu left to right: each page label is its
// number, its name and two spaces; the quit label follows.
func menuRegions(names []string) []region {
	regions := make([]region, 0, len(names)+1)
	pos := menuStart
	for i, name := range names {
		size := len(name) + 3
		regions = append(regions, region{Start: pos, End: pos + size, Page: i})
		pos += size
	}
	return append(regions, region{Start: pos, End: pos + quitLabelWidth, Page: quitRegion})
}

// hitTest returns the first region containing column x.
func hitTest(regions []region, x int) (region, bool) {
	for _, r := range regions {
		if x >= r.Start && x < r.End {
			return r, true
		}
	}
	return region{}, false
}

// renderMenu draws the bottom row: page labels with the active one
// un-reversed, the quit label, and the app label right-aligned, padded to
// the full width in reverse video.
func (e *Engine) renderMenu() string {
	t := e.theme
	width := e.screen.Width

	var b strings.Builder
	used := 0
	write := func(s string, visible int) {
		b.WriteString(s)
		used += visible
	}

	write(t.Menu.Render(strings.Repeat(" ", menuStart)), menuStart)
	for i, name := range e.names() {
		num := string(rune('0' + (i+1)%10))
		label := name + " "
		if i == e.active {
			write(t.MenuActive.Bold(true).Render(num), 1)
			write(t.MenuActive.Render(label), len(label))
		} else {
			write(t.Menu.Bold(true).Render(num), 1)
			write(t.Menu.Render(label), len(label))
		}
		write(t.Menu.Render(" "), 1)
	}
	write(t.Menu.Bold(true).Render("Q"), 1)
	write(t.Menu.Render("uit "), 4)

	label := e.opts.Label
	pad := width - used - len(label)
	if pad < 0 {
		label = ""
		pad = width - used
	}
	if pad > 0 {
		write(t.Menu.Render(strings.Repeat(" ", pad)), pad)
	}
	if label != "" {
		write(t.Menu.Render(label), len(label))
	}
	return b.String()
}
