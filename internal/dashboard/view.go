package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/jtop/internal/errors"
)

const sudoBanner = "SUDO SUGGESTED"

// renderFrame assembles header, body and menu. It fails when the active
// page fails to draw.
func (e *Engine) renderFrame() (string, error) {
	body, err := e.drawBody()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(e.renderHeader())
	b.WriteString("\n")
	b.WriteString(e.clipBody(body))
	b.WriteString("\n")
	b.WriteString(e.renderMenu())
	return b.String(), nil
}

// renderHeader draws the sudo banner when not elevated, then the board line.
func (e *Engine) renderHeader() string {
	info := e.opts.Board
	line := e.theme.Title.MaxWidth(e.screen.Width).
		Render(fmt.Sprintf("%s - Jetpack %s", info.Machine, info.Jetpack))
	if e.screen.Elevated {
		return line
	}

	banner := e.theme.Banner.
		Width(e.screen.Width).
		Align(lipgloss.Center).
		Render(sudoBanner)
	return banner + "\n" + line
}

// drawBody calls the active page, turning a panic into an error.
func (e *Engine) drawBody() (body string, err error) {
	page := e.pages[e.active]
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %s panicked: %v", page.Name(), r)
		}
	}()
	return page.Draw(e.key, e.mouse)
}

// clipBody fits the page output to the body area, padding short output.
func (e *Engine) clipBody(body string) string {
	h := e.screen.BodyHeight()
	return e.theme.NewStyle().
		Height(h).
		MaxHeight(h).
		MaxWidth(e.screen.Width).
		Render(body)
}

// renderSizeAlert replaces the dashboard on undersized terminals. The alert
// is logged once per distinct size.
func (e *Engine) renderSizeAlert() string {
	w, h := e.screen.Width, e.screen.Height
	if e.alerted != [2]int{w, h} {
		e.alerted = [2]int{w, h}
		e.log.Warn("%v", errors.New(errors.ErrRender,
			fmt.Sprintf("Terminal is %dx%d, dashboard needs %dx%d", w, h, MinWidth, MinHeight), ""))
	}

	msg := e.theme.Alert.Render(fmt.Sprintf("Terminal too small: %dx%d", w, h)) + "\n" +
		e.theme.Label.Render(fmt.Sprintf("jtop needs at least %dx%d", MinWidth, MinHeight))
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, msg)
}
