package dashboard

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/jtop/internal/board"
	"github.com/rileyhilliard/jtop/internal/errors"
	"github.com/rileyhilliard/jtop/internal/logger"
	"github.com/rileyhilliard/jtop/internal/telemetry"
)

// DefaultRefresh is the frame period when Options.Refresh is zero.
const DefaultRefresh = 500 * time.Millisecond

// State is the engine lifecycle state.
type State int

const (
	StateInit State = iota
	StateRunning
	StateTerminated
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Options configures an Engine.
type Options struct {
	Pages     []PageFactory
	Telemetry Telemetry
	History   *telemetry.History
	Board     board.Info
	Elevated  bool
	Refresh   time.Duration
	StartPage int    // 1-based; out of range keeps the first page
	Label     string // right side of the menu row

	Renderer *lipgloss.Renderer // nil renders to stdout
	Input    io.Reader          // nil reads the terminal
	Output   io.Writer          // nil writes to stdout
	Logger   logger.Logger
}

// frameMsg is one refresh tick.
type frameMsg time.Time

// signalMsg carries a termination signal into the loop.
type signalMsg struct{ sig os.Signal }

// Engine is the dashboard: a Bubble Tea model that owns the pages, routes
// input and draws one frame per refresh tick.
type Engine struct {
	opts   Options
	log    logger.Logger
	theme  *Theme
	screen *Screen
	keys   keyMap
	help   help.Model

	pages  []Page
	active int

	// Two-slot edge detector: an action fires only when key != prevKey.
	prevKey Key
	key     Key
	gotKey  bool // input arrived since the last frame
	mouse   Mouse

	state    State
	showHelp bool
	signal   os.Signal

	lastFrame string
	alerted   [2]int // size of the last logged size alert
}

// NewEngine builds the theme and the pages. It fails only when no page is
// configured.
func NewEngine(opts Options) (*Engine, error) {
	if len(opts.Pages) == 0 {
		return nil, errors.New(errors.ErrConfig,
			"No dashboard pages configured",
			"This is a bug: the dashboard needs at least one page")
	}
	if opts.Refresh <= 0 {
		opts.Refresh = DefaultRefresh
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewEnvLogger("[dashboard]")
	}

	theme := NewTheme(opts.Renderer)
	e := &Engine{
		opts:   opts,
		log:    log,
		theme:  theme,
		screen: &Screen{Elevated: opts.Elevated},
		keys:   defaultKeys,
		help:   newHelp(theme),
	}

	pctx := &PageContext{
		Screen:    e.screen,
		Theme:     theme,
		Telemetry: opts.Telemetry,
		History:   opts.History,
		Board:     opts.Board,
		Refresh:   opts.Refresh,
	}
	for _, factory := range opts.Pages {
		e.pages = append(e.pages, factory(pctx))
	}
	e.SetPage(opts.StartPage)
	return e, nil
}

// Run drives the dashboard until the user quits, a termination signal
// arrives or ctx is cancelled. The terminal is restored before Run returns.
func (e *Engine) Run(ctx context.Context) error {
	p := tea.NewProgram(e, e.programOptions(ctx)...)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	defer signal.Stop(sigs)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case sig := <-sigs:
			p.Send(signalMsg{sig: sig})
		case <-stop:
		}
	}()

	_, err := p.Run()
	e.state = StateTerminated
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			e.log.Info("dashboard stopped: %v", ctx.Err())
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrTerminal,
			"Dashboard terminal failure",
			"Make sure jtop runs in an interactive terminal")
	}
	return nil
}

func (e *Engine) programOptions(ctx context.Context) []tea.ProgramOption {
	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
		tea.WithContext(ctx),
	}
	if e.opts.Input != nil {
		opts = append(opts, tea.WithInput(e.opts.Input))
	}
	if e.opts.Output != nil {
		opts = append(opts, tea.WithOutput(e.opts.Output))
	}
	return opts
}

// Init starts the frame ticker and sets the window title.
func (e *Engine) Init() tea.Cmd {
	e.state = StateRunning
	title := "jtop"
	if e.opts.Board.Machine != "" && e.opts.Board.Machine != board.Unknown {
		title += " - " + e.opts.Board.Machine
	}
	return tea.Batch(tea.SetWindowTitle(title), e.frameCmd())
}

// Update routes one message.
func (e *Engine) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if e.state == StateTerminated {
		return e, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return e, e.keyboard(Key(msg.String()))

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return e, nil
		}
		return e, e.click(msg.X, msg.Y)

	case tea.WindowSizeMsg:
		e.screen.Width = msg.Width
		e.screen.Height = msg.Height
		e.help.Width = msg.Width

	case frameMsg:
		if !e.gotKey {
			e.feed(NoKey)
		}
		e.gotKey = false
		e.mouse = Mouse{}
		return e, e.frameCmd()

	case signalMsg:
		e.signal = msg.sig
		e.log.Info("received %s, stopping", msg.sig)
		return e, e.quit()
	}

	return e, nil
}

// View renders the current frame.
func (e *Engine) View() string {
	if e.state == StateTerminated || e.screen.Width == 0 {
		return ""
	}
	if e.screen.TooSmall() {
		return e.renderSizeAlert()
	}
	if e.showHelp {
		return e.renderHelpOverlay()
	}

	frame, err := e.renderFrame()
	if err != nil {
		e.log.Warn("%v", errors.WrapWithCode(err, errors.ErrRender,
			fmt.Sprintf("Skipped frame for page %s", e.pages[e.active].Name()), ""))
		return e.lastFrame
	}
	e.lastFrame = frame
	return frame
}

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// Signal returns the termination signal that stopped the engine, if any.
func (e *Engine) Signal() os.Signal { return e.signal }

// ActivePage returns the zero-based index of the active page.
func (e *Engine) ActivePage() int { return e.active }

// PageCount returns the number of pages.
func (e *Engine) PageCount() int { return len(e.pages) }

// SetPage selects the page at 1-based position n. Out-of-range values are
// ignored.
func (e *Engine) SetPage(n int) {
	if n >= 1 && n <= len(e.pages) {
		e.active = n - 1
	}
}

// Next selects the next page, stopping at the last one.
func (e *Engine) Next() { e.SetPage(e.active + 2) }

// Prev selects the previous page, stopping at the first one.
func (e *Engine) Prev() { e.SetPage(e.active) }

// keyboard handles one key event: the active page sees every event, the
// engine acts only on a key edge.
func (e *Engine) keyboard(k Key) tea.Cmd {
	prev := e.feed(k)
	if kh, ok := e.pages[e.active].(KeyboardHandler); ok {
		kh.Keyboard(k)
	}
	if k == prev {
		return nil
	}
	return e.press(k)
}

// feed shifts k into the edge detector and returns the previous key.
func (e *Engine) feed(k Key) Key {
	e.prevKey, e.key = e.key, k
	if k != NoKey {
		e.gotKey = true
	}
	return e.prevKey
}

func (e *Engine) press(k Key) tea.Cmd {
	switch {
	case key.Matches(k, e.keys.Quit):
		return e.quit()
	case key.Matches(k, e.keys.Prev):
		e.Prev()
	case key.Matches(k, e.keys.Next):
		e.Next()
	case key.Matches(k, e.keys.Jump):
		e.SetPage(int(k[0] - '0'))
	case key.Matches(k, e.keys.Help):
		e.showHelp = !e.showHelp
	}
	return nil
}

// click handles a left press at column x, row y.
func (e *Engine) click(x, y int) tea.Cmd {
	e.feed(MouseKey)
	e.mouse = Mouse{X: x, Y: y, Clicked: true}

	if y != e.screen.MenuRow() {
		return nil
	}
	r, ok := hitTest(menuRegions(e.names()), x)
	if !ok {
		return nil
	}
	if r.Page == quitRegion {
		return e.quit()
	}
	e.active = r.Page
	return nil
}

func (e *Engine) quit() tea.Cmd {
	e.state = StateTerminated
	return tea.Quit
}

func (e *Engine) frameCmd() tea.Cmd {
	return tea.Tick(e.opts.Refresh, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (e *Engine) names() []string {
	names := make([]string, len(e.pages))
	for i, p := range e.pages {
		names[i] = p.Name()
	}
	return names
}
