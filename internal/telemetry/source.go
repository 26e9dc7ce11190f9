package telemetry

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/jtop/internal/errors"
	"github.com/rileyhilliard/jtop/internal/logger"
)

// DefaultPath is where L4T installs tegrastats.
const DefaultPath = "/usr/bin/tegrastats"

// maxLineBytes bounds a single tegrastats line; real lines are well under 1KB.
const maxLineBytes = 64 * 1024

// DecodeFunc turns one line of tegrastats output into a snapshot. It must not
// panic on malformed input; it returns an error instead.
type DecodeFunc func(line string) (*Snapshot, error)

// Config configures a Source.
type Config struct {
	// Path is the tegrastats binary. Defaults to DefaultPath.
	Path string
	// Args are passed before "--interval <ms>". Mostly useful for wrappers.
	Args []string
	// Decode parses each line. Required.
	Decode DecodeFunc
	// Logger receives reader diagnostics. Defaults to a "[telemetry]" env logger.
	Logger logger.Logger
}

// Source supervises one tegrastats process, decodes its output on a dedicated
// goroutine, keeps the latest snapshot and publishes every new one to the
// attached observers.
type Source struct {
	path   string
	args   []string
	decode DecodeFunc
	log    logger.Logger

	current   atomic.Pointer[Snapshot]
	observers *Registry

	mu       sync.Mutex
	cmd      *exec.Cmd
	done     chan struct{}
	interval time.Duration
}

// NewSource creates a source that has not started any process yet.
func NewSource(cfg Config) *Source {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewEnvLogger("[telemetry]")
	}
	s := &Source{
		path:      path,
		args:      cfg.Args,
		decode:    cfg.Decode,
		log:       log,
		observers: NewRegistry(),
	}
	s.current.Store(&Snapshot{})
	return s
}

// Open starts tegrastats sampling every interval and blocks until the first
// snapshot has been decoded, then attaches observers. There is no internal
// timeout: cancel ctx to give up, which kills the process.
//
// Errors carry the codes errors.ErrProcess (the binary could not be started,
// or the source is already open) and errors.ErrExited (the process quit
// before producing a sample).
func (s *Source) Open(ctx context.Context, interval time.Duration, observers ...Observer) error {
	if s.decode == nil {
		return errors.New(errors.ErrProcess,
			"No tegrastats decoder configured",
			"This is a bug: Source needs a Decode function")
	}

	s.mu.Lock()
	if s.cmd != nil {
		s.mu.Unlock()
		return errors.New(errors.ErrProcess,
			"tegrastats is already running",
			"Close the source before opening it again")
	}

	cmd := exec.Command(s.path, s.commandArgs(interval)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		s.mu.Unlock()
		return errors.WrapWithCode(err, errors.ErrProcess,
			"Couldn't create tegrastats output pipe",
			"This shouldn't happen - please report this bug!")
	}
	if err := cmd.Start(); err != nil {
		s.mu.Unlock()
		s.log.Error("tegrastats not available at %s: %v", s.path, err)
		return errors.WrapWithCode(err, errors.ErrProcess,
			"tegrastats is not available on this hardware",
			"jtop needs an NVIDIA Jetson with L4T installed; set tegrastats.path if it lives elsewhere")
	}

	ready := make(chan struct{})
	done := make(chan struct{})
	s.cmd = cmd
	s.done = done
	s.interval = interval
	s.mu.Unlock()

	s.log.Info("started %s (pid %d, interval %s)", s.path, cmd.Process.Pid, interval)
	go s.run(cmd, stdout, ready, done)

	select {
	case <-ready:
	case <-done:
		select {
		case <-ready:
			// Sampled once, then exited; the snapshot is still valid.
		default:
			s.release(cmd)
			return errors.New(errors.ErrExited,
				"tegrastats exited before producing any data",
				"Run tegrastats manually to check it works on this board")
		}
	case <-ctx.Done():
		s.Close()
		return errors.WrapWithCode(ctx.Err(), errors.ErrProcess,
			"Gave up waiting for the first tegrastats sample",
			"Check that tegrastats prints output when run manually")
	}

	for _, o := range observers {
		s.Attach(o)
	}
	return nil
}

// Close kills tegrastats if it is running and waits for the reader to exit.
// It returns false when there was no live process to stop. Safe to call more
// than once and concurrently with a read in progress.
func (s *Source) Close() bool {
	s.mu.Lock()
	cmd, done := s.cmd, s.done
	s.cmd = nil
	s.mu.Unlock()

	if cmd == nil {
		return false
	}

	select {
	case <-done:
		// Exited on its own; nothing left to stop.
		return false
	default:
	}

	if err := cmd.Process.Kill(); err != nil {
		if !errors.Is(err, os.ErrProcessDone) {
			s.log.Warn("failed to kill tegrastats: %v", err)
		}
		<-done
		return false
	}
	<-done
	return true
}

// Attach registers o for every snapshot published from now on.
func (s *Source) Attach(o Observer) bool {
	if !s.observers.Attach(o) {
		return false
	}
	s.log.Debug("attached observer %s (%d attached)", observerName(o), s.observers.Len())
	return true
}

// Detach unregisters o. No notification reaches o after Detach returns.
func (s *Source) Detach(o Observer) bool {
	if !s.observers.Detach(o) {
		return false
	}
	s.log.Debug("detached observer %s (%d attached)", observerName(o), s.observers.Len())
	return true
}

// Snapshot returns the latest snapshot. Before the first sample it is empty.
func (s *Source) Snapshot() *Snapshot {
	return s.current.Load()
}

// Interval returns the sampling period of the current or last process.
func (s *Source) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// PID returns the process id of the running tegrastats, or 0 when none is.
func (s *Source) PID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil || s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

// Done returns a channel closed when the current reader exits. It returns
// nil if the source was never opened.
func (s *Source) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Source) commandArgs(interval time.Duration) []string {
	args := make([]string, 0, len(s.args)+2)
	args = append(args, s.args...)
	return append(args, "--interval", strconv.FormatInt(interval.Milliseconds(), 10))
}

// release forgets cmd if it is still the current process.
func (s *Source) release(cmd *exec.Cmd) {
	s.mu.Lock()
	if s.cmd == cmd {
		s.cmd = nil
	}
	s.mu.Unlock()
}

// run is the reader goroutine: it consumes output until EOF, then reaps the
// process. Killing the process is the only cancellation it needs.
func (s *Source) run(cmd *exec.Cmd, stdout io.Reader, ready, done chan struct{}) {
	defer close(done)

	s.consume(stdout, ready)

	err := cmd.Wait()
	s.log.Info("tegrastats exited: %v", err)
}

// consume reads lines from r, publishing every decodable one. ready is closed
// after the first snapshot is stored; it may be nil. Lines longer than
// maxLineBytes are dropped whole and reading resumes at the next newline.
func (s *Source) consume(r io.Reader, ready chan struct{}) {
	br := bufio.NewReaderSize(r, 4096)

	line := 0
	for {
		raw, tooLong, err := readLine(br, maxLineBytes)
		switch {
		case tooLong:
			line++
			s.log.Warn("skipping line %d: longer than %d bytes", line, maxLineBytes)
		case len(raw) > 0 || err == nil:
			line++
			if s.publish(string(raw), line) && ready != nil {
				close(ready)
				ready = nil
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Debug("reader stopped: %v", err)
			}
			return
		}
	}
}

// readLine returns the next line without its terminator. A line over limit
// is consumed up to its newline and reported with tooLong set and no data.
func readLine(br *bufio.Reader, limit int) (raw []byte, tooLong bool, err error) {
	for {
		var chunk []byte
		chunk, err = br.ReadSlice('\n')
		if !tooLong {
			if len(raw)+len(chunk) > limit+1 {
				tooLong, raw = true, nil
			} else {
				raw = append(raw, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return bytes.TrimRight(raw, "\r\n"), tooLong, err
	}
}

// publish decodes text and, if it yields data, swaps it in and notifies
// observers. Malformed lines leave the current snapshot untouched.
func (s *Source) publish(text string, line int) bool {
	snap, err := s.decode(text)
	if err != nil {
		s.log.Debug("skipping line %d: %v", line, err)
		return false
	}
	if snap.Empty() {
		s.log.Debug("skipping line %d: no metric groups", line)
		return false
	}
	s.current.Store(snap)
	s.observers.Notify(snap)
	return true
}

// observerName identifies o in log lines: the adapter id when it has one,
// otherwise its type.
func observerName(o Observer) string {
	if ided, ok := o.(interface{ ID() string }); ok {
		return ided.ID()
	}
	return fmt.Sprintf("%T", o)
}
