package session

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/jonboulle/clockwork"
	"golang.org/x/term"
)

// Handle is a progress indicator borrowed from the session's progress
// multiplexer. It must not outlive the session that created it
// (spec.md §9): there is no independent constructor, only
// ProgressFactory.Spinner/Bar.
type Handle interface {
	Tick(n int)
	Finish(msg string)
}

// ProgressFactory is the progress capability (spec.md §4.1).
type ProgressFactory interface {
	Spinner(label string) Handle
	Bar(label string, total int) Handle
}

var (
	colorGreen = lipgloss.ANSIColor(2)
	colorBlue  = lipgloss.ANSIColor(4)
)

// LiveProgress renders spinners and bars to stderr when it is a TTY and
// --quiet is not set, and styles them with color unless NO_COLOR/
// EMPACK_NO_COLOR/TERM=dumb disables it, mirroring the detection rules
// of the teacher's terminal UI package. Unlike that
// package, it is never a global singleton — one LiveProgress belongs to
// exactly one Session.
type LiveProgress struct {
	out          io.Writer
	enabled      bool
	colorEnabled bool
	clock        clockwork.Clock
}

func NewLiveProgress(out *os.File, quiet bool) *LiveProgress {
	isTTY := term.IsTerminal(int(out.Fd()))
	return &LiveProgress{
		out:          out,
		enabled:      isTTY && !quiet,
		colorEnabled: isTTY && !colorDisabled(),
		clock:        clockwork.NewRealClock(),
	}
}

func colorDisabled() bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("EMPACK_NO_COLOR") != "" {
		return true
	}
	return os.Getenv("TERM") == "dumb"
}

func (p *LiveProgress) Spinner(label string) Handle {
	if !p.enabled {
		return &noopHandle{}
	}
	h := &spinnerHandle{
		out:          p.out,
		message:      label,
		colorEnabled: p.colorEnabled,
		started:      time.Now(),
		ticker:       p.clock.NewTicker(100 * time.Millisecond),
		done:         make(chan struct{}),
	}
	h.printFrame()
	go h.animate()
	return h
}

func (p *LiveProgress) Bar(label string, total int) Handle {
	if !p.enabled {
		return &noopHandle{}
	}
	return &barHandle{out: p.out, label: label, total: total, colorEnabled: p.colorEnabled}
}

type spinnerHandle struct {
	out          io.Writer
	message      string
	colorEnabled bool
	started      time.Time
	ticker       clockwork.Ticker
	done         chan struct{}
}

func (h *spinnerHandle) printFrame() {
	elapsed := time.Since(h.started)
	frame := int(elapsed/spinner.Line.FPS) % len(spinner.Line.Frames)
	char := spinner.Line.Frames[frame]
	if !h.colorEnabled {
		char = "..."
		fmt.Fprintf(h.out, "\r%s %s", char, h.message)
		return
	}
	style := lipgloss.NewStyle().Foreground(colorBlue)
	fmt.Fprintf(h.out, "\r%s %s", style.Render(char), h.message)
}

func (h *spinnerHandle) animate() {
	for {
		select {
		case <-h.ticker.Chan():
			h.printFrame()
		case <-h.done:
			return
		}
	}
}

func (h *spinnerHandle) Tick(int) {}

func (h *spinnerHandle) Finish(msg string) {
	h.ticker.Stop()
	close(h.done)
	fmt.Fprint(h.out, "\r", ansi.EraseLine(2))
	if msg == "" {
		msg = h.message
	}
	symbol := "done"
	if h.colorEnabled {
		style := lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
		fmt.Fprintf(h.out, "%s %s\n", style.Render("done"), msg)
		return
	}
	fmt.Fprintf(h.out, "%s %s\n", symbol, msg)
}

type barHandle struct {
	out          io.Writer
	label        string
	total        int
	done         int
	colorEnabled bool
}

func (h *barHandle) Tick(n int) {
	h.done += n
	fmt.Fprintf(h.out, "\r%s %d/%d", h.label, h.done, h.total)
}

func (h *barHandle) Finish(msg string) {
	if msg == "" {
		msg = h.label
	}
	fmt.Fprintf(h.out, "\rdone %s\n", msg)
}

type noopHandle struct{}

func (*noopHandle) Tick(int)      {}
func (*noopHandle) Finish(string) {}

var (
	_ ProgressFactory = &LiveProgress{}
	_ Handle          = &spinnerHandle{}
	_ Handle          = &barHandle{}
	_ Handle          = &noopHandle{}
)
