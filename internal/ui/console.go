// Package ui renders progress bars and dry-run trees on the terminal.
package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/Digital-Shane/media-sort/internal/core"
	"github.com/mattn/go-runewidth"
	"github.com/schollz/progressbar/v3"
)

// messageWidth bounds the per-item text shown next to a bar description.
const messageWidth = 40

// Console owns a terminal writer shared by progress bars and log output.
// Writes through the Console clear the active bar first and redraw it after,
// so log lines never land in the middle of a bar.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	active *Bar
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Write prints p above the active bar.
func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	bar := c.active
	c.mu.Unlock()

	if bar == nil {
		return c.out.Write(p)
	}
	return bar.writeAbove(c.out, p)
}

// Progress opens a bar for a stage. It satisfies core.ProgressFunc.
func (c *Console) Progress(description string, total int) core.Progress {
	bar := newBar(c, description, total)
	c.mu.Lock()
	c.active = bar
	c.mu.Unlock()
	return bar
}

func (c *Console) release(bar *Bar) {
	c.mu.Lock()
	if c.active == bar {
		c.active = nil
	}
	c.mu.Unlock()
}

// Bar is a progress bar whose total may grow while it runs. The underlying
// bar is created once the total is positive.
type Bar struct {
	mu          sync.Mutex
	console     *Console
	description string
	total       int
	bar         *progressbar.ProgressBar
	finished    bool
}

func newBar(c *Console, description string, total int) *Bar {
	b := &Bar{console: c, description: description}
	b.Add(total)
	return b
}

func (b *Bar) create() {
	b.bar = progressbar.NewOptions(b.total,
		progressbar.OptionSetWriter(b.console.out),
		progressbar.OptionSetDescription(b.description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
}

// Add grows the expected total by n.
func (b *Bar) Add(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n <= 0 || b.finished {
		return
	}
	b.total += n
	if b.bar == nil {
		b.create()
		_ = b.bar.RenderBlank()
		return
	}
	b.bar.ChangeMax(b.total)
}

func (b *Bar) Inc() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar == nil || b.finished {
		return
	}
	_ = b.bar.Add(1)
}

// SetMessage shows msg after the description, truncated to fit.
func (b *Bar) SetMessage(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar == nil || b.finished {
		return
	}
	b.bar.Describe(fmt.Sprintf("%s %s", b.description, runewidth.Truncate(msg, messageWidth, "…")))
}

// Finish clears the bar and prints msg in its place.
func (b *Bar) Finish(msg string) {
	b.mu.Lock()
	if b.finished {
		b.mu.Unlock()
		return
	}
	b.finished = true
	if b.bar != nil {
		_ = b.bar.Finish()
	}
	b.mu.Unlock()

	b.console.release(b)
	if msg != "" {
		fmt.Fprintln(b.console.out, msg)
	}
}

func (b *Bar) writeAbove(out io.Writer, p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar == nil || b.finished {
		return out.Write(p)
	}
	_ = b.bar.Clear()
	n, err := out.Write(p)
	_ = b.bar.RenderBlank()
	return n, err
}
