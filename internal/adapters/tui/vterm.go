package tui

import (
	"bytes"
	"sync"

	"github.com/vito/midterm"
)

// DefaultTailHeight is the number of output lines shown under a running phase.
const DefaultTailHeight = 8

// Vterm keeps build output in a virtual terminal and renders its last lines.
type Vterm struct {
	mu      sync.Mutex
	vt      *midterm.Terminal
	lines   int
	cols    int
	height  int
	prefix  string
	viewBuf bytes.Buffer
}

// NewVterm creates a Vterm showing the last height lines.
func NewVterm(height int) *Vterm {
	if height < 1 {
		height = DefaultTailHeight
	}
	return &Vterm{
		vt:     midterm.NewAutoResizingTerminal(),
		height: height,
		prefix: "  ",
	}
}

// WriteLine appends one line of output.
func (v *Vterm) WriteLine(line string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.lines > 0 {
		_, _ = v.vt.Write([]byte("\r\n"))
	}
	_, _ = v.vt.Write([]byte(line))
	v.lines++
}

// SetWidth updates the terminal width.
func (v *Vterm) SetWidth(w int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.cols = max(w-len(v.prefix), 1)
	v.vt.ResizeX(v.cols)
}

// UsedHeight returns the total number of lines in the terminal buffer.
func (v *Vterm) UsedHeight() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.used()
}

// Reset discards all output.
func (v *Vterm) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vt = midterm.NewAutoResizingTerminal()
	if v.cols > 0 {
		v.vt.ResizeX(v.cols)
	}
	v.lines = 0
}

// View renders the tail of the output.
func (v *Vterm) View() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.viewBuf.Reset()
	used := v.used()
	start := max(used-v.height, 0)
	for row := start; row < used; row++ {
		if row > start {
			_ = v.viewBuf.WriteByte('\n')
		}
		_, _ = v.viewBuf.WriteString(v.prefix)
		_ = v.vt.RenderLine(&v.viewBuf, row)
	}
	return v.viewBuf.String()
}

// used must be called with mu held.
func (v *Vterm) used() int {
	if v.lines == 0 {
		return 0
	}
	return v.vt.UsedHeight()
}
