package terminal

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/toasty/internal/toast"
)

// DefaultWidth is the box width used when none is configured.
const DefaultWidth = 48

// Renderer draws each toast as a box on w. When Erase is set, a box is
// redrawn dimmed when it starts exiting and removed from the screen with
// ANSI cursor movement; otherwise boxes scroll like log lines.
type Renderer struct {
	mu    sync.Mutex
	w     io.Writer
	width int
	erase bool

	// lines drawn by the most recent box, for erasing
	lastLines int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWidth sets the box width.
func WithWidth(width int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
	}
}

// WithErase enables in-place redraw and removal.
func WithErase(erase bool) Option {
	return func(r *Renderer) { r.erase = erase }
}

// NewRenderer creates a renderer writing to w.
func NewRenderer(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{w: w, width: DefaultWidth}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create implements toast.Renderer.
func (r *Renderer) Create(n *toast.Notification) toast.Element {
	return &element{r: r, category: n.Category(), content: n.Content()}
}

func (r *Renderer) draw(box string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, box)
	r.lastLines = lipgloss.Height(box)
}

func (r *Renderer) redraw(box string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked()
	fmt.Fprintln(r.w, box)
	r.lastLines = lipgloss.Height(box)
}

func (r *Renderer) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked()
}

func (r *Renderer) clearLocked() {
	if r.lastLines == 0 {
		return
	}
	// cursor up N lines, then clear to end of screen
	fmt.Fprintf(r.w, "\x1b[%dA\x1b[J", r.lastLines)
	r.lastLines = 0
}

type element struct {
	r        *Renderer
	category toast.Category
	content  string
}

func (e *element) box(exiting bool) string {
	return Box(e.category, e.content, e.r.width, exiting)
}

func (e *element) Insert() {
	e.r.draw(e.box(false))
}

func (e *element) MarkEntering() {}

func (e *element) MarkExiting() {
	if e.r.erase {
		e.r.redraw(e.box(true))
	}
}

func (e *element) Remove() {
	if e.r.erase {
		e.r.clear()
	}
}
