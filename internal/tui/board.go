package tui

import (
	"time"

	"github.com/jmylchreest/toasty/internal/history"
	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/toast"
)

// card is the on-screen element for the active toast.
type card struct {
	b        *board
	n        *toast.Notification
	entering bool
	exiting  bool
	shownAt  time.Time
}

func (c *card) Insert() {
	c.b.active = c
	c.shownAt = c.b.now()
}

func (c *card) Remove() {
	if c.b.active == c {
		c.b.active = nil
	}
}

func (c *card) MarkEntering() { c.entering = true }

func (c *card) MarkExiting() {
	c.entering = false
	c.exiting = true
}

// board is the TUI's toast.Renderer and its record of finished toasts.
// Everything on it runs in Update.
type board struct {
	now     func() time.Time
	active  *card
	recent  []model.Record // newest first
	limit   int
	persist history.Appender // optional
}

func newBoard(now func() time.Time, limit int, persist history.Appender) *board {
	return &board{now: now, limit: limit, persist: persist}
}

// Create implements toast.Renderer.
func (b *board) Create(n *toast.Notification) toast.Element {
	return &card{b: b, n: n}
}

// Append implements history.Appender.
func (b *board) Append(r model.Record) error {
	if b.limit > 0 {
		b.recent = append([]model.Record{r}, b.recent...)
		if len(b.recent) > b.limit {
			b.recent = b.recent[:b.limit]
		}
	}
	if b.persist != nil {
		return b.persist.Append(r)
	}
	return nil
}
