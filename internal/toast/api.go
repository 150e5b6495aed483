package toast

import "time"

// Show creates a notification and shows it for d, or for the default
// duration when d is not positive.
func (c *Center) Show(category Category, content string, d time.Duration) *Notification {
	return c.New(content, category).ShowFor(d)
}

// Warn shows a warning toast.
func (c *Center) Warn(content string, d time.Duration) *Notification {
	return c.Show(Warning, content, d)
}

// Success shows a success toast.
func (c *Center) Success(content string, d time.Duration) *Notification {
	return c.Show(Success, content, d)
}

// Error shows an error toast.
func (c *Center) Error(content string, d time.Duration) *Notification {
	return c.Show(Error, content, d)
}

// Info shows an info toast.
func (c *Center) Info(content string, d time.Duration) *Notification {
	return c.Show(Info, content, d)
}

// Summary describes a notification at a point in time.
type Summary struct {
	ID        string        `json:"id"`
	Category  Category      `json:"category"`
	Content   string        `json:"content"`
	Duration  time.Duration `json:"duration"`
	State     string        `json:"state"`
	CreatedAt time.Time     `json:"created_at"`
}

// Status is a copy of the scheduler state.
type Status struct {
	Active *Summary  `json:"active,omitempty"`
	Queued []Summary `json:"queued"`
}

// Summarize returns a copy of n's observable fields.
func (n *Notification) Summarize() Summary {
	return Summary{
		ID:        n.id,
		Category:  n.category,
		Content:   n.content,
		Duration:  n.Duration(),
		State:     n.state.String(),
		CreatedAt: n.createdAt,
	}
}

// Status returns a copy of the slot and queue.
func (c *Center) Status() Status {
	st := Status{Queued: make([]Summary, 0, c.queue.Len())}
	if c.active != nil {
		s := c.active.Summarize()
		st.Active = &s
	}
	for _, n := range c.Queued() {
		st.Queued = append(st.Queued, n.Summarize())
	}
	return st
}
