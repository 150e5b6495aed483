package toast

import "strings"

// Category is a severity label. The predefined values cover the built-in
// styles; any other string is accepted verbatim.
type Category string

const (
	Warning Category = "warning"
	Success Category = "success"
	Error   Category = "error"
	Info    Category = "info"
)

// Categories returns the predefined categories.
func Categories() []Category {
	return []Category{Warning, Success, Error, Info}
}

// Known reports whether c is one of the predefined categories.
func (c Category) Known() bool {
	switch c {
	case Warning, Success, Error, Info:
		return true
	default:
		return false
	}
}

// ParseCategory normalizes user input. "warn" is accepted as an alias for
// warning; unrecognized labels are returned lowercased and trimmed.
func ParseCategory(s string) Category {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warn" {
		return Warning
	}
	return Category(s)
}

// State is the lifecycle position of a notification.
type State int

const (
	// Pending means created or queued, not yet visible.
	Pending State = iota
	// Active means visible with the duration timer running.
	Active
	// HidingOut means the exit transition is in progress.
	HidingOut
	// Done means removed; the notification is finished.
	Done
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Active:
		return "active"
	case HidingOut:
		return "hiding"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}
