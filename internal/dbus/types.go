package dbus

import (
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toasty/internal/toast"
)

// CloseReason is the reason code carried by NotificationClosed.
type CloseReason uint32

const (
	// CloseReasonExpired means the notification timed out.
	CloseReasonExpired CloseReason = 1
	// CloseReasonDismissed means the user dismissed the notification.
	CloseReasonDismissed CloseReason = 2
	// CloseReasonClosed means CloseNotification was called.
	CloseReasonClosed CloseReason = 3
	// CloseReasonUndefined is reserved.
	CloseReasonUndefined CloseReason = 4
)

func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	case CloseReasonUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// Urgency levels from the urgency hint.
const (
	UrgencyLow      byte = 0
	UrgencyNormal   byte = 1
	UrgencyCritical byte = 2
)

// CategoryHint carries a toast category verbatim and takes precedence over
// urgency.
const CategoryHint = "x-toasty-category"

// Request holds the arguments of a Notify call.
type Request struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

func (r *Request) stringHint(key string) string {
	if v, ok := r.Hints[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

func (r *Request) boolHint(key string) bool {
	if v, ok := r.Hints[key]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// Urgency returns the urgency hint, UrgencyNormal when absent.
func (r *Request) Urgency() byte {
	if v, ok := r.Hints["urgency"]; ok {
		if b, ok := v.Value().(byte); ok {
			return b
		}
	}
	return UrgencyNormal
}

// Category maps the request to a toast category: the x-toasty-category hint
// if set, error for critical urgency, info otherwise.
func (r *Request) Category() toast.Category {
	if c := toast.ParseCategory(r.stringHint(CategoryHint)); c != "" {
		return c
	}
	if r.Urgency() == UrgencyCritical {
		return toast.Error
	}
	return toast.Info
}

// Content is the summary, followed by the body on its own line when present.
func (r *Request) Content() string {
	summary := strings.TrimSpace(r.Summary)
	body := strings.TrimSpace(r.Body)
	switch {
	case summary == "":
		return body
	case body == "":
		return summary
	default:
		return summary + "\n" + body
	}
}

// Duration is the requested display time, or zero for the center default.
// Toasts always expire, so 0 (never expire) is treated as the default too.
func (r *Request) Duration() time.Duration {
	if r.ExpireTimeout <= 0 {
		return 0
	}
	return time.Duration(r.ExpireTimeout) * time.Millisecond
}

// Source names the sender for history, e.g. "dbus:firefox".
func (r *Request) Source() string {
	name := r.stringHint("desktop-entry")
	if name == "" {
		name = r.AppName
	}
	if name == "" {
		return "dbus"
	}
	return "dbus:" + name
}

// Transient reports whether the sender asked for the notification not to be
// persisted.
func (r *Request) Transient() bool {
	return r.boolHint("transient")
}

// ServerCapabilities lists the capabilities advertised by toastyd.
var ServerCapabilities = []string{
	"body",
	CategoryHint,
}

// ServerInfo is returned by GetServerInformation.
type ServerInfo struct {
	Name        string
	Vendor      string
	Version     string
	SpecVersion string
}

// DefaultServerInfo returns the server information for toastyd.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:        "toastyd",
		Vendor:      "toasty",
		Version:     "dev",
		SpecVersion: "1.2",
	}
}
