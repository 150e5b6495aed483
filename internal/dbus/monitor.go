package dbus

import (
	"fmt"
	"hash/fnv"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

// Monitor observes Notify calls addressed to another notification daemon.
// It never owns the bus name, so it can run next to dunst, mako or a running
// toastyd.
type Monitor struct {
	conn     *dbus.Conn
	logger   *slog.Logger
	onNotify NotifyHandler
}

// NewMonitor creates a monitor.
func NewMonitor(logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{logger: logger}
}

// SetNotifyHandler sets the callback for observed notifications. The ID
// passed is derived from the request, since the daemon's reply is not seen.
func (m *Monitor) SetNotifyHandler(handler NotifyHandler) {
	m.onNotify = handler
}

// Start opens a private connection and turns it into a monitor, falling back
// to an eavesdropping match rule on older buses.
func (m *Monitor) Start() error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	m.conn = conn

	rule := "type='method_call',interface='" + Interface + "',member='Notify'"
	err = conn.BusObject().Call("org.freedesktop.DBus.Monitoring.BecomeMonitor", 0, []string{rule}, uint32(0)).Err
	if err != nil {
		m.logger.Debug("BecomeMonitor not available, trying AddMatch", "error", err)
		if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule+",eavesdrop='true'").Err; err != nil {
			_ = conn.Close()
			return fmt.Errorf("failed to add match rule: %w", err)
		}
	}

	ch := make(chan *dbus.Message, 64)
	conn.Eavesdrop(ch)
	go m.process(ch)

	m.logger.Info("D-Bus monitor started")
	return nil
}

// Stop closes the monitor connection.
func (m *Monitor) Stop() error {
	if m.conn == nil {
		return nil
	}
	return m.conn.Close()
}

func (m *Monitor) process(ch <-chan *dbus.Message) {
	for msg := range ch {
		if msg.Type != dbus.TypeMethodCall {
			continue
		}
		if iface, _ := msg.Headers[dbus.FieldInterface].Value().(string); iface != Interface {
			continue
		}
		if member, _ := msg.Headers[dbus.FieldMember].Value().(string); member != "Notify" {
			continue
		}

		req, err := parseNotify(msg.Body)
		if err != nil {
			m.logger.Warn("malformed Notify call", "error", err)
			continue
		}
		if m.onNotify != nil {
			m.onNotify(req, monitorID(req))
		}
	}
}

// parseNotify decodes the body of a Notify call.
func parseNotify(body []any) (*Request, error) {
	if len(body) < 8 {
		return nil, fmt.Errorf("expected 8 arguments, got %d", len(body))
	}

	req := &Request{}
	var ok bool
	if req.AppName, ok = body[0].(string); !ok {
		return nil, fmt.Errorf("invalid app_name type %T", body[0])
	}
	if req.ReplacesID, ok = body[1].(uint32); !ok {
		return nil, fmt.Errorf("invalid replaces_id type %T", body[1])
	}
	if req.AppIcon, ok = body[2].(string); !ok {
		return nil, fmt.Errorf("invalid app_icon type %T", body[2])
	}
	if req.Summary, ok = body[3].(string); !ok {
		return nil, fmt.Errorf("invalid summary type %T", body[3])
	}
	if req.Body, ok = body[4].(string); !ok {
		return nil, fmt.Errorf("invalid body type %T", body[4])
	}
	req.Actions, _ = body[5].([]string)
	req.Hints, _ = body[6].(map[string]dbus.Variant)
	req.ExpireTimeout, _ = body[7].(int32)
	return req, nil
}

func monitorID(r *Request) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(r.AppName))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(r.Summary))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(r.Body))
	return h.Sum32()
}
