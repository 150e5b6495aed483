package dbus

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/toasty/internal/toast"
)

const (
	// Interface is the notification interface name.
	Interface = "org.freedesktop.Notifications"
	// Path is the notification object path.
	Path = "/org/freedesktop/Notifications"
	// BusName is the well-known name owned by the server.
	BusName = "org.freedesktop.Notifications"
)

// ErrNameTaken is returned by Start when another daemon owns the bus name.
var ErrNameTaken = errors.New("notification bus name already owned")

// NotifyHandler receives each Notify call with the ID returned to the caller.
// It runs on the D-Bus dispatch goroutine and must not block.
type NotifyHandler func(req *Request, id uint32)

// Server implements org.freedesktop.Notifications.
type Server struct {
	conn   *dbus.Conn
	logger *slog.Logger

	nextID   atomic.Uint32
	onNotify NotifyHandler
	info     ServerInfo
	replace  bool

	mu      sync.Mutex
	tracked map[string]uint32 // toast ID -> bus ID
	running bool
}

// NewServer creates a server. Call Start to claim the bus name.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:  logger,
		info:    DefaultServerInfo(),
		tracked: make(map[string]uint32),
	}
}

// SetNotifyHandler sets the handler for incoming notifications.
func (s *Server) SetNotifyHandler(handler NotifyHandler) {
	s.onNotify = handler
}

// SetServerInfo sets what GetServerInformation returns.
func (s *Server) SetServerInfo(info ServerInfo) {
	s.info = info
}

// SetReplace makes Start take the bus name from a running daemon.
func (s *Server) SetReplace(replace bool) {
	s.replace = replace
}

// Start connects to the session bus, exports the interface and claims the
// bus name.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("server already running")
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := conn.Export(s, Path, Interface); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to export object: %w", err)
	}
	node := &introspect.Node{
		Name: Path,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{Name: Interface, Methods: methods(), Signals: signals()},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), Path, "org.freedesktop.DBus.Introspectable"); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	flags := dbus.NameFlagDoNotQueue | dbus.NameFlagAllowReplacement
	if s.replace {
		flags |= dbus.NameFlagReplaceExisting
	}
	reply, err := conn.RequestName(BusName, flags)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		_ = conn.Close()
		return ErrNameTaken
	}

	s.conn = conn
	s.running = true
	s.logger.Info("D-Bus notification server started", "name", BusName)
	return nil
}

// Stop releases the bus name and closes the connection.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false

	if _, err := s.conn.ReleaseName(BusName); err != nil {
		s.logger.Warn("failed to release bus name", "error", err)
	}
	err := s.conn.Close()
	s.logger.Info("D-Bus notification server stopped")
	return err
}

// GetCapabilities implements GetCapabilities() -> as.
func (s *Server) GetCapabilities() ([]string, *dbus.Error) {
	return ServerCapabilities, nil
}

// GetServerInformation implements GetServerInformation() -> (ssss).
func (s *Server) GetServerInformation() (string, string, string, string, *dbus.Error) {
	return s.info.Name, s.info.Vendor, s.info.Version, s.info.SpecVersion, nil
}

// Notify implements Notify(susssasa{sv}i) -> u. Queued toasts cannot be
// updated in place, so replaces_id is ignored and a fresh ID is returned.
func (s *Server) Notify(
	appName string,
	replacesID uint32,
	appIcon string,
	summary string,
	body string,
	actions []string,
	hints map[string]dbus.Variant,
	expireTimeout int32,
) (uint32, *dbus.Error) {
	id := s.nextID.Add(1)
	req := &Request{
		AppName:       appName,
		ReplacesID:    replacesID,
		AppIcon:       appIcon,
		Summary:       summary,
		Body:          body,
		Actions:       actions,
		Hints:         hints,
		ExpireTimeout: expireTimeout,
	}

	s.logger.Debug("Notify called", "app_name", appName, "id", id, "replaces_id", replacesID)
	if s.onNotify != nil {
		s.onNotify(req, id)
	}
	return id, nil
}

// CloseNotification implements CloseNotification(u). Toasts cannot be
// cancelled; the request is logged and the toast runs to completion.
func (s *Server) CloseNotification(id uint32) *dbus.Error {
	s.logger.Info("CloseNotification ignored, toasts run to completion", "id", id)
	return nil
}

// Track associates a toast with the bus ID returned for it, so
// NotificationClosed can be emitted when it is done.
func (s *Server) Track(toastID string, id uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracked[toastID] = id
}

// Tracked returns the number of toasts awaiting NotificationClosed.
func (s *Server) Tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tracked)
}

// Observe emits NotificationClosed for tracked toasts once they are done.
// Register it with toast.WithObserver.
func (s *Server) Observe(ev toast.Event) {
	if ev.Kind != toast.EventDone {
		return
	}

	s.mu.Lock()
	id, ok := s.tracked[ev.Notification.ID()]
	delete(s.tracked, ev.Notification.ID())
	s.mu.Unlock()
	if !ok {
		return
	}

	if err := s.EmitNotificationClosed(id, CloseReasonExpired); err != nil {
		s.logger.Warn("failed to emit NotificationClosed", "id", id, "error", err)
	}
}

func methods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "GetCapabilities",
			Args: []introspect.Arg{
				{Name: "capabilities", Type: "as", Direction: "out"},
			},
		},
		{
			Name: "GetServerInformation",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "out"},
				{Name: "vendor", Type: "s", Direction: "out"},
				{Name: "version", Type: "s", Direction: "out"},
				{Name: "spec_version", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "Notify",
			Args: []introspect.Arg{
				{Name: "app_name", Type: "s", Direction: "in"},
				{Name: "replaces_id", Type: "u", Direction: "in"},
				{Name: "app_icon", Type: "s", Direction: "in"},
				{Name: "summary", Type: "s", Direction: "in"},
				{Name: "body", Type: "s", Direction: "in"},
				{Name: "actions", Type: "as", Direction: "in"},
				{Name: "hints", Type: "a{sv}", Direction: "in"},
				{Name: "expire_timeout", Type: "i", Direction: "in"},
				{Name: "id", Type: "u", Direction: "out"},
			},
		},
		{
			Name: "CloseNotification",
			Args: []introspect.Arg{
				{Name: "id", Type: "u", Direction: "in"},
			},
		},
	}
}

func signals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "NotificationClosed",
			Args: []introspect.Arg{
				{Name: "id", Type: "u"},
				{Name: "reason", Type: "u"},
			},
		},
	}
}
