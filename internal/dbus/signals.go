package dbus

import (
	"errors"
	"fmt"
)

var errNotConnected = errors.New("not connected to D-Bus")

// EmitNotificationClosed emits NotificationClosed(id, reason).
func (s *Server) EmitNotificationClosed(id uint32, reason CloseReason) error {
	s.mu.Lock()
	conn := s.conn
	running := s.running
	s.mu.Unlock()
	if !running || conn == nil {
		return errNotConnected
	}

	if err := conn.Emit(Path, Interface+".NotificationClosed", id, uint32(reason)); err != nil {
		return fmt.Errorf("failed to emit NotificationClosed: %w", err)
	}
	s.logger.Debug("emitted NotificationClosed", "id", id, "reason", reason.String())
	return nil
}
