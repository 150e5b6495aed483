package dbus

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toasty/internal/toast"
)

// Client sends notifications to the daemon owning BusName.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// Dial connects to the session bus.
func Dial() (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{conn: conn, obj: conn.Object(BusName, Path)}, nil
}

// Close closes the bus connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// NewRequest builds the Notify arguments for a toast. The category travels
// in the x-toasty-category hint, with a matching urgency for daemons that
// ignore it.
func NewRequest(appName string, category toast.Category, content string, d time.Duration) *Request {
	urgency := UrgencyNormal
	switch category {
	case toast.Error:
		urgency = UrgencyCritical
	case toast.Info:
		urgency = UrgencyLow
	}

	timeout := int32(-1)
	if d > 0 {
		timeout = int32(d.Milliseconds())
	}

	return &Request{
		AppName: appName,
		Summary: content,
		Hints: map[string]dbus.Variant{
			CategoryHint: dbus.MakeVariant(string(category)),
			"urgency":    dbus.MakeVariant(urgency),
		},
		ExpireTimeout: timeout,
	}
}

// Notify sends req and returns the ID assigned by the daemon.
func (c *Client) Notify(ctx context.Context, req *Request) (uint32, error) {
	actions := req.Actions
	if actions == nil {
		actions = []string{}
	}
	hints := req.Hints
	if hints == nil {
		hints = map[string]dbus.Variant{}
	}

	var id uint32
	call := c.obj.CallWithContext(ctx, Interface+".Notify", 0,
		req.AppName, req.ReplacesID, req.AppIcon, req.Summary, req.Body,
		actions, hints, req.ExpireTimeout)
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("failed to send notification: %w", err)
	}
	return id, nil
}

// ServerInformation asks the daemon to identify itself.
func (c *Client) ServerInformation(ctx context.Context) (ServerInfo, error) {
	var info ServerInfo
	call := c.obj.CallWithContext(ctx, Interface+".GetServerInformation", 0)
	if err := call.Store(&info.Name, &info.Vendor, &info.Version, &info.SpecVersion); err != nil {
		return ServerInfo{}, fmt.Errorf("failed to query server information: %w", err)
	}
	return info, nil
}
