// Package dbus bridges the org.freedesktop.Notifications interface to toasts.
//
// Server owns the bus name and turns Notify calls into toasts, emitting
// NotificationClosed once each one has finished hiding. Client sends
// notifications to whichever daemon owns the name, and Monitor passively
// observes Notify traffic addressed to another daemon.
package dbus
