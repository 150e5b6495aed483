// Package daemon assembles toastyd: the toast center plus its flash store,
// history, metrics, audio, D-Bus bridge, HTTP API and config hot reload.
// The renderer and executor come from the caller so the same wiring serves
// the GTK popups and the terminal.
package daemon
