// Package display renders toasts as GTK4 layer-shell windows.
//
// Everything in this package runs on the GTK main thread. GlibExecutor lets a
// toast.Center share that thread, so renderer calls and timer callbacks need
// no further synchronisation.
package display
