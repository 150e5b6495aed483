// Package toast implements the toast lifecycle and the single-slot scheduler.
//
// A Center owns one visible slot and a FIFO backlog. Notifications move through
// Pending, Active, HidingOut and Done; the Center activates the head of the
// backlog each time the active notification finishes its exit transition.
//
// Center and Notification methods must run on the Center's Executor. Timers and
// exit signals fire on other goroutines and post back onto it, so the slot and
// the queue are never touched concurrently and need no lock.
package toast
