// Package flash provides FlashStore implementations for toast.Center.
//
// A flash is a toast parked under a key so that a later process (or a later
// start of the same daemon) can take it and show it once. Three backends are
// available:
//
//   - FileStore: a JSON file written atomically, the default for toastyd
//   - RedisStore: keys in Redis, for sharing flashes between hosts
//   - MemoryStore: an in-process map for tests and the TUI
//
// Take always removes the entry it returns, so a second Take for the same key
// reports nothing.
package flash
