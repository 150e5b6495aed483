// Package audio plays a sound when a toast becomes visible. Sounds are
// configured per category, decoded once with beep and cached; the cache is
// refreshed when a sound file changes on disk.
package audio
