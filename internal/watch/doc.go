// Package watch signals content changes under a directory tree.
//
// A Watcher follows every non-hidden directory below its root with fsnotify,
// coalesces bursts of events through a Debouncer and hands each batch of
// changed paths to a callback, typically content.CachedSource.Invalidate.
package watch
