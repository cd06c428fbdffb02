// Package version exposes build metadata for photo-frame.
//
// Version is the release token the updater compares against the remote
// version endpoint. Version, Commit and BuildTime are injected via ldflags.
package version
