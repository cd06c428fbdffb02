// Package storage implements the filesystem backends the resource cache
// lives on.
//
// Local keeps files on disk only. Synced writes locally first, mirrors every
// write and removal to a Remote store, and materializes remote files locally
// on EnsureLocal, so a second device or a fresh install reads the latest
// copy instead of a stale or missing local file.
package storage
