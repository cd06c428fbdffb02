// Package resource implements the single-image cache behind the widget
// background.
//
// The Cache keeps exactly one PNG under <documents>/cache/photoFrame on a
// storage.Backend. Writes replace it wholesale, Clear removes the whole cache
// directory, and reads on synced storage wait for the remote copy first.
package resource
