// Package syncserver is the remote side of synced storage: a small HTTP
// file store keyed by paths relative to the documents root.
//
// It can also publish release files (the version token and the program
// body) from a directory, so one process can back both synced storage and
// the update check.
package syncserver
