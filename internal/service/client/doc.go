// Package client implements the interactive photo-frame commands: setting
// the widget photo, previewing and rendering the widget, and clearing the
// cache.
//
// A Session binds the loaded settings to the storage backend and the
// resource cache. Open initializes the cache the same way for every command.
package client
