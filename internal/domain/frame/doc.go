// Package frame contains the core domain types of the photo frame: the kind
// of storage the cache lives on and the widget families it can be rendered in.
package frame
