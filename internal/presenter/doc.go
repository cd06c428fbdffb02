// Package presenter is the alert surface the core reports outcomes through.
//
// The console implementation prints the message and the numbered actions and
// reads the chosen number back, which is enough for a terminal front end.
package presenter
