// Package updater checks the release feed and replaces the program file when
// a newer release is published.
//
// The running release token is compared with the one served by the version
// endpoint. When the remote one is newer the program body is downloaded,
// swapped in with go-update and the operator is asked to relaunch. Each stage
// reports its own error so a failed download is distinguishable from a
// failed write.
package updater
