package storage

import (
	"fmt"
	"os"
	"os/user"
)

// DeviceHeader carries the device identity on sync requests.
const DeviceHeader = "X-Photo-Frame-Device"

// Device identifies the installation talking to the sync server.
type Device struct {
	Hostname string
	Username string
}

// DetectDevice gathers host and user information for the sync server logs.
func DetectDevice() (Device, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return Device{}, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return Device{}, fmt.Errorf("current user: %w", err)
	}

	return Device{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}

// String formats the device as username@hostname.
func (d Device) String() string {
	return d.Username + "@" + d.Hostname
}
