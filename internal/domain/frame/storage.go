package frame

import (
	"errors"
	"fmt"
	"strings"
)

// StorageKind selects the storage backend the resource cache lives on.
type StorageKind string

const (
	// StorageLocal keeps the cache on the local filesystem only.
	StorageLocal StorageKind = "local"
	// StorageSynced mirrors the cache to a remote store and materializes
	// files from it before reading.
	StorageSynced StorageKind = "synced"
)

// ErrUnknownStorageKind is returned by ParseStorageKind for unsupported values.
var ErrUnknownStorageKind = errors.New("unknown storage kind")

// ParseStorageKind converts user input to a StorageKind. Empty input means local.
func ParseStorageKind(s string) (StorageKind, error) {
	switch StorageKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", StorageLocal:
		return StorageLocal, nil
	case StorageSynced:
		return StorageSynced, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownStorageKind)
	}
}

// String implements fmt.Stringer.
func (k StorageKind) String() string {
	return string(k)
}

// IsSynced reports whether reads must wait for remote materialization.
func (k StorageKind) IsSynced() bool {
	return k == StorageSynced
}
