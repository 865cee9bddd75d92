package ports

import "io"

// PhotoStore persists uploaded profile photos and releases replaced or
// orphaned files.
type PhotoStore interface {
	// Store writes src under a managed location and returns the public path
	// used for later retrieval and removal.
	Store(src io.Reader, originalName string) (string, error)
	// Remove deletes the stored file. A file that is already missing is not
	// an error.
	Remove(storedPath string) error
}
