package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when a locator does not resolve to a stored blob.
var ErrNotFound = errors.New("blob not found")

// Entry describes a stored blob.
type Entry struct {
	// Locator identifies the blob for Retrieve and Delete. A relative
	// path for filesystem storage, the object key for remote storage.
	Locator  string
	Filename string
	// URL is a fully-qualified fetch URL. Empty for filesystem storage,
	// where serving is the caller's concern.
	URL      string
	Metadata map[string]string
	Size     int64
	Created  time.Time
}

// BlobStore is the capability interface shared by both storage backends.
type BlobStore interface {
	// Store writes data under the given namespace. filename is the
	// client-supplied name; implementations derive their own
	// collision-resistant name from it.
	Store(ctx context.Context, namespace, filename string, data io.Reader, size int64, metadata map[string]string) (*Entry, error)

	// List returns all entries under namespace. An empty namespace
	// lists the whole store.
	List(ctx context.Context, namespace string) ([]Entry, error)

	// Retrieve opens the blob identified by locator.
	Retrieve(ctx context.Context, locator string) (io.ReadCloser, error)

	// Delete removes the blob identified by locator. Returns ErrNotFound
	// if no such blob exists.
	Delete(ctx context.Context, locator string) error
}
