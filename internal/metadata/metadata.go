package metadata

import (
	"errors"

	"github.com/leca/showroom-gallery/internal/model"
)

// ErrNotFound is returned when no record matches the given id.
var ErrNotFound = errors.New("image record not found")

// Store is the metadata persistence interface for local storage mode.
// Remote mode has no metadata store: the object store's folder paths and
// attached metadata serve that role.
type Store interface {
	// Append adds a record. Records are append-only and never mutated
	// in place.
	Append(img *model.Image) error

	// Get returns the record with the given id, or ErrNotFound.
	Get(id string) (*model.Image, error)

	// List returns records for a section, newest first. The wildcard
	// model.SectionAll returns every record.
	List(section string) ([]*model.Image, error)

	// Remove deletes the record with the given id, or returns ErrNotFound.
	Remove(id string) error

	Close() error
}
