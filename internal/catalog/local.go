package catalog

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/leca/showroom-gallery/internal/metadata"
	"github.com/leca/showroom-gallery/internal/model"
	"github.com/leca/showroom-gallery/internal/storage"
)

// Compile-time check that Local implements Catalog.
var _ Catalog = (*Local)(nil)

// uploadsPrefix is the public path prefix under which local blobs are
// served; record paths embed it so the path doubles as a fetch URL path.
const uploadsPrefix = "uploads/"

// Local is the disk-backed catalog generation: blobs in a filesystem
// store, records in a metadata store. The metadata store is the source
// of truth for listing.
type Local struct {
	meta  metadata.Store
	blobs storage.BlobStore
	limit int64
}

// NewLocal builds a local-mode catalog with the given upload ceiling.
func NewLocal(meta metadata.Store, blobs storage.BlobStore, limit int64) *Local {
	return &Local{meta: meta, blobs: blobs, limit: limit}
}

func (c *Local) Create(ctx context.Context, p CreateParams) (*model.Image, error) {
	if err := validateCreate(p); err != nil {
		return nil, err
	}

	payload, err := readPayload(p.Data, p.Size, c.limit)
	if err != nil {
		return nil, err
	}

	entry, err := c.blobs.Store(ctx, p.Section, p.Filename, bytes.NewReader(payload), int64(len(payload)), nil)
	if err != nil {
		return nil, storageErr("storing blob", err)
	}

	width, height := dimensions(payload)
	img := &model.Image{
		// Nanosecond resolution keeps timestamp ids unique within a
		// single process.
		ID:         strconv.FormatInt(time.Now().UnixNano(), 10),
		Section:    p.Section,
		Category:   p.Category,
		Filename:   entry.Filename,
		Path:       uploadsPrefix + entry.Locator,
		Caption:    p.Caption,
		Width:      width,
		Height:     height,
		UploadDate: time.Now().UTC(),
	}

	if err := c.meta.Append(img); err != nil {
		// Keep the stores consistent: a blob without a record is an
		// orphan, so undo the write we just made.
		_ = c.blobs.Delete(ctx, entry.Locator)
		return nil, storageErr("writing image record", err)
	}

	return img, nil
}

func (c *Local) List(ctx context.Context, section string) ([]*model.Image, error) {
	images, err := c.meta.List(section)
	if err != nil {
		return nil, storageErr("listing image records", err)
	}
	if images == nil {
		images = []*model.Image{}
	}
	return images, nil
}

func (c *Local) Delete(ctx context.Context, id string) error {
	img, err := c.meta.Get(id)
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			return ErrNotFound
		}
		return storageErr("looking up image record", err)
	}

	// Blob first. An already-missing blob is fine; any other failure
	// aborts so the record is not left pointing at nothing useful.
	locator := strings.TrimPrefix(img.Path, uploadsPrefix)
	if err := c.blobs.Delete(ctx, locator); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return storageErr("deleting blob", err)
	}

	if err := c.meta.Remove(id); err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			return ErrNotFound
		}
		return storageErr("removing image record", err)
	}
	return nil
}
