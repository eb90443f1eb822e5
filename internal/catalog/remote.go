package catalog

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/leca/showroom-gallery/internal/model"
	"github.com/leca/showroom-gallery/internal/storage"
)

// Compile-time check that Remote implements Catalog.
var _ Catalog = (*Remote)(nil)

// categoryKey is the metadata key the category tag travels under.
const categoryKey = "category"

// Remote is the object-store-backed catalog generation. The store's
// folder paths and attached metadata double as the metadata store, so
// every operation is a single backend call; there is no separate record
// to keep in sync.
type Remote struct {
	media storage.BlobStore
	root  string
	limit int64
}

// NewRemote builds a remote-mode catalog. root is the folder under which
// all sections live in the object store.
func NewRemote(media storage.BlobStore, root string, limit int64) *Remote {
	return &Remote{media: media, root: root, limit: limit}
}

func (c *Remote) Create(ctx context.Context, p CreateParams) (*model.Image, error) {
	if err := validateCreate(p); err != nil {
		return nil, err
	}
	// The category tag is mandatory here: it is the only record of the
	// sub-grouping once the upload call is the whole persistence step.
	if p.Category == "" {
		return nil, &ValidationError{Field: "Category"}
	}

	payload, err := readPayload(p.Data, p.Size, c.limit)
	if err != nil {
		return nil, err
	}

	meta := map[string]string{categoryKey: p.Category}
	entry, err := c.media.Store(ctx, p.Section, p.Filename, bytes.NewReader(payload), int64(len(payload)), meta)
	if err != nil {
		return nil, storageErr("uploading image", err)
	}

	width, height := dimensions(payload)
	return &model.Image{
		ID:         entry.Locator,
		Section:    p.Section,
		Category:   p.Category,
		Filename:   entry.Filename,
		Path:       entry.URL,
		Width:      width,
		Height:     height,
		UploadDate: entry.Created,
	}, nil
}

func (c *Remote) List(ctx context.Context, section string) ([]*model.Image, error) {
	namespace := section
	if section == model.SectionAll {
		namespace = ""
	}

	entries, err := c.media.List(ctx, namespace)
	if err != nil {
		return nil, storageErr("querying image store", err)
	}

	images := make([]*model.Image, 0, len(entries))
	for _, e := range entries {
		images = append(images, &model.Image{
			ID:         e.Locator,
			Section:    c.sectionOf(e.Locator),
			Category:   e.Metadata[categoryKey],
			Filename:   e.Filename,
			Path:       e.URL,
			UploadDate: e.Created,
		})
	}

	sort.Slice(images, func(i, j int) bool {
		if !images[i].UploadDate.Equal(images[j].UploadDate) {
			return images[i].UploadDate.After(images[j].UploadDate)
		}
		return images[i].ID > images[j].ID
	})
	return images, nil
}

func (c *Remote) Delete(ctx context.Context, id string) error {
	err := c.media.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return storageErr("deleting image", err)
	}
	return nil
}

// sectionOf derives the section from an object key of the form
// <root>/<section>/<file>. Keys that do not parse fall back to
// "Uncategorized"; that fallback is documented behavior.
func (c *Remote) sectionOf(key string) string {
	rel := strings.TrimPrefix(key, c.root+"/")
	parts := strings.SplitN(rel, "/", 2)
	if len(parts) != 2 || parts[0] == "" {
		return model.UncategorizedSection
	}
	return parts[0]
}
