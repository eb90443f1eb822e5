package catalog

import (
	"bytes"
	"context"
	"io"

	"github.com/disintegration/imaging"
	"github.com/leca/showroom-gallery/internal/model"
)

// CreateParams carries one upload.
type CreateParams struct {
	Section  string
	Category string
	// Caption is carried in local mode only; remote mode drops it.
	Caption  string
	Filename string
	Data     io.Reader
	// Size is the declared payload size in bytes, or -1 when unknown.
	Size int64
}

// Catalog is the service façade over one storage generation. Every
// operation keeps the metadata and blob sides consistent: a record never
// outlives its blob and a blob is never persisted without a record.
type Catalog interface {
	// Create validates params, stores the payload under a namespace
	// derived from the section and persists the record. The blob write
	// happens first; if it fails, no record is written.
	Create(ctx context.Context, p CreateParams) (*model.Image, error)

	// List returns records for a concrete section, or for the whole
	// catalog when given model.SectionAll, newest first. An empty
	// catalog yields an empty slice, not an error.
	List(ctx context.Context, section string) ([]*model.Image, error)

	// Delete removes the blob and then the record. A failed blob delete
	// aborts the operation and leaves the record in place.
	Delete(ctx context.Context, id string) error
}

// readPayload buffers the upload, enforcing the size ceiling. A payload
// whose declared size already exceeds the limit is rejected before any
// byte is read.
func readPayload(data io.Reader, declaredSize, limit int64) ([]byte, error) {
	if declaredSize > limit {
		return nil, ErrPayloadTooLarge
	}
	buf, err := io.ReadAll(io.LimitReader(data, limit+1))
	if err != nil {
		return nil, storageErr("reading upload", err)
	}
	if int64(len(buf)) > limit {
		return nil, ErrPayloadTooLarge
	}
	return buf, nil
}

// dimensions decodes the payload to record its pixel size. Best-effort:
// payloads that do not decode as images leave both values zero.
func dimensions(payload []byte) (width, height int) {
	img, err := imaging.Decode(bytes.NewReader(payload))
	if err != nil {
		return 0, 0
	}
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy()
}

// validateCreate checks the fields every mode requires.
func validateCreate(p CreateParams) error {
	if p.Data == nil {
		return &ValidationError{Field: "Image"}
	}
	if p.Section == "" {
		return &ValidationError{Field: "Section"}
	}
	return nil
}
