package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leca/showroom-gallery/internal/model"
)

// Compile-time check that JSONFile implements Store.
var _ Store = (*JSONFile)(nil)

// JSONFile persists the catalog as a single JSON document of the shape
// {"images": [...]}, rewritten wholesale on every mutation and
// pretty-printed with 2-space indentation.
//
// Every operation re-reads the document from disk, so there is no shared
// in-process state. Concurrent writers can lose an update to each other;
// that race is accepted under the single-admin assumption and is
// deliberately not serialized.
type JSONFile struct {
	path string
}

type document struct {
	Images []*model.Image `json:"images"`
}

// NewJSONFile creates a JSONFile store at path, initialising an empty
// document if none exists.
func NewJSONFile(path string) (*JSONFile, error) {
	s := &JSONFile{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		if err := s.save(&document{Images: []*model.Image{}}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *JSONFile) load() (*document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return &doc, nil
}

func (s *JSONFile) save(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

// Append adds a record to the end of the document.
func (s *JSONFile) Append(img *model.Image) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Images = append(doc.Images, img)
	return s.save(doc)
}

// Get returns the record with the given id.
func (s *JSONFile) Get(id string) (*model.Image, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, img := range doc.Images {
		if img.ID == id {
			return img, nil
		}
	}
	return nil, ErrNotFound
}

// List returns records newest first: the document is append-ordered, so
// listing walks it back to front.
func (s *JSONFile) List(section string) ([]*model.Image, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	images := []*model.Image{}
	for i := len(doc.Images) - 1; i >= 0; i-- {
		img := doc.Images[i]
		if section == model.SectionAll || img.Section == section {
			images = append(images, img)
		}
	}
	return images, nil
}

// Remove deletes the record with the given id and rewrites the document.
func (s *JSONFile) Remove(id string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	idx := -1
	for i, img := range doc.Images {
		if img.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotFound
	}
	doc.Images = append(doc.Images[:idx], doc.Images[idx+1:]...)
	return s.save(doc)
}

// Close is a no-op; the store holds no open handles between calls.
func (s *JSONFile) Close() error {
	return nil
}
