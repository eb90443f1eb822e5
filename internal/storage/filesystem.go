package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Compile-time check that FileSystem implements BlobStore.
var _ BlobStore = (*FileSystem)(nil)

// FileSystem implements BlobStore on the local filesystem. Blobs live at
// <basePath>/<namespace>/<generated name>; the locator is the path
// relative to basePath, always slash-separated.
type FileSystem struct {
	basePath string
}

// NewFileSystem creates a FileSystem store rooted at basePath.
func NewFileSystem(basePath string) *FileSystem {
	return &FileSystem{basePath: basePath}
}

// generateName builds a collision-resistant filename: millisecond
// timestamp prefix, random suffix, original extension.
func generateName(filename string) string {
	ext := path.Ext(filename)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), suffix, ext)
}

// Store writes data to disk using atomic write (temp file + rename).
func (fs *FileSystem) Store(ctx context.Context, namespace, filename string, data io.Reader, size int64, metadata map[string]string) (*Entry, error) {
	dir := filepath.Join(fs.basePath, namespace)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	// Write to a temp file in the same directory for atomic rename.
	tmp, err := os.CreateTemp(dir, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	n, err := io.Copy(tmp, data)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("writing data: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	name := generateName(filename)
	dst := filepath.Join(dir, name)
	if err := os.Rename(tmpPath, dst); err != nil {
		return nil, fmt.Errorf("renaming temp file to %s: %w", dst, err)
	}

	// Rename succeeded; prevent deferred cleanup from removing the final file.
	tmpPath = ""

	return &Entry{
		Locator:  path.Join(namespace, name),
		Filename: name,
		Size:     n,
		Metadata: metadata,
		Created:  time.Now().UTC(),
	}, nil
}

// List returns entries under namespace, or the whole store when
// namespace is empty. Entries carry file modification times.
func (fs *FileSystem) List(ctx context.Context, namespace string) ([]Entry, error) {
	root := filepath.Join(fs.basePath, namespace)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return []Entry{}, nil
	}

	var entries []Entry
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(fs.basePath, p)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{
			Locator:  filepath.ToSlash(rel),
			Filename: d.Name(),
			Size:     info.Size(),
			Created:  info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", root, err)
	}
	return entries, nil
}

// Retrieve opens the stored file for the given locator.
func (fs *FileSystem) Retrieve(ctx context.Context, locator string) (io.ReadCloser, error) {
	p := filepath.Join(fs.basePath, filepath.FromSlash(locator))
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("opening file %s: %w", p, err)
	}
	return f, nil
}

// Delete removes the stored file. Returns ErrNotFound if it does not exist.
func (fs *FileSystem) Delete(ctx context.Context, locator string) error {
	p := filepath.Join(fs.basePath, filepath.FromSlash(locator))
	err := os.Remove(p)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("removing file %s: %w", p, err)
	}
	return nil
}
