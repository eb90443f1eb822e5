package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Compile-time check that Minio implements BlobStore.
var _ BlobStore = (*Minio)(nil)

// Minio implements BlobStore against an S3-compatible object store.
// Objects are keyed <root>/<namespace>/<generated name>; the object key
// is the locator and the catalog's backend-assigned identifier.
type Minio struct {
	client *minio.Client
	bucket string
	root   string
}

// MinioOptions holds connection settings for the remote object store.
type MinioOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Root      string
	UseSSL    bool
}

// NewMinio connects to the object store and ensures the bucket exists.
func NewMinio(ctx context.Context, opts MinioOptions) (*Minio, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to object store: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %s: %w", opts.Bucket, err)
		}
	}

	return &Minio{client: client, bucket: opts.Bucket, root: opts.Root}, nil
}

// objectURL builds the fully-qualified fetch URL for an object key.
func (m *Minio) objectURL(key string) string {
	base := strings.TrimRight(m.client.EndpointURL().String(), "/")
	return fmt.Sprintf("%s/%s/%s", base, m.bucket, key)
}

// Store uploads data plus user metadata under the namespace folder.
// Upload and metadata attach in one call, so create is atomic.
func (m *Minio) Store(ctx context.Context, namespace, filename string, data io.Reader, size int64, metadata map[string]string) (*Entry, error) {
	name := generateName(filename)
	key := path.Join(m.root, namespace, name)

	contentType := mime.TypeByExtension(path.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := m.client.PutObject(ctx, m.bucket, key, data, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("uploading object %s: %w", key, err)
	}

	// The PUT response does not always echo a timestamp.
	created := info.LastModified
	if created.IsZero() {
		created = time.Now().UTC()
	}

	return &Entry{
		Locator:  info.Key,
		Filename: name,
		URL:      m.objectURL(info.Key),
		Metadata: metadata,
		Size:     info.Size,
		Created:  created,
	}, nil
}

// List queries the store by folder prefix. An empty namespace lists
// everything under the root folder.
func (m *Minio) List(ctx context.Context, namespace string) ([]Entry, error) {
	prefix := path.Join(m.root, namespace) + "/"

	entries := []Entry{}
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:       prefix,
		Recursive:    true,
		WithMetadata: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("listing prefix %s: %w", prefix, obj.Err)
		}
		entries = append(entries, Entry{
			Locator:  obj.Key,
			Filename: path.Base(obj.Key),
			URL:      m.objectURL(obj.Key),
			Metadata: userMetadata(obj.UserMetadata),
			Size:     obj.Size,
			Created:  obj.LastModified,
		})
	}
	return entries, nil
}

// Retrieve opens the object identified by its key.
func (m *Minio) Retrieve(ctx context.Context, locator string) (io.ReadCloser, error) {
	if _, err := m.client.StatObject(ctx, m.bucket, locator, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat object %s: %w", locator, err)
	}
	obj, err := m.client.GetObject(ctx, m.bucket, locator, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("getting object %s: %w", locator, err)
	}
	return obj, nil
}

// Delete removes the object by its key. A single call removes both the
// bytes and the attached metadata.
func (m *Minio) Delete(ctx context.Context, locator string) error {
	if _, err := m.client.StatObject(ctx, m.bucket, locator, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return ErrNotFound
		}
		return fmt.Errorf("stat object %s: %w", locator, err)
	}
	if err := m.client.RemoveObject(ctx, m.bucket, locator, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing object %s: %w", locator, err)
	}
	return nil
}

// userMetadata normalises list-result metadata keys: S3 listing reports
// user metadata with the X-Amz-Meta- header prefix intact.
func userMetadata(raw map[string]string) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	meta := make(map[string]string, len(raw))
	for k, v := range raw {
		key := k
		if idx := strings.Index(strings.ToLower(k), "x-amz-meta-"); idx == 0 {
			key = k[len("x-amz-meta-"):]
		}
		meta[strings.ToLower(key)] = v
	}
	return meta
}
