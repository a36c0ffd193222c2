package speech

import (
	"context"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
)

// Archive keeps synthesized clips. Save returns where the clip was stored.
type Archive interface {
	Save(ctx context.Context, name string, audio []byte) (string, error)
}

// Nop discards clips.
type Nop struct{}

// Save implements Archive.
func (Nop) Save(ctx context.Context, name string, audio []byte) (string, error) {
	return "", nil
}

// DirArchive writes clips under a local directory.
type DirArchive struct {
	dir string
}

// NewDirArchive creates a DirArchive rooted at dir.
func NewDirArchive(dir string) *DirArchive {
	return &DirArchive{dir: dir}
}

// Save implements Archive. name may contain slashes but must stay inside the
// archive directory.
func (a *DirArchive) Save(ctx context.Context, name string, audio []byte) (string, error) {
	rel := filepath.FromSlash(name)
	if !filepath.IsLocal(rel) {
		return "", goerr.New("clip name escapes archive directory", goerr.V("name", name))
	}

	path := filepath.Join(a.dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", goerr.Wrap(err, "failed to create archive directory", goerr.V("path", path))
	}
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", goerr.Wrap(err, "failed to write clip", goerr.V("path", path))
	}
	return path, nil
}

// BucketArchive uploads clips to a Cloud Storage bucket.
type BucketArchive struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewBucketArchive creates a BucketArchive using application default
// credentials.
func NewBucketArchive(ctx context.Context, bucket, prefix string) (*BucketArchive, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
	}
	return &BucketArchive{client: client, bucket: bucket, prefix: prefix}, nil
}

// Save implements Archive.
func (a *BucketArchive) Save(ctx context.Context, name string, audio []byte) (string, error) {
	objectName := a.prefix + name
	w := a.client.Bucket(a.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = "audio/mpeg"

	if _, err := w.Write(audio); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to upload clip",
			goerr.V("bucket", a.bucket),
			goerr.V("object", objectName),
		)
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finish clip upload",
			goerr.V("bucket", a.bucket),
			goerr.V("object", objectName),
		)
	}
	return "gs://" + a.bucket + "/" + objectName, nil
}

// Close releases the storage client.
func (a *BucketArchive) Close() error {
	return a.client.Close()
}
