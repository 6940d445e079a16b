package imagestore

import (
	"context"
	"io"
	"path"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/go-user-accounts/pkg/helpers"
)

// GCSBackend stores objects in a Google Cloud Storage bucket and returns public URLs.
type GCSBackend struct {
	Client *storage.Client
	Bucket string
	Prefix string
}

func NewGCSBackend(client *storage.Client, bucket, prefix string) *GCSBackend {
	return &GCSBackend{Client: client, Bucket: bucket, Prefix: prefix}
}

func (b *GCSBackend) key(name string) string {
	return path.Join(b.Prefix, name)
}

func (b *GCSBackend) Write(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	return helpers.UploadObject(ctx, b.Client, b.Bucket, b.key(name), contentType, r)
}

func (b *GCSBackend) Remove(ctx context.Context, name string) error {
	return helpers.DeleteObject(ctx, b.Client, b.Bucket, b.key(name))
}
