package imagestore

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Backend stores objects in S3 (or a compatible API) via the multipart uploader.
type S3Backend struct {
	client   *s3.Client
	uploader *manager.Uploader
	Bucket   string
	Prefix   string
}

func NewS3Backend(client *s3.Client, bucket, prefix string) *S3Backend {
	return &S3Backend{
		client:   client,
		uploader: manager.NewUploader(client),
		Bucket:   bucket,
		Prefix:   prefix,
	}
}

func (b *S3Backend) key(name string) string {
	return path.Join(b.Prefix, name)
}

func (b *S3Backend) Write(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	if b.Bucket == "" {
		return "", fmt.Errorf("storage bucket is required")
	}
	out, err := b.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.Bucket),
		Key:         aws.String(b.key(name)),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	if out.Location != "" {
		return out.Location, nil
	}
	return fmt.Sprintf("s3://%s/%s", b.Bucket, b.key(name)), nil
}

func (b *S3Backend) Remove(ctx context.Context, name string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.Bucket),
		Key:    aws.String(b.key(name)),
	})
	return err
}
