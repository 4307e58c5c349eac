package fsxs3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3FileSystem implements fsx.FileSystem over an S3 bucket. All paths
// are object keys relative to the configured prefix.
type S3FileSystem struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3FileSystem(client *s3.Client, bucket, prefix string) *S3FileSystem {
	return &S3FileSystem{client: client, bucket: bucket, prefix: prefix}
}

func (f *S3FileSystem) key(p string) string {
	if f.prefix == "" {
		return p
	}
	return path.Join(f.prefix, p)
}

func (f *S3FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (f *S3FileSystem) ReadFileStream(ctx context.Context, p string) (io.ReadCloser, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

func (f *S3FileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	return f.WriteFileStream(ctx, p, bytes.NewReader(data))
}

func (f *S3FileSystem) WriteFileStream(ctx context.Context, p string, r io.Reader) error {
	_, err := f.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
		Body:   r,
	})
	return err
}

func (f *S3FileSystem) DeleteFile(ctx context.Context, p string) error {
	_, err := f.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
	})
	return err
}

func (f *S3FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (f *S3FileSystem) Join(parts ...string) string {
	return path.Join(parts...)
}
