package fsx

import (
	"context"
	"io"
)

// FileReader reads whole files from a storage backend
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// FileWriter writes and removes files on a storage backend
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte) error
	WriteFileStream(ctx context.Context, path string, r io.Reader) error
	DeleteFile(ctx context.Context, path string) error
}

// FileSystem is the full storage abstraction handlers and services
// depend on. Implementations decide what a path means (object key,
// local path).
type FileSystem interface {
	FileReader
	FileWriter
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) (bool, error)
	Join(parts ...string) string
}
