// Package fsx abstracts file storage so watch definitions can live on local
// disk or in object storage.
package fsx

import (
	"context"
	"time"
)

// FileInfo represents information about a stored file
type FileInfo struct {
	Name    string    // Base name of the file
	Size    int64     // File size in bytes
	ModTime time.Time // Modification time
	IsDir   bool      // Is a directory
}

// FileReader provides read-only operations
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	List(ctx context.Context, path string) ([]FileInfo, error)
	Exists(ctx context.Context, path string) (bool, error)
}

// FileWriter provides write operations
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte) error
}

// PathOperations provides path manipulation functionality
type PathOperations interface {
	Join(elem ...string) string
}

// FileSystem combines all file operations
type FileSystem interface {
	FileReader
	FileWriter
	PathOperations
}
