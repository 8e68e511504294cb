package adapter

import (
	"io"
	"os"
)

// Filesystem defines an interface for file access to enable mocking
//
//go:generate mockgen -source=filesystem.go -destination=../mocks/filesystem.go -package=mocks -mock_names=Filesystem=MockFilesystem
type Filesystem interface {
	// Open opens a file for reading
	Open(path string) (io.ReadCloser, error)
}

// RealFilesystem implements Filesystem using the os package
type RealFilesystem struct{}

// NewFilesystem creates a new real filesystem
func NewFilesystem() Filesystem {
	return &RealFilesystem{}
}

func (f *RealFilesystem) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}
