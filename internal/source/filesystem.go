// Package source provides the places the four CSV tables are loaded from.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fwm-go/internal/config"
	"fwm-go/internal/fwm"
)

// FileSystemSource reads tables from files in one directory.
type FileSystemSource struct {
	dir   string
	files config.SourceFiles
}

var _ fwm.Source = (*FileSystemSource)(nil)

// NewFileSystemSource creates a source reading dir/<file name>.
// The directory must exist.
func NewFileSystemSource(dir string, files config.SourceFiles) (*FileSystemSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("source directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path is not a directory: %s", dir)
	}
	return &FileSystemSource{dir: dir, files: files}, nil
}

func (s *FileSystemSource) Open(ctx context.Context, table string) (io.ReadCloser, error) {
	name := s.files.ForTable(table)
	if name == "" {
		return nil, fmt.Errorf("no file configured for table %q", table)
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FileSystemSource) Describe(table string) string {
	return filepath.Join(s.dir, s.files.ForTable(table))
}
