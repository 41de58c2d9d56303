// Package docstore persists the metadata document on disk.
package docstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/domain/ports"
)

// fileStoreConfig holds configuration for the FileStore.
type fileStoreConfig struct {
	path     string      // Path to the document
	dirPerm  os.FileMode // Permission for created directories
	filePerm os.FileMode // Permission for the document
}

func defaultFileStoreConfig() fileStoreConfig {
	return fileStoreConfig{
		path:     entities.DefaultExportPath,
		dirPerm:  0o755,
		filePerm: 0o644, // read by the code generator
	}
}

// FileStoreOption configures a FileStore instance.
type FileStoreOption func(*fileStoreConfig)

// WithPath sets the path to the document. Defaults to assemblyInfo.json in
// the working directory.
func WithPath(path string) FileStoreOption {
	return func(c *fileStoreConfig) {
		if path != "" {
			c.path = path
		}
	}
}

// WithFilePermissions sets the file permissions for the document.
func WithFilePermissions(perm os.FileMode) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.filePerm = perm
	}
}

// WithDirPermissions sets the permissions of directories created for the
// document.
func WithDirPermissions(perm os.FileMode) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.dirPerm = perm
	}
}

// FileStore writes the document to a single file, replacing it atomically.
type FileStore struct {
	config fileStoreConfig
}

// NewFileStore creates a new FileStore with the given options.
func NewFileStore(opts ...FileStoreOption) ports.DocumentStore {
	cfg := defaultFileStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &FileStore{config: cfg}
}

// Load returns the last saved document.
func (s *FileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.config.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata document: %w", err)
	}
	return data, nil
}

// Save writes document next to its destination and renames it into place,
// so the code generator never reads a half-written file.
func (s *FileStore) Save(document []byte) error {
	dir := filepath.Dir(s.config.path)
	if err := os.MkdirAll(dir, s.config.dirPerm); err != nil {
		return fmt.Errorf("failed to create document directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.config.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary document: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(document); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write metadata document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write metadata document: %w", err)
	}
	if err := os.Chmod(tmpName, s.config.filePerm); err != nil {
		return fmt.Errorf("failed to set document permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.config.path); err != nil {
		return fmt.Errorf("failed to replace metadata document: %w", err)
	}
	return nil
}

// Path returns the path to the backing file.
func (s *FileStore) Path() string {
	return s.config.path
}
