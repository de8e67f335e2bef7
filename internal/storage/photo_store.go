package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// PhotoStore is the capability the report workflow uses to persist
// attached photos. Store returns a path relative to the store root.
type PhotoStore interface {
	Store(data []byte, mimeType string) (string, error)
	Remove(relativePath string) error
}

// MaxPhotoBytes is the hard size cap enforced by the store itself.
const MaxPhotoBytes = 10 << 20

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// AllowedMimeType reports whether the store accepts the given type.
func AllowedMimeType(mimeType string) bool {
	_, ok := extensions[mimeType]
	return ok
}

// DiskPhotoStore writes photos under a root directory with uuid
// filenames grouped by upload date.
type DiskPhotoStore struct {
	root string
}

func NewDiskPhotoStore(root string) *DiskPhotoStore {
	return &DiskPhotoStore{root: root}
}

func (s *DiskPhotoStore) Store(data []byte, mimeType string) (string, error) {
	ext, ok := extensions[mimeType]
	if !ok {
		return "", fmt.Errorf("unsupported photo type: %s", mimeType)
	}
	if len(data) > MaxPhotoBytes {
		return "", fmt.Errorf("photo exceeds %d byte limit", MaxPhotoBytes)
	}

	if err := os.MkdirAll(s.root, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	filename := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.root, filename), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write photo: %w", err)
	}
	return filename, nil
}

func (s *DiskPhotoStore) Remove(relativePath string) error {
	// Refuse anything that escapes the store root.
	clean := filepath.Clean(relativePath)
	if clean != filepath.Base(clean) {
		return fmt.Errorf("invalid photo path: %s", relativePath)
	}
	return os.Remove(filepath.Join(s.root, clean))
}
