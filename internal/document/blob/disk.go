// Package blob stores upload payloads on the local filesystem.
package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"paynroll/internal/document/models"
	id "paynroll/pkg/domain"
	dErrors "paynroll/pkg/domain-errors"
)

// DiskStore writes payloads under root, one directory per admission.
// Stored names are derived from the upload ID, never from the client
// filename, so path traversal in the original name cannot escape root.
type DiskStore struct {
	root string
}

func NewDisk(root string) *DiskStore {
	return &DiskStore{root: root}
}

// Save streams r to disk and returns the stored path and byte count.
// The size ceiling is enforced while copying: an oversized payload is
// removed and rejected even if the declared length lied.
func (s *DiskStore) Save(admissionID id.AdmissionID, uploadID id.UploadID, originalName string, r io.Reader) (string, int64, error) {
	dir := filepath.Join(s.root, admissionID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join(dir, uploadID.String()+strings.ToLower(filepath.Ext(originalName)))
	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create upload file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(r, models.MaxFileSize+1))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("write upload file: %w", err)
	}
	if n > models.MaxFileSize {
		_ = os.Remove(path)
		return "", 0, dErrors.New(dErrors.CodePayloadTooLarge, "file exceeds the 5MB limit")
	}
	return path, n, nil
}

// Open returns the stored payload for serving.
func (s *DiskStore) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload file: %w", err)
	}
	return f, nil
}

// Remove deletes a stored payload. Missing files are not an error.
func (s *DiskStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload file: %w", err)
	}
	return nil
}
