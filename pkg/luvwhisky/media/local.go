package media

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// UploadsPath is the URL prefix under which LocalStore files are served.
const UploadsPath = "/uploads"

// LocalStore keeps objects on the local filesystem.
// Safe for concurrent use.
type LocalStore struct {
	dir       string
	publicURL string
	mu        sync.Mutex
}

// NewLocalStore creates a LocalStore writing to dir. publicURL is the
// externally visible origin (e.g. https://blog.example.com); empty yields
// root-relative URLs.
func NewLocalStore(dir, publicURL string) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("local media directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &LocalStore{
		dir:       dir,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Dir returns the directory files are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Put writes data to a new file and returns its URL.
func (s *LocalStore) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("image data cannot be empty")
	}
	objectName, err := ObjectName(name, "")
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(filepath.Join(s.dir, objectName), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return s.publicURL + UploadsPath + "/" + objectName, nil
}

// Delete removes the file behind a URL returned by Put.
func (s *LocalStore) Delete(ctx context.Context, rawURL string) error {
	name, err := s.objectName(rawURL)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete image file: %w", err)
	}
	return nil
}

// objectName extracts the file name from one of this store's URLs.
func (s *LocalStore) objectName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ErrNotOwned
	}
	if s.publicURL != "" && u.IsAbs() {
		base, _ := url.Parse(s.publicURL)
		if base == nil || !strings.EqualFold(u.Host, base.Host) {
			return "", ErrNotOwned
		}
	}

	name, ok := strings.CutPrefix(u.Path, UploadsPath+"/")
	if !ok || name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", ErrNotOwned
	}
	return name, nil
}
