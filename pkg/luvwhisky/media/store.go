// Package media stores cover images in an object store and hands back
// public URLs. Entries only ever keep the URL.
package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrNotOwned is returned by Delete for URLs the store did not issue.
var ErrNotOwned = errors.New("url does not belong to this store")

// Store is the blob storage the upload endpoint writes to.
type Store interface {
	// Put stores data under a name derived from name and returns its
	// public URL.
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
	// Delete removes the object behind url. Deleting an object that is
	// already gone is not an error.
	Delete(ctx context.Context, url string) error
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ObjectName turns an uploaded file name into a collision-free object
// name: the sanitized base name plus a random suffix, keeping the
// extension ("My Cover.JPG" → "my-cover-V1StGXR8_Z5jdHi6B.jpg").
func ObjectName(filename, ext string) (string, error) {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if e := path.Ext(base); e != "" {
		base = strings.TrimSuffix(base, e)
		if ext == "" {
			ext = e
		}
	}
	base = strings.Trim(unsafeNameChars.ReplaceAllString(strings.ToLower(base), "-"), "-.")
	if base == "" {
		base = "cover"
	}
	if len(base) > 64 {
		base = base[:64]
	}

	suffix, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return base + "-" + suffix + strings.ToLower(ext), nil
}
