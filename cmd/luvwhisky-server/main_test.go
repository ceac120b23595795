package main

import (
	"path/filepath"
	"testing"

	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/config"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/media"
)

func TestNewMediaStoreLocal(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")

	store, uploadsDir, err := newMediaStore(config.MediaConfig{Backend: "local", LocalDir: dir})
	if err != nil {
		t.Fatalf("newMediaStore failed: %v", err)
	}
	if _, ok := store.(*media.LocalStore); !ok {
		t.Errorf("Expected *media.LocalStore, got %T", store)
	}
	if uploadsDir != dir {
		t.Errorf("Expected uploads dir %q, got %q", dir, uploadsDir)
	}
}

func TestNewMediaStoreS3(t *testing.T) {
	store, uploadsDir, err := newMediaStore(config.MediaConfig{
		Backend: "S3",
		S3: config.S3Config{
			Endpoint: "s3.example.com",
			Bucket:   "covers",
			UseSSL:   true,
		},
	})
	if err != nil {
		t.Fatalf("newMediaStore failed: %v", err)
	}
	if _, ok := store.(*media.S3Store); !ok {
		t.Errorf("Expected *media.S3Store, got %T", store)
	}
	if uploadsDir != "" {
		t.Errorf("Expected nothing to serve locally, got %q", uploadsDir)
	}
}
