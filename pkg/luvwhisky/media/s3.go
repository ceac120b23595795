package media

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Prefix is the key prefix for uploaded covers.
const S3Prefix = "covers/"

// S3Options configures an S3Store.
type S3Options struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// PublicURL is the origin objects are served from. Empty means
	// path-style URLs on the endpoint itself.
	PublicURL string
}

// S3Store keeps objects in an S3-compatible bucket.
type S3Store struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewS3Store creates a store backed by an S3-compatible service.
func NewS3Store(opts S3Options) (*S3Store, error) {
	if opts.Endpoint == "" || opts.Bucket == "" {
		return nil, fmt.Errorf("s3 endpoint and bucket are required")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	publicURL := strings.TrimRight(opts.PublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if opts.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + opts.Endpoint + "/" + opts.Bucket
	}

	return &S3Store{client: client, bucket: opts.Bucket, publicURL: publicURL}, nil
}

// Put uploads data and returns its public URL.
func (s *S3Store) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	objectName, err := ObjectName(name, "")
	if err != nil {
		return "", err
	}
	key := S3Prefix + objectName

	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

// Delete removes the object behind a URL returned by Put. S3 treats
// removing a missing key as success.
func (s *S3Store) Delete(ctx context.Context, rawURL string) error {
	key, err := s.key(rawURL)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) key(rawURL string) (string, error) {
	rest, ok := strings.CutPrefix(rawURL, s.publicURL+"/")
	if !ok {
		return "", ErrNotOwned
	}
	if u, err := url.Parse(rest); err == nil {
		rest = u.Path
	}
	if !strings.HasPrefix(rest, S3Prefix) || len(rest) == len(S3Prefix) {
		return "", ErrNotOwned
	}
	return rest, nil
}
