package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore records calls and can be told to fail.
type fakeStore struct {
	mu        sync.Mutex
	puts      []string
	deletes   []string
	putErr    error
	deleteErr error
}

func (f *fakeStore) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return "", f.putErr
	}
	f.puts = append(f.puts, name)
	return "https://cdn.example.com/" + name, nil
}

func (f *fakeStore) Delete(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, url)
	return f.deleteErr
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: 90, B: uint8(y * 255 / h), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		fw.Write(data)
	}
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest("POST", "/api/media", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func setupTestRouter(store Store, maxBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(store, maxBytes).RegisterRoutes(r.Group("/api"))
	return r
}

func TestObjectName(t *testing.T) {
	name, err := ObjectName("My Cover.JPG", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "my-cover-"), name)
	assert.True(t, strings.HasSuffix(name, ".jpg"), name)

	other, err := ObjectName("My Cover.JPG", "")
	require.NoError(t, err)
	assert.NotEqual(t, name, other, "names must carry a random suffix")

	name, err = ObjectName("../../etc/passwd", ".png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "passwd-"), name)
	assert.True(t, strings.HasSuffix(name, ".png"), name)

	name, err = ObjectName("탈리스커.webp", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "cover-"), name)
}

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "https://blog.example.com/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := store.Put(ctx, "talisker.png", "image/png", []byte("data"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://blog.example.com/uploads/talisker-"), url)

	name := filepath.Base(url)
	stored, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), stored)

	require.NoError(t, store.Delete(ctx, url))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(ctx, url), "deleting a missing file is not an error")

	assert.ErrorIs(t, store.Delete(ctx, "https://elsewhere.example.com/uploads/x.png"), ErrNotOwned)
	assert.ErrorIs(t, store.Delete(ctx, "https://blog.example.com/uploads/../secret"), ErrNotOwned)
	assert.ErrorIs(t, store.Delete(ctx, "https://blog.example.com/other/x.png"), ErrNotOwned)

	_, err = store.Put(ctx, "empty.png", "image/png", nil)
	assert.Error(t, err)
}

func TestLocalStoreRelativeURLs(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "a.jpg", "image/jpeg", []byte("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/a-"), url)
	assert.NoError(t, store.Delete(context.Background(), url))
}

func TestS3StoreKeys(t *testing.T) {
	store, err := NewS3Store(S3Options{
		Endpoint:  "s3.example.com",
		Bucket:    "whisky",
		AccessKey: "key",
		SecretKey: "secret",
		UseSSL:    true,
	})
	require.NoError(t, err)

	key, err := store.key("https://s3.example.com/whisky/covers/a-123.png")
	require.NoError(t, err)
	assert.Equal(t, "covers/a-123.png", key)

	_, err = store.key("https://other.example.com/whisky/covers/a.png")
	assert.ErrorIs(t, err, ErrNotOwned)
	_, err = store.key("https://s3.example.com/whisky/private/a.png")
	assert.ErrorIs(t, err, ErrNotOwned)

	_, err = NewS3Store(S3Options{Endpoint: "s3.example.com"})
	assert.Error(t, err)
}

func TestComputeBlurHash(t *testing.T) {
	hash, err := ComputeBlurHash(testPNG(t, 200, 120))
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	_, err = ComputeBlurHash([]byte("not an image"))
	assert.Error(t, err)
}

func TestThumbnailKeepsAspectRatio(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 640, 320))
	b := thumbnail(img).Bounds()
	assert.Equal(t, 64, b.Dx())
	assert.Equal(t, 32, b.Dy())

	small := image.NewRGBA(image.Rect(0, 0, 10, 10))
	assert.Same(t, small, thumbnail(small).(*image.RGBA))
}

func TestUpload(t *testing.T) {
	store := &fakeStore{}
	router := setupTestRouter(store, 0)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "cover.bin", testPNG(t, 32, 32), nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp UploadResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !strings.HasPrefix(resp.URL, "https://cdn.example.com/cover") {
		t.Errorf("Unexpected URL %s", resp.URL)
	}
	if resp.BlurHash == "" {
		t.Error("Expected a blurhash for a PNG upload")
	}
	if len(store.puts) != 1 || store.puts[0] != "cover.png" {
		t.Errorf("Expected stored name cover.png from sniffed type, got %v", store.puts)
	}
	if len(store.deletes) != 0 {
		t.Errorf("Expected no deletes, got %v", store.deletes)
	}
}

func TestUploadReplacesOldImage(t *testing.T) {
	store := &fakeStore{}
	router := setupTestRouter(store, 0)

	for _, field := range []string{"old_url", "oldUrl"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, uploadRequest(t, "new.png", testPNG(t, 8, 8), map[string]string{field: "https://cdn.example.com/old.png"}))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
	}
	if len(store.deletes) != 2 || store.deletes[0] != "https://cdn.example.com/old.png" {
		t.Errorf("Expected old image deletes, got %v", store.deletes)
	}
}

func TestUploadOldImageDeleteFailureIsSwallowed(t *testing.T) {
	store := &fakeStore{deleteErr: errors.New("boom")}
	router := setupTestRouter(store, 0)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "new.png", testPNG(t, 8, 8), map[string]string{"old_url": "https://cdn.example.com/old.png"}))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 despite delete failure, got %d", w.Code)
	}
}

func TestUploadErrors(t *testing.T) {
	tests := []struct {
		name     string
		store    *fakeStore
		maxBytes int64
		filename string
		data     []byte
		want     int
	}{
		{name: "no file", store: &fakeStore{}, want: http.StatusBadRequest},
		{name: "not an image", store: &fakeStore{}, filename: "notes.txt", data: []byte("hello world"), want: http.StatusBadRequest},
		{name: "svg rejected", store: &fakeStore{}, filename: "x.svg", data: []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`), want: http.StatusBadRequest},
		{name: "too large", store: &fakeStore{}, maxBytes: 16, filename: "big.png", data: nil, want: http.StatusBadRequest},
		{name: "store failure", store: &fakeStore{putErr: errors.New("unreachable")}, filename: "a.png", data: nil, want: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.data
			if data == nil && tt.filename != "" {
				data = testPNG(t, 16, 16)
			}
			router := setupTestRouter(tt.store, tt.maxBytes)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, uploadRequest(t, tt.filename, data, nil))

			if w.Code != tt.want {
				t.Errorf("Expected status %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}
