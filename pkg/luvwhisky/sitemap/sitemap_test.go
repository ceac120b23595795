package sitemap

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/database"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/entries"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/models"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func TestSitemap(t *testing.T) {
	db := setupTestDB(t)
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	entry, err := entries.NewService(db).CreateEntry(context.Background(), entries.EntryInput{
		Title:    "Talisker 10년",
		Category: "싱글몰트",
	})
	if err != nil {
		t.Fatalf("Failed to create entry: %v", err)
	}
	db.Model(&models.WhiskyEntry{}).Where("id = ?", entry.ID).UpdateColumn("created_at", created)

	h := NewHandler(db, "https://whisky.example.com/")
	h.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)

	req, _ := http.NewRequest("GET", "/sitemap.xml", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "application/xml") {
		t.Errorf("Expected XML content type, got %s", w.Header().Get("Content-Type"))
	}

	var set URLSet
	if err := xml.Unmarshal(w.Body.Bytes(), &set); err != nil {
		t.Fatalf("Invalid XML: %v", err)
	}
	if set.Xmlns != Namespace {
		t.Errorf("Expected sitemap namespace, got %q", set.Xmlns)
	}

	want := []URL{
		{"https://whisky.example.com", "2024-06-01T00:00:00Z", "daily", "1.0"},
		{"https://whisky.example.com/blog", "2024-06-01T00:00:00Z", "daily", "0.9"},
		{"https://whisky.example.com/about", "2024-06-01T00:00:00Z", "monthly", "0.5"},
		{"https://whisky.example.com/whisky/talisker-10년", "2024-03-01T09:30:00Z", "monthly", "0.8"},
	}
	if len(set.URLs) != len(want) {
		t.Fatalf("Expected %d urls, got %d", len(want), len(set.URLs))
	}
	for i := range want {
		if set.URLs[i] != want[i] {
			t.Errorf("url %d: expected %+v, got %+v", i, want[i], set.URLs[i])
		}
	}
}

func TestSitemapWithoutEntries(t *testing.T) {
	h := NewHandler(setupTestDB(t), "http://localhost:3000")

	set, err := h.Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(set.URLs) != 3 {
		t.Errorf("Expected only the fixed pages, got %d urls", len(set.URLs))
	}
}
