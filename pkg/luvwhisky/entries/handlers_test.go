package entries

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db)

	api := r.Group("/api")
	handler.RegisterPublicRoutes(api)
	handler.RegisterAdminRoutes(api)

	return r
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateEntryHandler(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	body := map[string]any{
		"title":         "Talisker 10년",
		"category":      "싱글몰트",
		"age":           10,
		"abv":           "45.8",
		"rating":        4.5,
		"purchase_date": "2024-03-01",
		"tags":          []string{"피트", "아일라"},
	}
	w := doJSON(router, "POST", "/api/entries", body)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp EntryResponse
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp.Slug != "talisker-10년" {
		t.Errorf("Expected slug 'talisker-10년', got '%s'", resp.Slug)
	}
	if len(resp.Tags) != 2 || resp.Tags[0] != "피트" || resp.Tags[1] != "아일라" {
		t.Errorf("Expected tags [피트 아일라], got %v", resp.Tags)
	}
	if resp.Age == nil || *resp.Age != 10 {
		t.Errorf("Expected age 10, got %v", resp.Age)
	}
	if resp.PurchaseDate == nil || *resp.PurchaseDate != "2024-03-01" {
		t.Errorf("Expected purchase_date 2024-03-01, got %v", resp.PurchaseDate)
	}
	if resp.Notes != nil {
		t.Errorf("Expected notes to be null, got %v", *resp.Notes)
	}
}

func TestCreateEntryMissingTitle(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	w := doJSON(router, "POST", "/api/entries", map[string]any{"category": "버번"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["code"] != "VALIDATION" {
		t.Errorf("Expected code VALIDATION, got %v", resp["code"])
	}
	details, _ := resp["details"].(map[string]any)
	if _, ok := details["title"]; !ok {
		t.Errorf("Expected details for title, got %v", resp["details"])
	}
}

func TestGetEntryHandler(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	w := doJSON(router, "POST", "/api/entries", map[string]any{"title": "Oban 14", "category": "싱글몰트"})
	var created EntryResponse
	json.Unmarshal(w.Body.Bytes(), &created)

	w = doJSON(router, "GET", "/api/entries/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	w = doJSON(router, "GET", "/api/entries/does-not-exist", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	w = doJSON(router, "GET", "/api/whisky/oban-14", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for slug lookup, got %d", w.Code)
	}
}

func TestListEntriesHandler(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	doJSON(router, "POST", "/api/entries", map[string]any{"title": "A", "category": "버번", "tags": []string{"vanilla"}})
	doJSON(router, "POST", "/api/entries", map[string]any{"title": "B", "category": "라이"})

	w := doJSON(router, "GET", "/api/entries", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var all []EntryResponse
	json.Unmarshal(w.Body.Bytes(), &all)
	if len(all) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(all))
	}

	w = doJSON(router, "GET", "/api/entries?tag=vanilla", nil)
	var tagged []EntryResponse
	json.Unmarshal(w.Body.Bytes(), &tagged)
	if len(tagged) != 1 || tagged[0].Title != "A" {
		t.Errorf("Expected only entry A for tag filter, got %v", tagged)
	}

	w = doJSON(router, "GET", "/api/entries?rating=9", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for out of range rating, got %d", w.Code)
	}

	w = doJSON(router, "GET", "/api/entries?limit=abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for bad limit, got %d", w.Code)
	}
}

func TestListEntriesEmpty(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	w := doJSON(router, "GET", "/api/entries", nil)
	if body := w.Body.String(); body != "[]" {
		t.Errorf("Expected empty JSON array, got %s", body)
	}
}

func TestUpdateEntryHandler(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	w := doJSON(router, "POST", "/api/entries", map[string]any{
		"title":    "Lagavulin 16",
		"category": "싱글몰트",
		"notes":    "foo",
		"tags":     []string{"smoky", "sherry"},
	})
	var created EntryResponse
	json.Unmarshal(w.Body.Bytes(), &created)

	w = doJSON(router, "PUT", "/api/entries/"+created.ID, map[string]any{
		"title":    "Lagavulin 16",
		"category": "싱글몰트",
		"tags":     []string{"smoky"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated EntryResponse
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Notes != nil {
		t.Errorf("Expected notes to be cleared, got %v", *updated.Notes)
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "smoky" {
		t.Errorf("Expected tags [smoky], got %v", updated.Tags)
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Errorf("Expected created_at to be unchanged")
	}

	w = doJSON(router, "PUT", "/api/entries/missing", map[string]any{"title": "x", "category": "y"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestCreateEntryCamelCaseFields(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	w := doJSON(router, "POST", "/api/entries", map[string]any{
		"title":        "Glenfarclas 105",
		"category":     "싱글몰트",
		"coverImage":   "https://x/y.jpg",
		"purchaseDate": "2024-01-02",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var created EntryResponse
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.CoverImage == nil || *created.CoverImage != "https://x/y.jpg" {
		t.Errorf("Expected cover_image from coverImage, got %v", created.CoverImage)
	}
	if created.PurchaseDate == nil || *created.PurchaseDate != "2024-01-02" {
		t.Errorf("Expected purchase_date from purchaseDate, got %v", created.PurchaseDate)
	}

	// An update in the same shape keeps the cover
	w = doJSON(router, "PUT", "/api/entries/"+created.ID, map[string]any{
		"title":      "Glenfarclas 105",
		"category":   "싱글몰트",
		"coverImage": "https://x/y.jpg",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated EntryResponse
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.CoverImage == nil || *updated.CoverImage != "https://x/y.jpg" {
		t.Errorf("Expected cover_image to survive the update, got %v", updated.CoverImage)
	}

	// snake_case wins when both are present
	w = doJSON(router, "PUT", "/api/entries/"+created.ID, map[string]any{
		"title":       "Glenfarclas 105",
		"category":    "싱글몰트",
		"cover_image": "https://x/new.jpg",
		"coverImage":  "https://x/old.jpg",
	})
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.CoverImage == nil || *updated.CoverImage != "https://x/new.jpg" {
		t.Errorf("Expected cover_image https://x/new.jpg, got %v", updated.CoverImage)
	}
}

func TestDeleteEntryHandler(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	w := doJSON(router, "POST", "/api/entries", map[string]any{"title": "Caol Ila 12", "category": "싱글몰트"})
	var created EntryResponse
	json.Unmarshal(w.Body.Bytes(), &created)

	w = doJSON(router, "DELETE", "/api/entries/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	w = doJSON(router, "DELETE", "/api/entries/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on second delete, got %d", w.Code)
	}
}

func TestFacetsHandler(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	doJSON(router, "POST", "/api/entries", map[string]any{"title": "A", "category": "버번", "rating": "4", "tags": []string{"vanilla"}})

	w := doJSON(router, "GET", "/api/entries/facets", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var facets Facets
	json.Unmarshal(w.Body.Bytes(), &facets)
	if len(facets.Categories) != 1 || facets.Categories[0].Value != "버번" {
		t.Errorf("Expected category facet for 버번, got %v", facets.Categories)
	}
	if len(facets.Ratings) != 5 {
		t.Errorf("Expected 5 rating buckets, got %d", len(facets.Ratings))
	}
}
