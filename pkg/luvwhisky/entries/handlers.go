package entries

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/apierror"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/models"
	"gorm.io/gorm"
)

// Handler handles whisky entry requests
type Handler struct {
	svc *Service
}

// NewHandler creates a new entries handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{svc: NewService(db)}
}

// Service exposes the underlying entry service.
func (h *Handler) Service() *Service {
	return h.svc
}

// EntryResponse represents an entry in API responses
type EntryResponse struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	Distillery   *string  `json:"distillery"`
	Category     string   `json:"category"`
	Age          *int     `json:"age"`
	ABV          *float64 `json:"abv"`
	Rating       *float64 `json:"rating"`
	CoverImage   *string  `json:"cover_image"`
	Nose         *string  `json:"nose"`
	Palate       *string  `json:"palate"`
	Finish       *string  `json:"finish"`
	Impression   *string  `json:"impression"`
	Price        *int     `json:"price"`
	PurchaseDate *string  `json:"purchase_date"`
	Description  *string  `json:"description"`
	Notes        *string  `json:"notes"`
	Tags         []string `json:"tags"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// ToResponse maps a stored entry to its API shape.
func ToResponse(e models.WhiskyEntry) EntryResponse {
	resp := EntryResponse{
		ID:          e.ID,
		Title:       e.Title,
		Slug:        e.Slug,
		Distillery:  e.Distillery,
		Category:    e.Category,
		Age:         e.Age,
		ABV:         e.ABV,
		Rating:      e.Rating,
		CoverImage:  e.CoverImage,
		Nose:        e.Nose,
		Palate:      e.Palate,
		Finish:      e.Finish,
		Impression:  e.Impression,
		Price:       e.Price,
		Description: e.Description,
		Notes:       e.Notes,
		Tags:        e.TagNames(),
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if e.PurchaseDate != nil {
		d := e.PurchaseDate.UTC().Format(time.DateOnly)
		resp.PurchaseDate = &d
	}
	return resp
}

// ToResponses maps a list of entries, never returning nil.
func ToResponses(list []models.WhiskyEntry) []EntryResponse {
	out := make([]EntryResponse, len(list))
	for i, e := range list {
		out[i] = ToResponse(e)
	}
	return out
}

// parseFilter reads the optional list filters from the query string.
func parseFilter(c *gin.Context) (ListFilter, error) {
	f := ListFilter{
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
	}

	ints := []struct {
		name string
		dst  *int
		min  int
		max  int
	}{
		{"rating", &f.Rating, 1, 5},
		{"limit", &f.Limit, 1, MaxPageSize},
		{"offset", &f.Offset, 0, -1},
	}
	details := map[string]string{}
	for _, p := range ints {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			details[p.name] = "must be an integer"
			continue
		}
		if n < p.min || (p.max >= 0 && n > p.max) {
			if p.max >= 0 {
				details[p.name] = "must be between " + strconv.Itoa(p.min) + " and " + strconv.Itoa(p.max)
			} else {
				details[p.name] = "must not be negative"
			}
			continue
		}
		*p.dst = n
	}
	if len(details) > 0 {
		return f, apierror.Validation("invalid query parameters").WithDetails(details)
	}
	return f, nil
}

// List returns entries, newest first
// @Summary List entries
// @Description Get all entries with their tags, newest first. All filters are optional.
// @Tags entries
// @Produce json
// @Param category query string false "Exact category"
// @Param rating query int false "Rounded rating 1-5"
// @Param tag query string false "Exact tag name"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {array} EntryResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Router /entries [get]
func (h *Handler) List(c *gin.Context) {
	f, err := parseFilter(c)
	if err != nil {
		apierror.Respond(c, err)
		return
	}

	list, err := h.svc.ListEntries(c.Request.Context(), f)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, ToResponses(list))
}

// Get returns a single entry
// @Summary Get entry
// @Tags entries
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /entries/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	entry, err := h.svc.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, ToResponse(*entry))
}

// GetBySlug returns the entry shown at a public address
// @Summary Get entry by slug
// @Tags entries
// @Produce json
// @Param slug path string true "Entry slug"
// @Success 200 {object} EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /whisky/{slug} [get]
func (h *Handler) GetBySlug(c *gin.Context) {
	entry, err := h.svc.GetEntryBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, ToResponse(*entry))
}

// Facets returns filter counts for the blog sidebar
// @Summary Entry facets
// @Tags entries
// @Produce json
// @Success 200 {object} Facets
// @Router /entries/facets [get]
func (h *Handler) Facets(c *gin.Context) {
	facets, err := h.svc.Facets(c.Request.Context())
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, facets)
}

// Create creates a new entry
// @Summary Create entry
// @Tags entries
// @Accept json
// @Produce json
// @Param request body EntryInput true "Entry fields"
// @Success 201 {object} EntryResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /entries [post]
func (h *Handler) Create(c *gin.Context) {
	var req EntryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.Respond(c, apierror.FromBinding(err, &req))
		return
	}

	entry, err := h.svc.CreateEntry(c.Request.Context(), req)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, ToResponse(*entry))
}

// Update replaces an entry
// @Summary Update entry
// @Description Full replace: omitted optional fields are cleared and the tag set is replaced.
// @Tags entries
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param request body EntryInput true "Entry fields"
// @Success 200 {object} EntryResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /entries/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	var req EntryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.Respond(c, apierror.FromBinding(err, &req))
		return
	}

	entry, err := h.svc.UpdateEntry(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, ToResponse(*entry))
}

// Delete removes an entry
// @Summary Delete entry
// @Tags entries
// @Param id path string true "Entry ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /entries/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RegisterPublicRoutes registers the read-only entry routes
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/entries", h.List)
	rg.GET("/entries/facets", h.Facets)
	rg.GET("/entries/:id", h.Get)
	rg.GET("/whisky/:slug", h.GetBySlug)
}

// RegisterAdminRoutes registers the entry routes that need a session
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/entries", h.Create)
	rg.PUT("/entries/:id", h.Update)
	rg.DELETE("/entries/:id", h.Delete)
}
