package admin

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/apierror"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/database"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/entries"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/models"
	"gorm.io/gorm"
)

// Handler handles admin requests
type Handler struct {
	db      *gorm.DB
	entries *entries.Service
}

// NewHandler creates a new admin handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, entries: entries.NewService(db)}
}

// StatsResponse represents blog statistics
type StatsResponse struct {
	TotalEntries    int64           `json:"total_entries"`
	TotalTags       int64           `json:"total_tags"`
	OrphanTags      int64           `json:"orphan_tags"`
	TotalCategories int64           `json:"total_categories"`
	RatedEntries    int64           `json:"rated_entries"`
	AverageRating   *float64        `json:"average_rating"`
	ByCategory      []entries.Count `json:"by_category"`
}

// Stats gathers the dashboard totals.
func (h *Handler) Stats(ctx context.Context) (*StatsResponse, error) {
	db := h.db.WithContext(ctx)
	var stats StatsResponse

	if err := db.Model(&models.WhiskyEntry{}).Count(&stats.TotalEntries).Error; err != nil {
		return nil, database.Translate(err, "entry")
	}
	if err := db.Model(&models.TagMaster{}).Count(&stats.TotalTags).Error; err != nil {
		return nil, database.Translate(err, "tag")
	}
	err := db.Model(&models.TagMaster{}).
		Where("NOT EXISTS (SELECT 1 FROM whisky_tags WHERE whisky_tags.tag_id = tags.id)").
		Count(&stats.OrphanTags).Error
	if err != nil {
		return nil, database.Translate(err, "tag")
	}
	if err := db.Model(&models.Category{}).Count(&stats.TotalCategories).Error; err != nil {
		return nil, database.Translate(err, "category")
	}

	// AVG over an empty set is NULL
	var avg sql.NullFloat64
	err = db.Model(&models.WhiskyEntry{}).
		Where("rating IS NOT NULL").
		Select("AVG(rating)").
		Row().Scan(&avg)
	if err != nil {
		return nil, database.Translate(err, "entry")
	}
	if avg.Valid {
		stats.AverageRating = &avg.Float64
	}
	if err := db.Model(&models.WhiskyEntry{}).Where("rating IS NOT NULL").Count(&stats.RatedEntries).Error; err != nil {
		return nil, database.Translate(err, "entry")
	}

	facets, err := h.entries.Facets(ctx)
	if err != nil {
		return nil, err
	}
	stats.ByCategory = facets.Categories
	if stats.ByCategory == nil {
		stats.ByCategory = []entries.Count{}
	}

	return &stats, nil
}

// GetStats returns blog-wide statistics
// @Summary Blog statistics
// @Description Entry, tag and category totals for the admin dashboard
// @Tags admin
// @Produce json
// @Success 200 {object} StatsResponse
// @Failure 401 {object} map[string]string
// @Router /admin/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.Stats(c.Request.Context())
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RegisterRoutes registers admin API routes on a session-protected group
// mounted at /api/admin
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.GetStats)
}
