package tags

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/apierror"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/database"
	"gorm.io/gorm"
)

// Handler handles tag-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new tags handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// TagResponse represents a tag in API responses
type TagResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	EntryCount int    `json:"entry_count"`
}

// ListVocabulary returns every tag ever used, sorted by name, with the
// number of entries currently linked to it. Unlinked tags are included.
func ListVocabulary(db *gorm.DB) ([]TagResponse, error) {
	var results []TagResponse
	err := db.Table("tags").
		Select("tags.id, tags.name, COUNT(whisky_tags.whisky_id) AS entry_count").
		Joins("LEFT JOIN whisky_tags ON whisky_tags.tag_id = tags.id").
		Group("tags.id, tags.name").
		Order("tags.name ASC").
		Scan(&results).Error
	if err != nil {
		return nil, database.Translate(err, "tag")
	}
	if results == nil {
		results = []TagResponse{}
	}
	return results, nil
}

// List returns the tag vocabulary for autocompletion
// @Summary List tags
// @Description Get all tags sorted by name, with entry counts
// @Tags tags
// @Produce json
// @Success 200 {array} TagResponse
// @Router /tags [get]
func (h *Handler) List(c *gin.Context) {
	tags, err := ListVocabulary(h.db)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

// RegisterRoutes registers tag routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tags", h.List)
}
