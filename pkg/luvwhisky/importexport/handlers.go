package importexport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/apierror"
	"gorm.io/gorm"
)

// Handler handles import/export requests
type Handler struct {
	svc *Service
}

// NewHandler creates a new import/export handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{svc: NewService(db)}
}

// ImportRequest represents an import request
type ImportRequest struct {
	Entries []ImportEntry `json:"entries" binding:"required"`
}

// Export exports every entry as a backup document
// @Summary Export entries
// @Description Export all entries in the import format
// @Tags import-export
// @Produce json
// @Param download query bool false "Send as a file attachment"
// @Success 200 {object} Document
// @Failure 401 {object} map[string]string
// @Router /export [get]
func (h *Handler) Export(c *gin.Context) {
	doc, err := h.svc.Export(c.Request.Context())
	if err != nil {
		apierror.Respond(c, err)
		return
	}

	if c.Query("download") == "true" {
		c.Header("Content-Disposition", "attachment; filename=luvwhisky-export.json")
	}

	c.JSON(http.StatusOK, doc)
}

// Import imports entries from a backup document
// @Summary Import entries
// @Description Create entries from a backup document; failing entries are skipped
// @Tags import-export
// @Accept json
// @Produce json
// @Param request body ImportRequest true "Entries to import"
// @Success 200 {object} ImportResult
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /import [post]
func (h *Handler) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.Respond(c, apierror.FromBinding(err, &req))
		return
	}

	c.JSON(http.StatusOK, h.svc.Import(c.Request.Context(), req.Entries))
}

// ImportContentful imports whisky entries from a Contentful space export
// @Summary Import from Contentful
// @Tags import-export
// @Accept json
// @Produce json
// @Param request body ContentfulExport true "Contentful space export"
// @Success 200 {object} ImportResult
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /import/contentful [post]
func (h *Handler) ImportContentful(c *gin.Context) {
	var export ContentfulExport
	if err := c.ShouldBindJSON(&export); err != nil {
		apierror.Respond(c, apierror.FromBinding(err, &export))
		return
	}

	c.JSON(http.StatusOK, h.svc.ImportContentful(c.Request.Context(), export))
}

// RegisterRoutes registers import/export routes on a session-protected group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/export", h.Export)
	rg.POST("/import", h.Import)
	rg.POST("/import/contentful", h.ImportContentful)
}
