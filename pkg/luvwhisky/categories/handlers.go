package categories

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/apierror"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/models"
	"gorm.io/gorm"
)

// Handler handles category requests
type Handler struct {
	svc *Service
}

// NewHandler creates a new categories handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{svc: NewService(db)}
}

// CreateCategoryRequest represents the request to create a category
type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Order int    `json:"order"`
}

// UpdateCategoryRequest represents a partial category update
type UpdateCategoryRequest struct {
	Name  *string `json:"name"`
	Order *int    `json:"order"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Order     int    `json:"order"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func categoryToResponse(c models.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Order:     c.Order,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// List returns all categories
// @Summary List categories
// @Description Get all categories sorted by display order
// @Tags categories
// @Produce json
// @Success 200 {array} CategoryResponse
// @Router /categories [get]
func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		apierror.Respond(c, err)
		return
	}

	resp := make([]CategoryResponse, len(list))
	for i, cat := range list {
		resp[i] = categoryToResponse(cat)
	}
	c.JSON(http.StatusOK, resp)
}

// Create creates a new category
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body CreateCategoryRequest true "Category"
// @Success 201 {object} CategoryResponse
// @Failure 400 {object} map[string]string "Name is required"
// @Failure 409 {object} map[string]string "Category name already exists"
// @Router /categories [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.Respond(c, apierror.FromBinding(err, &req))
		return
	}

	category, err := h.svc.Create(c.Request.Context(), req.Name, req.Order)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, categoryToResponse(*category))
}

// Update changes a category's name and/or order
// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} CategoryResponse
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 409 {object} map[string]string "Category name already exists"
// @Router /categories/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.Respond(c, apierror.FromBinding(err, &req))
		return
	}

	category, err := h.svc.Update(c.Request.Context(), c.Param("id"), Update{Name: req.Name, Order: req.Order})
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, categoryToResponse(*category))
}

// Delete removes a category
// @Summary Delete category
// @Tags categories
// @Param id path string true "Category ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Category not found"
// @Router /categories/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// RegisterPublicRoutes registers the read-only category routes
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.List)
}

// RegisterAdminRoutes registers the category routes that need a session
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/categories", h.Create)
	rg.PUT("/categories/:id", h.Update)
	rg.DELETE("/categories/:id", h.Delete)
}
