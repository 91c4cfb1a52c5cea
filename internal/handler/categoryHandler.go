package handler

import (
	"net/http"

	"reviewhub/internal/dto"
	"reviewhub/internal/middleware"
	"reviewhub/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// RegisterRoutes registers category routes. Reads are public; writes go on
// the authenticated group behind the admin gate.
func (h *CategoryHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/categories", h.List)

	admin := authed.Group("/categories", middleware.RequireAdmin())
	{
		admin.POST("", h.Create)
		admin.DELETE("/:slug", h.Delete)
	}
}

// List retrieves categories with optional name search
// GET /api/v1/categories?search=<name>&page=1&page_size=20
func (h *CategoryHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)

	categories, err := h.categoryService.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// Create adds a category
// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// Delete removes a category by slug; titles keep existing without one
// DELETE /api/v1/categories/:slug
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categoryService.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
