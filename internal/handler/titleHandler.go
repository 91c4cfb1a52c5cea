package handler

import (
	"net/http"
	"strconv"

	"reviewhub/internal/dto"
	"reviewhub/internal/middleware"
	"reviewhub/internal/repository"
	"reviewhub/internal/service"

	"github.com/gin-gonic/gin"
)

type TitleHandler struct {
	titleService service.TitleService
}

func NewTitleHandler(titleService service.TitleService) *TitleHandler {
	return &TitleHandler{
		titleService: titleService,
	}
}

// RegisterRoutes registers title routes. Reads are public; writes go on
// the authenticated group behind the admin gate.
func (h *TitleHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	titles := public.Group("/titles")
	{
		titles.GET("", h.List)
		titles.GET("/:title_id", h.Get)
	}

	admin := authed.Group("/titles", middleware.RequireAdmin())
	{
		admin.POST("", h.Create)
		admin.PATCH("/:title_id", h.Update)
		admin.DELETE("/:title_id", h.Delete)
	}
}

// List retrieves titles filtered by category, genre, name and year
// GET /api/v1/titles?category=<slug>&genre=<slug>&name=<substr>&year=<n>
func (h *TitleHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)

	filter := repository.TitleFilter{
		CategorySlug: c.Query("category"),
		GenreSlug:    c.Query("genre"),
		Name:         c.Query("name"),
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year filter"})
			return
		}
		filter.Year = &year
	}

	titles, err := h.titleService.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, titles)
}

// Get retrieves a single title with its rating
// GET /api/v1/titles/:title_id
func (h *TitleHandler) Get(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title ID"})
		return
	}

	title, err := h.titleService.Get(c.Request.Context(), titleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, title)
}

// Create adds a title referencing category and genres by slug
// POST /api/v1/titles
func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.CreateTitleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title, err := h.titleService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, title)
}

// Update partially updates a title; a genres field replaces the whole set
// PATCH /api/v1/titles/:title_id
func (h *TitleHandler) Update(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title ID"})
		return
	}

	var req dto.UpdateTitleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title, err := h.titleService.Update(c.Request.Context(), titleID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, title)
}

// Delete removes a title together with its reviews and comments
// DELETE /api/v1/titles/:title_id
func (h *TitleHandler) Delete(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title ID"})
		return
	}

	if err := h.titleService.Delete(c.Request.Context(), titleID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
