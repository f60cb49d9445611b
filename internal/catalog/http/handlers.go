package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/karigar-kart/karigar-backend/internal/catalog/service"
	"github.com/karigar-kart/karigar-backend/internal/directory/domain"
)

type Handler struct {
	catalog *service.CatalogService
}

func New(catalog *service.CatalogService) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.Search)
	rg.GET("/:id", h.Get)
}

// Search lists workers matching the query-parameter filters:
// ?category=plumbing&q=suresh&area=kothrud&min_rating=4&sort=rate
func (h *Handler) Search(c *gin.Context) {
	f := service.Filters{
		Category: domain.ServiceCategory(c.Query("category")),
		Query:    c.Query("q"),
		Area:     c.Query("area"),
		SortBy:   c.Query("sort"),
	}

	if f.Category != "" && !domain.ValidCategory(f.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown service category"})
		return
	}

	if raw := c.Query("min_rating"); raw != "" {
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_rating must be a number"})
			return
		}
		f.MinRating = minRating
	}

	workers, err := h.catalog.Search(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search workers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"workers": workers, "count": len(workers)})
}

// Get returns one worker profile.
func (h *Handler) Get(c *gin.Context) {
	worker, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "worker not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load worker"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"worker": worker})
}
