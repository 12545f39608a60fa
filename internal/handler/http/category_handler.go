package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wb-go/wbf/ginext"
	"github.com/yokitheyo/mediacatalog/internal/domain"
	"github.com/yokitheyo/mediacatalog/internal/dto"
)

type CategoryHandler struct {
	catalog domain.CatalogService
}

func NewCategoryHandler(catalog domain.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

func (h *CategoryHandler) RegisterRoutes(public gin.IRoutes) {
	public.GET("/categories", h.ListCategories)
}

// ListCategories GET /api/categories
func (h *CategoryHandler) ListCategories(c *ginext.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapCategoriesToResponse(categories))
}
