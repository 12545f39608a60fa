package http

import (
	"github.com/gin-gonic/gin"
	"github.com/yokitheyo/mediacatalog/internal/domain"
	"github.com/yokitheyo/mediacatalog/internal/handler/middleware"
)

type Handlers struct {
	Auth       *AuthHandler
	Categories *CategoryHandler
	Images     *ImageHandler
}

// RegisterAPI mounts every catalog route under /api. Mutating image routes
// sit behind the bearer token check.
func RegisterAPI(router gin.IRouter, auth domain.AuthService, h Handlers) {
	api := router.Group("/api")
	private := api.Group("", middleware.AuthMiddleware(auth))

	h.Auth.RegisterRoutes(api)
	h.Categories.RegisterRoutes(api)
	h.Images.RegisterRoutes(api, private)
}
