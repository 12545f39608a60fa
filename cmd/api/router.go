package main

import (
	"net/http"

	"github.com/wb-go/wbf/ginext"

	"github.com/yokitheyo/mediacatalog/internal/config"
	"github.com/yokitheyo/mediacatalog/internal/domain"
	httpHandler "github.com/yokitheyo/mediacatalog/internal/handler/http"
	"github.com/yokitheyo/mediacatalog/internal/handler/middleware"
)

func newRouter(mode string, cfg *config.Config, auth domain.AuthService, handlers httpHandler.Handlers) *ginext.Engine {
	engine := ginext.New(mode)
	engine.Use(
		middleware.ErrorHandlerMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.CORSMiddleware(cfg.CORS.FrontendOrigin),
	)

	engine.GET("/health", func(c *ginext.Context) {
		c.JSON(http.StatusOK, ginext.H{"status": "ok"})
	})

	// ginext.Engine shadows the gin routing methods, so the API is mounted on
	// the embedded gin engine
	httpHandler.RegisterAPI(engine.Engine, auth, handlers)

	if cfg.Storage.Type == "local" {
		engine.Static("/uploads", cfg.Storage.LocalPath)
	}
	return engine
}
