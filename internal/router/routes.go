package router

import (
	"github.com/labstack/echo/v4"

	"github.com/octobees/webdone/internal/auth"
	"github.com/octobees/webdone/internal/config"
	"github.com/octobees/webdone/internal/handler"
	middlewarepkg "github.com/octobees/webdone/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Site     *handler.SiteHandler
	Generate *handler.GenerateHandler
	Verify   *handler.VerifyHandler
	Auth     *handler.AuthHandler
	Admin    *handler.AdminHandler
}

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/", handlers.Site.Landing)
	e.GET("/view", handlers.Site.View)
	e.GET("/demos/:filename", handlers.Site.Demo)

	e.GET("/api/demos", handlers.Site.ListDemos)
	e.GET("/api/stats", handlers.Site.Stats)
	e.GET("/api/health", handlers.Site.Health)
	e.GET("/api/site/:id", handlers.Site.SiteByID)

	e.POST("/api/generate", handlers.Generate.Generate, middlewarepkg.GenerateRateLimiter(cfg.RateLimitGenerate))

	e.POST("/api/verify/request", handlers.Verify.Request)
	e.POST("/api/verify/check", handlers.Verify.Check)

	e.POST("/auth/login", handlers.Auth.Login)

	admin := e.Group("/admin")
	admin.Use(middlewarepkg.JWT(jwtManager))
	admin.Use(middlewarepkg.RequireRole(auth.RoleOperator))
	admin.GET("/demos", handlers.Admin.ListDemos)
	admin.POST("/campaign", handlers.Admin.StartCampaign)
}
