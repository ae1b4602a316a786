// Package routes wires Gin routes to the SearchController.
//
// Layout:
// - api.go: versioned API routes (/v1/*)
// - routes.go: top-level Setup entry point, middleware, 404 handler
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/vnvoucher/discovery/app/controllers"
)

// SetupAllRoutes thiết lập toàn bộ routes của service.
func SetupAllRoutes(router *gin.Engine, sc *controllers.SearchController) {
	setupMiddleware(router)
	SetupHealthRoutes(router, sc)
	SetupAPIRoutes(router, sc)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}

// SetupHealthRoutes thiết lập health/readiness/liveness routes.
func SetupHealthRoutes(router *gin.Engine, sc *controllers.SearchController) {
	router.GET("/health", sc.HealthCheck)
	router.GET("/ready", sc.HealthCheck)
	router.GET("/live", sc.HealthCheck)
}

func setupMiddleware(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
}
