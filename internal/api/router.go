package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouterOptions configura el router principal
type RouterOptions struct {
	// CORS abierto para desarrollo
	AllowCORS bool
	// Workflows es el endpoint de Inngest; nil si no hay workflows
	Workflows http.Handler
}

// NewRouter configura el router principal
func NewRouter(api *API, opts RouterOptions) *gin.Engine {
	router := gin.New()

	// Middleware global
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if opts.AllowCORS {
		router.Use(func(c *gin.Context) {
			c.Header("Access-Control-Allow-Origin", "*")
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-API-Key")

			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}

			c.Next()
		})
	}

	router.GET("/health", api.Health)

	if opts.Workflows != nil {
		router.Any("/api/inngest", gin.WrapH(opts.Workflows))
	}

	v1 := router.Group("/v1")
	v1.Use(api.APIKeyMiddleware())
	{
		v1.POST("/checks", api.CreateCheck)
		v1.GET("/checks/:id", api.GetCheck)
		v1.POST("/checks/:id/refresh", api.RefreshCheck)
		v1.GET("/checks/:id/receipt", api.GetReceipt)
		v1.GET("/queues/:id", api.GetQueue)
	}

	return router
}
