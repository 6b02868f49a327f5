package api

import (
	"github.com/gin-gonic/gin"

	"geocell/internal/api/handlers"
	"geocell/internal/api/middleware"
	"geocell/internal/config"
	"geocell/internal/geo"
	"geocell/internal/metrics"
)

type Router struct {
	cfg            *config.Config
	geohashHandler *handlers.GeohashHandler
	cacheHandler   *handlers.CacheHandler
	markerHandler  *handlers.MarkerHandler
}

func NewRouter(
	cfg *config.Config,
	geohashHandler *handlers.GeohashHandler,
	cacheHandler *handlers.CacheHandler,
	markerHandler *handlers.MarkerHandler,
) *Router {
	return &Router{
		cfg:            cfg,
		geohashHandler: geohashHandler,
		cacheHandler:   cacheHandler,
		markerHandler:  markerHandler,
	}
}

func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.Observe())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := engine.Group("/")
	api.Use(middleware.RateLimit(r.cfg.API.RateLimitPerSec, r.cfg.API.RateLimitBurst))
	api.Use(middleware.BearerAuth(r.cfg.API.AuthToken))
	{
		geohashRoutes := api.Group("/geohash")
		{
			geohashRoutes.GET("/encode", r.geohashHandler.Encode)
			geohashRoutes.GET("/:code", r.geohashHandler.Decode)
			geohashRoutes.GET("/:code/neighbors", r.geohashHandler.Neighbors)
		}

		cacheRoutes := api.Group("/cache")
		{
			cacheRoutes.POST("/items", r.cacheHandler.PutItem)
			cacheRoutes.GET("/query", r.cacheHandler.Query)
			cacheRoutes.GET("/cells", r.cacheHandler.Cells)
			cacheRoutes.DELETE("/cells/:code", r.cacheHandler.ForgetCell)
		}

		markerRoutes := api.Group("/markers")
		{
			markerRoutes.POST("", r.markerHandler.Add)
			markerRoutes.GET("", r.markerHandler.List)
			markerRoutes.GET("/clusters", r.markerHandler.Clusters)
			markerRoutes.DELETE("/:id", r.markerHandler.Remove)
		}
	}

	// Debug endpoints (no auth, for inspection and tests)
	debug := engine.Group("/debug")
	{
		debug.GET("/encode-cache", func(c *gin.Context) {
			hits, misses := geo.EncodeCacheStats()
			c.JSON(200, gin.H{"hits": hits, "misses": misses})
		})
	}
}
