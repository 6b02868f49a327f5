package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"geocell/internal/api"
	"geocell/internal/api/handlers"
	"geocell/internal/config"
	"geocell/internal/logger"
	"geocell/internal/repository"
	"geocell/internal/repository/memory"
	"geocell/internal/repository/redisstore"
	"geocell/internal/services"
)

func main() {
	log := logger.Setup()
	cfg := config.Load()

	// Select the cache store backend.
	var store repository.CacheStore
	switch cfg.Cache.Backend {
	case "redis":
		client := redisstore.Open(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Error("redis unreachable", "addr", cfg.Redis.Addr, "err", err)
			return
		}
		store = redisstore.NewCacheStore(client, cfg.Cache.TTL)
		log.Info("cache store", "backend", "redis", "addr", cfg.Redis.Addr)
	default:
		store = memory.NewCacheStore()
		log.Info("cache store", "backend", "memory")
	}

	// Initialize services.
	cacheService := services.NewGeoCacheService(store, cfg)
	clusterService := services.NewClusterService()

	// Initialize handlers.
	geohashHandler := handlers.NewGeohashHandler()
	cacheHandler := handlers.NewCacheHandler(cacheService)
	markerHandler := handlers.NewMarkerHandler(clusterService)

	// Setup router.
	router := api.NewRouter(cfg, geohashHandler, cacheHandler, markerHandler)
	engine := gin.Default()
	router.Setup(engine)

	log.Info("starting geocell server", "port", cfg.Server.Port, "cell_length", cfg.Geo.CacheCodeLength)
	if err := engine.Run(cfg.Server.Port); err != nil {
		log.Error("server exited", "err", err)
	}
}
