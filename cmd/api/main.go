package main

import (
	"net/http"

	"arv-estimator/internal/cache"
	"arv-estimator/internal/config"
	"arv-estimator/internal/fetcher"
	"arv-estimator/internal/geocoder"
	"arv-estimator/internal/handler"
	"arv-estimator/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	// Memo backend: in-process unless a Redis address is configured.
	var memo cache.Cache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		memo = cache.NewRedis(cfg.RedisAddr)
	}

	// Initialize layers
	geo := geocoder.NewClient(cfg.NominatimURL, cfg.HTTPTimeout, log.Logger)
	pages := fetcher.New(cfg.HTTPTimeout, cfg.FetchDelay, log.Logger)

	arvService := service.NewARVService(geo, pages, memo, service.Options{
		SiteBaseURL: cfg.SiteBaseURL,
		CacheTTL:    cfg.CacheTTL,
		RecencyDays: cfg.RecencyDays,
	}, log.Logger)

	arvHandler := handler.NewARVHandler(arvService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/arv", arvHandler.Estimate)

	if err := r.Run(cfg.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
