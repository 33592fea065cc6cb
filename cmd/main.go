package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kdduha/reels-caption/internal/cache"
	"github.com/kdduha/reels-caption/internal/config"
	"github.com/kdduha/reels-caption/internal/gemini"
	"github.com/kdduha/reels-caption/internal/handler"
	"github.com/kdduha/reels-caption/internal/media"
	"github.com/kdduha/reels-caption/internal/metrics"
	"github.com/kdduha/reels-caption/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/kdduha/reels-caption/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Reels Caption API
// @version 1.0
// @description Generates short social-media captions for uploaded images and videos.
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.Default()

	decoder, err := media.NewVideoDecoder(cfg.Media.VideoDecoder)
	if err != nil {
		logger.Fatalf("video decoder error: %v", err)
	}
	if decoder == nil {
		logger.Println("video frame extraction disabled")
	} else {
		logger.Printf("video frames decoded with %s\n", decoder.Name())
	}

	captionService := service.NewCaptionService(
		logger,
		media.NewValidator(cfg.Media.MaxFileSize),
		media.NewFrameExtractor(decoder, cfg.Media.FrameTimeout),
		gemini.NewClient(cfg.Gemini, &http.Client{}),
		cfg.Gemini,
	)

	if cfg.CacheEnable {
		redisCache := cache.NewRedisCache(
			cfg.RedisConfig.Addr,
			cfg.RedisConfig.Password,
			cfg.RedisConfig.DB,
			cfg.RedisConfig.TTL,
		)
		defer redisCache.Close()

		if err := redisCache.Ping(ctx); err != nil {
			logger.Printf("redis unavailable, cache disabled: %v\n", err)
		} else {
			captionService.SetCacheClient(redisCache)
			logger.Println("set redis as cache")
		}
	}

	h := handler.NewCaptionHandler(captionService)

	r := chi.NewRouter()
	r.Use([]func(http.Handler) http.Handler{
		middleware.Logger,
		middleware.Recoverer,
		middleware.Throttle(cfg.Server.ThrottleLimit),
		middleware.Timeout(cfg.Server.Timeout),
		metrics.Middleware,
	}...)

	r.Post("/caption", h.Caption)
	r.Post("/caption/json", h.CaptionJSON)
	r.Post("/caption/stream", h.CaptionStream)
	r.Get("/options", h.Options)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Printf("server started :%s\n", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("listen error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Println("server stopped")
}
