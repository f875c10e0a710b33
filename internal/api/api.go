// Package api implements the HTTP trigger surface for the ingestion
// pipeline: starting runs, single-URL extraction, and article reads.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blogharvest/internal/domain"
	"blogharvest/internal/ingest"
	"blogharvest/internal/logger"
)

// Runner triggers ingestion work.
type Runner interface {
	// Run executes one full ingestion run.
	Run(ctx context.Context) (*ingest.Result, error)
	// ExtractSingle ingests a single article URL on demand.
	ExtractSingle(ctx context.Context, url string) (*domain.Article, error)
}

// ArticleReader reads persisted articles.
type ArticleReader interface {
	// List retrieves articles, newest first.
	List(ctx context.Context, limit, offset int) ([]*domain.Article, error)
	// Count returns the number of stored articles.
	Count(ctx context.Context) (int, error)
}

// SetupRouter creates and configures the gin router with all routes.
func SetupRouter(log logger.Interface, runner Runner, articles ArticleReader) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := newHandler(log, runner, articles)

	v1 := router.Group("/api/v1")
	v1.POST("/harvest", h.runHarvest)
	v1.POST("/articles/extract", h.extractSingle)
	v1.GET("/articles", h.listArticles)
	v1.GET("/articles/count", h.countArticles)

	return router
}

// loggingMiddleware logs each request with latency and status.
func loggingMiddleware(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
