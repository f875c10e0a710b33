package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"blogharvest/internal/logger"
	"blogharvest/internal/scrape"
)

const (
	defaultListLimit  = 20
	defaultListOffset = 0
	maxListLimit      = 100
)

// handler holds the dependencies for all API routes.
type handler struct {
	log      logger.Interface
	runner   Runner
	articles ArticleReader
}

// newHandler creates the route handler set.
func newHandler(log logger.Interface, runner Runner, articles ArticleReader) *handler {
	return &handler{log: log, runner: runner, articles: articles}
}

// runHarvest handles POST /api/v1/harvest. A fatal run (session launch or
// listing-page failure) returns 502 with the empty result; partial failures
// still return 200 with counts and error detail.
func (h *handler) runHarvest(c *gin.Context) {
	result, err := h.runner.Run(c.Request.Context())
	if err != nil {
		h.log.Error("Ingestion run failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":  err.Error(),
			"result": result,
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// extractRequest is the body for POST /api/v1/articles/extract.
type extractRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// extractSingle handles POST /api/v1/articles/extract.
func (h *handler) extractSingle(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid url field is required"})
		return
	}

	article, err := h.runner.ExtractSingle(c.Request.Context(), req.URL)
	if err != nil {
		if errors.Is(err, scrape.ErrNoResult) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("Single extraction failed", "url", req.URL, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, article)
}

// listArticles handles GET /api/v1/articles.
func (h *handler) listArticles(c *gin.Context) {
	limit := parseIntQuery(c, "limit", defaultListLimit)
	offset := parseIntQuery(c, "offset", defaultListOffset)
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = defaultListOffset
	}

	articles, err := h.articles.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.log.Error("Failed to list articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list articles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles, "limit": limit, "offset": offset})
}

// countArticles handles GET /api/v1/articles/count.
func (h *handler) countArticles(c *gin.Context) {
	count, err := h.articles.Count(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to count articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count articles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// parseIntQuery returns the integer query parameter or the fallback.
func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
