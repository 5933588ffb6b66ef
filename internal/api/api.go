// Package api exposes the scraper over JSON HTTP.
package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-workua-scraper/internal/fetch"
	"go-workua-scraper/internal/scraper"

	"github.com/gin-gonic/gin"
)

const requestTimeout = 3 * time.Minute

type searchResponse struct {
	Source string               `json:"source"`
	Query  string               `json:"query"`
	Count  int                  `json:"count"`
	Jobs   []scraper.JobSummary `json:"jobs"`
}

// NewRouter registers the routes on a fresh gin engine.
func NewRouter(src scraper.Source, defaultLimit int) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Work.ua scraper API is running!",
			"status":  "healthy",
		})
	})

	r.GET("/jobs", func(c *gin.Context) {
		limit := defaultLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
				return
			}
			limit = n
		}
		query := strings.TrimSpace(c.Query("q"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		jobs, err := src.Search(ctx, query, limit)
		if err != nil && !errors.Is(err, scraper.ErrNoResults) {
			writeError(c, err)
			return
		}
		if jobs == nil {
			jobs = []scraper.JobSummary{}
		}
		c.JSON(http.StatusOK, searchResponse{Source: src.Name(), Query: query, Count: len(jobs), Jobs: jobs})
	})

	r.GET("/jobs/detail", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		job, err := src.Job(ctx, c.Query("url"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, job)
	})

	return r
}

func writeError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// StatusFor maps scraper errors to HTTP status codes. ErrNoResults never
// reaches it: /jobs answers that with an empty list.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, scraper.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case fetch.IsFetchError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
