package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hnchronicle/hnchronicle/model"
	"github.com/hnchronicle/hnchronicle/scraper"
	Logger "github.com/hnchronicle/hnchronicle/utils/log"
)

// ScrapeRunner is the pipeline surface the trigger endpoints call into.
type ScrapeRunner interface {
	Run(ctx context.Context) scraper.RunReport
}

// PostReader is the storage surface of the read API.
type PostReader interface {
	GetLatestFilteredPosts(filterDate string) ([]model.FilteredPost, error)
	GetFilteredPostsInRange(startDate string, endDate string) ([]model.FilteredPost, error)
}

// ScrapeHandler runs the full pipeline synchronously and reports the outcome.
// Both the manual trigger and the cron trigger bind to it; authorization is
// handled by the BearerAuth middleware in front.
func ScrapeHandler(runner ScrapeRunner) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := runner.Run(c.Request.Context())
		if !report.Success {
			c.JSON(http.StatusInternalServerError, report)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func isValidDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// LatestPostsHandler serves the front page of one date (default today),
// ordered by rank.
func LatestPostsHandler(reader PostReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.Query("date")
		if date != "" && !isValidDate(date) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "date must be YYYY-MM-DD"})
			return
		}

		filteredPosts, err := reader.GetLatestFilteredPosts(date)
		if err != nil {
			Logger.Log.Error("fail to read front page: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "fail to read front page"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"posts": toFrontPageEntries(filteredPosts)})
	}
}

// ArchiveHandler serves all front pages within an inclusive date range,
// newest first.
func ArchiveHandler(reader PostReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := c.Query("start")
		end := c.Query("end")
		if !isValidDate(start) || !isValidDate(end) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "start and end must be YYYY-MM-DD"})
			return
		}

		filteredPosts, err := reader.GetFilteredPostsInRange(start, end)
		if err != nil {
			Logger.Log.Error("fail to read archive: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "fail to read archive"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"posts": toFrontPageEntries(filteredPosts)})
	}
}
