package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"consciousbet/internal/domain" // Page type

	"github.com/gin-gonic/gin" // Gin web framework
)

const (
	defaultPageSize = 20  // Default page size
	maxPageSize     = 100 // Upper bound for page_size
)

// pageFromQuery reads page and page_size, falling back to defaults for missing or invalid values
func pageFromQuery(c *gin.Context) domain.Page {
	page := 1                   // Default page number
	pageSize := defaultPageSize // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	// Check and set page size within limits
	if ps := c.Query("page_size"); ps != "" {
		// If valid, set page size
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= maxPageSize {
			pageSize = v // Set page size
		}
	}
	return domain.Page{Number: page, Size: pageSize}
}

// paged writes one page of items under key
func paged(c *gin.Context, key string, items any, page domain.Page, total int64) {
	c.JSON(http.StatusOK, gin.H{
		key:          items,                  // Items of the page
		"page":       page.Number,            // Current page
		"pageSize":   page.Size,              // Page size
		"total":      total,                  // Total number of items
		"totalPages": page.TotalPages(total), // Total pages
	})
}

// idParam parses a positive numeric path parameter, answering 400 itself when it cannot
func idParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(v), true
}
