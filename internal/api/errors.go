package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"consciousbet/internal/domain"     // Error taxonomy
	"consciousbet/internal/middleware" // Request id key
	"consciousbet/internal/risk"       // Limit rejections

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// StatusOf maps an error onto the HTTP status it is reported with
func StatusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// respondError writes err as JSON. Unexpected errors are logged and hidden from the caller.
func respondError(c *gin.Context, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		// Log the error with context
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.RequestIDKey), // Correlation id
			"path":       c.FullPath(),                         // Route
			"error":      err.Error(),                          // Error message
		}).Error("Request failed")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	var limitErr *risk.LimitError
	if errors.As(err, &limitErr) {
		// Limit rejections carry a machine readable kind
		c.JSON(status, gin.H{"error": limitErr.Error(), "kind": string(limitErr.Kind)})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
