package middleware

import (
	"net/http" // HTTP status codes

	"consciousbet/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware checks the caller's role from the database on each request
func AdminOnlyMiddleware(creds domain.CredentialRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(EmailKey) // Get email from context
		// Check if email exists in context
		if email == "" {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		cred, err := creds.FindByEmail(c.Request.Context(), email) // Fetch login from database
		if err != nil {
			// If login not found or any error, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		// Check if the login carries the admin role
		if !cred.IsAdmin() {
			// If not admin, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
