package middleware

import (
	"net/http" // HTTP status codes

	"consciousbet/internal/auth" // Token verification

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by the middlewares
const (
	EmailKey     = "email"     // Login email of the caller
	RoleKey      = "role"      // Role claim of the caller
	RequestIDKey = "requestID" // Correlation id of the request
)

// JWTAuthMiddleware validates bearer tokens and stores the caller in the context
func JWTAuthMiddleware(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := auth.BearerToken(c.GetHeader("Authorization")) // Extract the token string
		// Check if the Authorization header is present and properly formatted
		if !ok {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		claims, err := tokens.Parse(tokenStr) // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(EmailKey, claims.Subject) // Store email in context
		c.Set(RoleKey, claims.Role)     // Store role in context
		c.Next()                        // Proceed to the next handler
	}
}
