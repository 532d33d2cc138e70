package api

import (
	"net/http" // HTTP status codes
	"time"     // Token expiry

	"consciousbet/internal/auth"    // Bearer token parsing
	"consciousbet/internal/service" // Business operations

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`    // Display name
	Email    string `json:"email" binding:"required,email,max=150"`   // Login email
	Age      int    `json:"age" binding:"required,gte=18,lte=120"`    // Must be an adult
	Password string `json:"password" binding:"required,min=6,max=72"` // Bcrypt reads at most 72 bytes
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"` // Login email
	Password string `json:"password" binding:"required"`    // Password must be provided
}

// Response struct for authentication
type AuthResponse struct {
	Token     string    `json:"token"`     // JWT token
	Email     string    `json:"email"`     // Token subject
	TokenType string    `json:"tokenType"` // Always Bearer
	ExpiresAt time.Time `json:"expiresAt"` // Token expiry
	Message   string    `json:"message"`   // Human readable outcome
}

func toAuthResponse(s *service.Session, message string) AuthResponse {
	return AuthResponse{Token: s.Token, Email: s.Email, TokenType: "Bearer", ExpiresAt: s.ExpiresAt, Message: message}
}

// RegisterHandler creates a user profile with its login
func RegisterHandler(svc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		user, err := svc.Register(c.Request.Context(), service.Register{
			Name:     req.Name,
			Email:    req.Email,
			Age:      req.Age,
			Password: req.Password,
		})
		if err != nil {
			respondError(c, err) // Duplicate email answers 409
			return
		}
		// Return the created profile
		c.JSON(http.StatusCreated, toUserResponse(user))
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(svc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		session, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err) // Wrong credentials answer 401
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, toAuthResponse(session, "Login successful"))
	}
}

// ValidateTokenHandler reports whether the bearer token is still valid
func ValidateTokenHandler(svc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.BearerToken(c.GetHeader("Authorization")) // Extract the token string
		if ok {
			if email, valid := svc.Validate(token); valid {
				c.JSON(http.StatusOK, gin.H{"valid": true, "email": email, "message": "Token is valid"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"valid": false, "message": "Invalid or expired token"})
	}
}

// RefreshTokenHandler trades a valid bearer token for a new one
func RefreshTokenHandler(svc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.BearerToken(c.GetHeader("Authorization")) // Extract the token string
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		session, err := svc.Refresh(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toAuthResponse(session, "Token refreshed"))
	}
}
