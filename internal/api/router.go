package api

import (
	"context"  // Health check deadline
	"net/http" // HTTP status codes
	"time"     // Health check timeout

	"consciousbet/internal/auth"       // Token verification
	"consciousbet/internal/domain"     // Credential lookups
	"consciousbet/internal/middleware" // Auth, admin and request id middleware
	"consciousbet/internal/service"    // Business operations

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus/promhttp" // Metrics endpoint
)

// HealthFunc reports whether a backing service is reachable
type HealthFunc func(ctx context.Context) error

// Deps are the collaborators the routes close over
type Deps struct {
	Auth        *service.AuthService
	Users       *service.UserService
	Bets        *service.BetService
	Risk        *service.RiskService
	Tokens      *auth.Tokens
	Credentials domain.CredentialRepository
	Health      HealthFunc // Optional
}

// NewRouter builds the gin engine with every route registered
func NewRouter(d Deps) *gin.Engine {
	RegisterValidators() // bettype and betstatus binding tags

	r := gin.New()                                                        // Gin router instance
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog()) // Global middleware

	// Operational routes
	r.GET("/healthz", healthHandler(d.Health))       // Liveness and dependencies
	r.GET("/metrics", gin.WrapH(promhttp.Handler())) // Prometheus scrape endpoint

	// Auth routes
	authGroup := r.Group("/auth")
	authGroup.POST("/register", RegisterHandler(d.Auth))     // Registration endpoint
	authGroup.POST("/login", LoginHandler(d.Auth))           // Login endpoint
	authGroup.GET("/validate", ValidateTokenHandler(d.Auth)) // Token check endpoint
	authGroup.POST("/refresh", RefreshTokenHandler(d.Auth))  // Token refresh endpoint

	// Everything under /api needs a valid token
	apiGroup := r.Group("/api", middleware.JWTAuthMiddleware(d.Tokens))
	adminOnly := middleware.AdminOnlyMiddleware(d.Credentials)

	users := apiGroup.Group("/users")
	users.POST("", CreateUserHandler(d.Users))                    // Create user
	users.GET("", ListUsersPageHandler(d.Users))                  // Paged users
	users.GET("/list", ListUsersHandler(d.Users))                 // All users
	users.GET("/count", CountUsersHandler(d.Users))               // Number of users
	users.GET("/exists/email/:email", UserExistsHandler(d.Users)) // Email taken?
	users.GET("/email/:email", GetUserByEmailHandler(d.Users))    // User by email
	users.GET("/:id", GetUserHandler(d.Users))                    // User by id
	users.PUT("/:id", ReplaceUserHandler(d.Users))                // Full update
	users.PATCH("/:id", PatchUserHandler(d.Users))                // Partial update
	users.DELETE("/:id", adminOnly, DeleteUserHandler(d.Users))   // Delete user, admin only

	bets := apiGroup.Group("/bets")
	bets.POST("", CreateBetHandler(d.Bets))                          // Place a bet
	bets.GET("", ListBetsPageHandler(d.Bets))                        // Paged bets
	bets.GET("/list", ListBetsHandler(d.Bets))                       // All bets
	bets.GET("/amount-range", BetsByAmountRangeHandler(d.Bets))      // Bets within ?min= and ?max=
	bets.GET("/high-value", HighValueBetsHandler(d.Bets))            // Bets above ?limit=
	bets.GET("/type/:type", BetsByTypeHandler(d.Bets))               // Bets of a type
	bets.GET("/status/:status", BetsByStatusHandler(d.Bets))         // Bets in a status
	bets.GET("/alerts/:userId", RiskAlertHandler(d.Risk))            // Risk alert of a user
	bets.GET("/user/:userId", UserBetsHandler(d.Bets))               // Bets of a user
	bets.GET("/user/:userId/paginated", UserBetsPageHandler(d.Bets)) // Paged bets of a user
	bets.GET("/user/:userId/recent", RecentUserBetsHandler(d.Bets))  // Last 24 hours of a user
	bets.GET("/user/:userId/stats", UserStatsHandler(d.Bets))        // Totals of a user
	bets.GET("/user/:userId/can-bet", CanBetHandler(d.Bets))         // Limit check for ?amount=
	bets.GET("/:id", GetBetHandler(d.Bets))                          // Bet by id
	bets.PUT("/:id", UpdateBetHandler(d.Bets))                       // Update bet
	bets.PATCH("/:id", UpdateBetHandler(d.Bets))                     // Partial update
	bets.PATCH("/:id/status", UpdateBetStatusHandler(d.Bets))        // Change status
	bets.PATCH("/:id/cancel", CancelBetHandler(d.Bets))              // Cancel bet
	bets.DELETE("/:id", adminOnly, DeleteBetHandler(d.Bets))         // Delete bet, admin only

	return r
}

func healthHandler(check HealthFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
