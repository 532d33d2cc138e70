package api

import (
	"net/http" // HTTP status codes

	"consciousbet/internal/service" // Business operations

	"github.com/gin-gonic/gin" // Gin web framework
)

// RiskAlertHandler returns the risk classification of the user's last 24 hours of betting
func RiskAlertHandler(risk *service.RiskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := idParam(c, "userId")
		if !ok {
			return
		}
		alert, err := risk.Analyze(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toAlertResponse(alert))
	}
}
