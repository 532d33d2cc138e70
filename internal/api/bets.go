package api

import (
	"net/http" // HTTP status codes

	"consciousbet/internal/domain"  // Domain models
	"consciousbet/internal/service" // Business operations

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Monetary amounts
)

// CreateBetRequest represents a new bet
type CreateBetRequest struct {
	UserID      uint             `json:"userId" binding:"required,gt=0"`  // Bettor
	Amount      *decimal.Decimal `json:"amount" binding:"required"`       // Wager, number or string
	Type        string           `json:"type" binding:"required,bettype"` // SPORTS, CASINO, LOTTERY or POKER
	Description string           `json:"description" binding:"max=500"`   // Optional free text
}

// UpdateBetRequest changes only the supplied fields
type UpdateBetRequest struct {
	Amount      *decimal.Decimal `json:"amount"`                                  // New wager
	Type        *string          `json:"type" binding:"omitempty,bettype"`        // New type
	Description *string          `json:"description" binding:"omitempty,max=500"` // New description
	Status      *string          `json:"status" binding:"omitempty,betstatus"`    // New status
}

// CreateBetHandler places a bet after the limit checks
func CreateBetHandler(bets *service.BetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateBetRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		betType, _ := domain.ParseBetType(req.Type) // Already checked by the bettype tag
		bet, err := bets.Create(c.Request.Context(), service.CreateBet{
			UserID:      req.UserID,
			Amount:      *req.Amount,
			Type:        betType,
			Description: req.Description,
		})
		if err != nil {
			respondError(c, err) // Limit rejections answer 400 with their kind
			return
		}
		c.JSON(http.StatusCreated, toBetResponse(bet))
	}
}

// ListBetsPageHandler returns one page of bets, newest first
func ListBetsPageHandler(bets *service.BetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := pageFromQuery(c)
		list, total, err := bets.Page(c.Request.Context(), page)
		if err != nil {
			respondError(c, err)
			return
		}
		paged(c, "bets", toBetResponses(list), page, total)
	}
}

// ListBetsHandler returns every bet
func ListBetsHandler(bets *service.BetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := bets.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toBetResponses(list))
	}
}

func GetBetHandler(bets *service.BetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		bet, err := bets.FindByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toBetResponse(bet))
	}
}

func UserBetsHandler(bets *service.BetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := idParam(c, "userId")
		if !ok {
			return
		}
		list, err := bets.FindByUserID(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toBetResponses(list))
	}
}

func UserBetsPageHandler(bets *service.BetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := idParam(c, "userId")
		if !ok {
			return
		}
		page := pageFromQuery(c)
		list, total, err := bets.PageByUserID(c.Request.Context(), userID, page)
		if err != nil {
			respondError(c, err)
			return
		}
		paged(c, "bets", toBetResponses(list), page, total)
	}
}

// RecentUserBetsHandler returns the user's bets of the last 24 hours
func RecentUserBetsHandler(bets *service.BetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := idParam(c, "userId")
		if !ok {
			return
		}
		list, err := bets.FindRecentByUserID(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toBetResponses(list))
	}
}

func UserStatsHandler(bets *service.BetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := idParam(c, "userId")
		if !ok {
			return
		}
		st, err := bets.Stats(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toStatsResponse(st))
	}
}

// CanBetHandler answers whether the user may place a bet of ?amount= right now
func CanBetHandler(bets *service.BetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := idParam(c, "userId")
		if !ok {
			return
		}
		amount, ok := amountQuery(c, "amount")
		if !ok {
			return
		}
		canBet, err := bets.CanUserBet(c.Request.Context(), userID, amount)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"userId":          userID,        // User ID
			"requestedAmount": money(amount), // Amount asked about
			"canBet":          canBet,        // Outcome of the limit checks
		})
	}
}

func BetsByTypeHandler(bets *service.BetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		betType, err := domain.ParseBetType(c.Param("type"))
		if err != nil {
			respondError(c, err)
			return
		}
		list, err := bets.FindByType(c.Request.Context(), betType)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toBetResponses(list))
	}
}

func BetsByStatusHandler(bets *service.BetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := domain.ParseBetStatus(c.Param("status"))
		if err != nil {
			respondError(c, err)
			return
		}
		list, err := bets.FindByStatus(c.Request.Context(), status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toBetResponses(list))
	}
}

// BetsByAmountRangeHandler lists bets with min <= amount <= max
func BetsByAmountRangeHandler(bets *service.BetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lo, ok := amountQuery(c, "min")
		if !ok {
			return
		}
		hi, ok := amountQuery(c, "max")
		if !ok {
			return
		}
		list, err := bets.FindByAmountRange(c.Request.Context(), lo, hi)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toBetResponses(list))
	}
}

// HighValueBetsHandler lists bets above ?limit=, largest first
func HighValueBetsHandler(bets *service.BetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ok := amountQuery(c, "limit")
		if !ok {
			return
		}
		list, err := bets.FindHighValue(c.Request.Context(), limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toBetResponses(list))
	}
}

// UpdateBetHandler serves both PUT and PATCH; absent fields stay as they are
func UpdateBetHandler(bets *service.BetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req UpdateBetRequest
		if !bindJSON(c, &req) {
			return
		}
		in := service.UpdateBet{Amount: req.Amount, Description: req.Description}
		if req.Type != nil {
			t, _ := domain.ParseBetType(*req.Type) // Already checked by the bettype tag
			in.Type = &t
		}
		if req.Status != nil {
			s, _ := domain.ParseBetStatus(*req.Status) // Already checked by the betstatus tag
			in.Status = &s
		}
		bet, err := bets.Update(c.Request.Context(), id, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toBetResponse(bet))
	}
}

// UpdateBetStatusHandler moves a bet to ?status=
func UpdateBetStatusHandler(bets *service.BetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		status, err := domain.ParseBetStatus(c.Query("status"))
		if err != nil {
			respondError(c, err)
			return
		}
		bet, err := bets.UpdateStatus(c.Request.Context(), id, status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toBetResponse(bet))
	}
}

func CancelBetHandler(bets *service.BetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		bet, err := bets.Cancel(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toBetResponse(bet))
	}
}

// DeleteBetHandler removes a bet; admin only
func DeleteBetHandler(bets *service.BetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := bets.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// amountQuery parses a decimal query parameter, answering 400 itself when it cannot
func amountQuery(c *gin.Context, name string) (decimal.Decimal, bool) {
	v, err := decimal.NewFromString(c.Query(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return decimal.Zero, false
	}
	return v, true
}
