package api

import (
	"time" // Timestamps

	"consciousbet/internal/domain"  // Domain models
	"consciousbet/internal/risk"    // Risk alerts
	"consciousbet/internal/service" // Stats

	"github.com/shopspring/decimal" // Monetary amounts
)

// BetResponse is the JSON shape of a bet; amounts are fixed 2-place strings
type BetResponse struct {
	ID          uint      `json:"id"`          // Bet ID
	UserID      uint      `json:"userId"`      // Owner ID
	UserName    string    `json:"userName"`    // Owner display name
	Amount      string    `json:"amount"`      // Amount, e.g. "150.00"
	Type        string    `json:"type"`        // Bet type
	Description string    `json:"description"` // Free text
	Status      string    `json:"status"`      // Lifecycle state
	Timestamp   time.Time `json:"timestamp"`   // Placement time
	CreatedAt   time.Time `json:"createdAt"`   // Creation timestamp
	UpdatedAt   time.Time `json:"updatedAt"`   // Last update timestamp
}

func toBetResponse(b *domain.Bet) BetResponse {
	return BetResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		UserName:    b.User.Name,
		Amount:      money(b.Amount),
		Type:        string(b.Type),
		Description: b.Description,
		Status:      string(b.Status),
		Timestamp:   b.Timestamp,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toBetResponses(bets []domain.Bet) []BetResponse {
	resp := make([]BetResponse, len(bets))
	for i := range bets {
		resp[i] = toBetResponse(&bets[i])
	}
	return resp
}

// UserResponse is the JSON shape of a user profile
type UserResponse struct {
	ID        uint      `json:"id"`        // User ID
	Name      string    `json:"name"`      // Display name
	Email     string    `json:"email"`     // Email
	Age       int       `json:"age"`       // Age in years
	CreatedAt time.Time `json:"createdAt"` // Creation timestamp
	UpdatedAt time.Time `json:"updatedAt"` // Last update timestamp
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Age: u.Age, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

func toUserResponses(users []domain.User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = toUserResponse(&users[i])
	}
	return resp
}

// AlertResponse is the public part of a risk alert
type AlertResponse struct {
	Risk       bool    `json:"risk"`       // Alert flag
	Message    string  `json:"message"`    // Summary
	Suggestion *string `json:"suggestion"` // Advice, may be null
}

func toAlertResponse(a risk.Alert) AlertResponse {
	return AlertResponse{Risk: a.Risk, Message: a.Message, Suggestion: a.Suggestion}
}

// StatsResponse reports a user's betting totals
type StatsResponse struct {
	UserID           uint   `json:"userId"`           // User ID
	TotalAmount      string `json:"totalAmount"`      // All-time amount
	TotalBets        int64  `json:"totalBets"`        // All-time count
	DailyAmount      string `json:"dailyAmount"`      // Amount in the last 24 hours
	DailyBets        int64  `json:"dailyBets"`        // Count in the last 24 hours
	AverageBetAmount string `json:"averageBetAmount"` // All-time average
}

func toStatsResponse(s *service.Stats) StatsResponse {
	return StatsResponse{
		UserID:           s.UserID,
		TotalAmount:      money(s.TotalAmount),
		TotalBets:        s.TotalBets,
		DailyAmount:      money(s.DailyAmount),
		DailyBets:        s.DailyBets,
		AverageBetAmount: money(s.AverageAmount),
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
