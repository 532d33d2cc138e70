package risk

import (
	"fmt"

	"consciousbet/internal/domain"

	"github.com/shopspring/decimal"
)

// Tier is the severity bucket of an analysis
type Tier int

const (
	TierNone     Tier = iota // No risky behavior
	TierModerate             // Cautionary, does not raise an alert
	TierHigh                 // Raises an alert
)

func (t Tier) String() string {
	switch t {
	case TierNone:
		return "none"
	case TierModerate:
		return "moderate"
	case TierHigh:
		return "high"
	}
	return "unknown"
}

// Thresholds of the risk tiers. Counts trigger at >=, amounts strictly above.
var (
	HighRiskAmount     = decimal.RequireFromString("1000.00")
	ModerateRiskAmount = decimal.RequireFromString("500.00")
	monthlyYield       = decimal.RequireFromString("0.01") // Illustrative 1% monthly return
)

const (
	HighRiskCount     = 5
	ModerateRiskCount = 3
)

// Alert is the outcome of analysing a user's recent bets
type Alert struct {
	Risk       bool            `json:"risk"`       // True only for the high tier
	Message    string          `json:"message"`    // Summary shown to the user
	Suggestion *string         `json:"suggestion"` // Optional advice
	Tier       Tier            `json:"tier"`       // Severity bucket
	Count      int             `json:"count"`      // Bets in the window
	Total      decimal.Decimal `json:"total"`      // Amount wagered in the window
}

// Analyze classifies the bets a user placed inside the rolling window.
// Only amounts and the number of bets matter, so order is irrelevant.
func Analyze(bets []domain.Bet) Alert {
	total := decimal.Zero
	for _, b := range bets {
		total = total.Add(b.Amount)
	}
	return classify(len(bets), total)
}

func classify(count int, total decimal.Decimal) Alert {
	a := Alert{Count: count, Total: total}
	switch {
	case count >= HighRiskCount || total.GreaterThan(HighRiskAmount):
		a.Tier = TierHigh
		a.Risk = true
		a.Message = fmt.Sprintf("Risky behavior detected: %d bets totaling R$ %s in the last 24 hours.",
			count, total.StringFixed(2))
		a.Suggestion = suggestion(fmt.Sprintf(
			"With R$ %s you could invest in a fixed-income deposit yielding roughly R$ %s per month with daily liquidity.",
			total.StringFixed(2), total.Mul(monthlyYield).StringFixed(2)))
	case count >= ModerateRiskCount || total.GreaterThan(ModerateRiskAmount):
		a.Tier = TierModerate
		a.Message = fmt.Sprintf("Attention: %d bets totaling R$ %s in the last 24 hours. Keep an eye on your spending.",
			count, total.StringFixed(2))
		a.Suggestion = suggestion("Consider setting daily limits for your bets and exploring investment alternatives.")
	default:
		a.Tier = TierNone
		a.Message = "No risky behavior detected."
		a.Suggestion = suggestion("Keep betting responsibly.")
	}
	return a
}

func suggestion(s string) *string {
	return &s
}
