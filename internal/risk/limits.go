// Package risk holds the betting rules: per-bet and rolling 24h limits, and the
// risk classification of a user's recent betting history. Everything here is
// pure and safe for concurrent use.
package risk

import (
	"fmt"
	"time"

	"consciousbet/internal/domain"

	"github.com/shopspring/decimal"
)

// Limits applied to every new bet (same currency unit as the bet amount)
var (
	MinBet         = decimal.RequireFromString("1.00")    // Smallest accepted bet
	MaxSingleBet   = decimal.RequireFromString("2000.00") // Largest accepted bet
	MaxDailyAmount = decimal.RequireFromString("5000.00") // Cap on the rolling 24h total
)

// MaxDailyBets caps how many bets a user may place in the rolling window
const MaxDailyBets = 20

// Window is the rolling period used for the daily limits and risk analysis
const Window = 24 * time.Hour

// RejectionKind classifies why a bet was refused
type RejectionKind string

const (
	BelowMinimum       RejectionKind = "BelowMinimum"
	AboveSingleLimit   RejectionKind = "AboveSingleLimit"
	AboveDailyLimit    RejectionKind = "AboveDailyLimit"
	DailyCountExceeded RejectionKind = "DailyCountExceeded"
)

// LimitError is a bet rejection with the figures needed to explain it
type LimitError struct {
	Kind      RejectionKind   // Which rule failed
	Limit     decimal.Decimal // Limit value (amount, or count for DailyCountExceeded)
	Current   decimal.Decimal // Current rolling aggregate, zero for per-bet rules
	Attempted decimal.Decimal // Proposed bet amount
}

func (e *LimitError) Error() string {
	switch e.Kind {
	case BelowMinimum:
		return fmt.Sprintf("Minimum bet amount is R$ %s", e.Limit.StringFixed(2))
	case AboveSingleLimit:
		return fmt.Sprintf("Maximum single bet amount is R$ %s", e.Limit.StringFixed(2))
	case AboveDailyLimit:
		return fmt.Sprintf("Daily betting limit exceeded. Limit: R$ %s, Current: R$ %s, Attempted: R$ %s",
			e.Limit.StringFixed(2), e.Current.StringFixed(2), e.Attempted.StringFixed(2))
	case DailyCountExceeded:
		return fmt.Sprintf("Daily bet count limit exceeded. Limit: %s, Current: %s",
			e.Limit.String(), e.Current.String())
	}
	return "bet rejected"
}

// Unwrap lets callers match any rejection with errors.Is(err, domain.ErrValidation)
func (e *LimitError) Unwrap() error {
	return domain.ErrValidation
}

// CheckAmount applies the per-bet bounds
func CheckAmount(amount decimal.Decimal) error {
	if amount.LessThan(MinBet) {
		return &LimitError{Kind: BelowMinimum, Limit: MinBet, Attempted: amount}
	}
	if amount.GreaterThan(MaxSingleBet) {
		return &LimitError{Kind: AboveSingleLimit, Limit: MaxSingleBet, Attempted: amount}
	}
	return nil
}

// CheckBet decides whether a new bet of amount is allowed for a user whose
// rolling window already holds dailyCount bets totalling dailyTotal.
// Amount bounds are checked before the daily aggregates and only the first
// failure is reported.
func CheckBet(amount, dailyTotal decimal.Decimal, dailyCount int64) error {
	if err := CheckAmount(amount); err != nil {
		return err
	}
	if dailyTotal.Add(amount).GreaterThan(MaxDailyAmount) {
		return &LimitError{Kind: AboveDailyLimit, Limit: MaxDailyAmount, Current: dailyTotal, Attempted: amount}
	}
	if dailyCount >= MaxDailyBets {
		return &LimitError{
			Kind:      DailyCountExceeded,
			Limit:     decimal.NewFromInt(MaxDailyBets),
			Current:   decimal.NewFromInt(dailyCount),
			Attempted: amount,
		}
	}
	return nil
}
