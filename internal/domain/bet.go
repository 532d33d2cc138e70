package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BetType is the closed set of games a bet can be placed on
type BetType string

const (
	BetTypeSports  BetType = "SPORTS"
	BetTypeCasino  BetType = "CASINO"
	BetTypeLottery BetType = "LOTTERY"
	BetTypePoker   BetType = "POKER"
)

// Valid reports whether t is one of the known bet types
func (t BetType) Valid() bool {
	switch t {
	case BetTypeSports, BetTypeCasino, BetTypeLottery, BetTypePoker:
		return true
	}
	return false
}

// ParseBetType normalises s to upper case and rejects unknown values
func ParseBetType(s string) (BetType, error) {
	t := BetType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: invalid bet type %q, must be SPORTS, CASINO, LOTTERY or POKER", ErrValidation, s)
	}
	return t, nil
}

// BetStatus is the lifecycle state of a bet
type BetStatus string

const (
	BetStatusPending   BetStatus = "PENDING"
	BetStatusActive    BetStatus = "ACTIVE"
	BetStatusWon       BetStatus = "WON"
	BetStatusLost      BetStatus = "LOST"
	BetStatusCancelled BetStatus = "CANCELLED"
)

// Valid reports whether s is one of the known statuses
func (s BetStatus) Valid() bool {
	switch s {
	case BetStatusPending, BetStatusActive, BetStatusWon, BetStatusLost, BetStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status is a final outcome (WON or LOST)
func (s BetStatus) Terminal() bool {
	switch s {
	case BetStatusWon, BetStatusLost:
		return true
	case BetStatusPending, BetStatusActive, BetStatusCancelled:
		return false
	}
	return false
}

// ParseBetStatus normalises s to upper case and rejects unknown values
func ParseBetStatus(s string) (BetStatus, error) {
	st := BetStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: invalid status %q, must be PENDING, ACTIVE, WON, LOST or CANCELLED", ErrValidation, s)
	}
	return st, nil
}

// Bet Model
type Bet struct {
	ID          uint            `gorm:"primaryKey"`                             // Primary key
	UserID      uint            `gorm:"not null;index:idx_bets_user_time"`      // Foreign key to User
	User        User            `gorm:"constraint:OnDelete:CASCADE;"`           // Owning user
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`            // Wager amount, never a float
	Type        BetType         `gorm:"size:16;not null;index"`                 // SPORTS, CASINO, LOTTERY or POKER
	Description string          `gorm:"size:500"`                               // Optional free text
	Status      BetStatus       `gorm:"size:16;not null;index;default:PENDING"` // Lifecycle state
	Timestamp   time.Time       `gorm:"not null;index:idx_bets_user_time"`      // Placement time
	CreatedAt   time.Time       // Creation timestamp
	UpdatedAt   time.Time       // Last update timestamp
}

// MaxDescriptionLength bounds Bet.Description
const MaxDescriptionLength = 500
