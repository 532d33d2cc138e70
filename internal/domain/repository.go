package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Page selects a slice of an ordered listing (1-based page number)
type Page struct {
	Number int // Page number, starting at 1
	Size   int // Items per page
}

// Offset returns the number of rows to skip for the page
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TotalPages returns how many pages of p.Size are needed for total rows
func (p Page) TotalPages(total int64) int {
	if p.Size <= 0 {
		return 0
	}
	return (int(total) + p.Size - 1) / p.Size
}

// UserRepository persists users. Lookups by email are case-insensitive.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	// FindByIDForUpdate loads the user and locks its row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]User, error)
	ListPage(ctx context.Context, page Page) ([]User, int64, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

// BetRepository persists bets. Returned bets have their User loaded.
type BetRepository interface {
	Create(ctx context.Context, bet *Bet) error
	FindByID(ctx context.Context, id uint) (*Bet, error)
	Update(ctx context.Context, bet *Bet) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]Bet, error)
	ListPage(ctx context.Context, page Page) ([]Bet, int64, error)
	FindByUserID(ctx context.Context, userID uint) ([]Bet, error)
	FindByUserIDPage(ctx context.Context, userID uint, page Page) ([]Bet, int64, error)
	FindByUserIDSince(ctx context.Context, userID uint, since time.Time) ([]Bet, error)
	FindByType(ctx context.Context, t BetType) ([]Bet, error)
	FindByStatus(ctx context.Context, s BetStatus) ([]Bet, error)
	FindByAmountRange(ctx context.Context, min, max decimal.Decimal) ([]Bet, error)
	FindAboveAmount(ctx context.Context, limit decimal.Decimal) ([]Bet, error)
	// SumAmount totals the user's bets placed at or after since; a zero since covers all bets.
	SumAmount(ctx context.Context, userID uint, since time.Time) (decimal.Decimal, error)
	// CountBets counts the user's bets placed at or after since; a zero since covers all bets.
	CountBets(ctx context.Context, userID uint, since time.Time) (int64, error)
}

// CredentialRepository persists login credentials
type CredentialRepository interface {
	Create(ctx context.Context, cred *Credential) error
	FindByEmail(ctx context.Context, email string) (*Credential, error)
	// DeleteByUserID removes the login owned by the profile userID, if any.
	DeleteByUserID(ctx context.Context, userID uint) error
}

// Store groups the repositories and runs work inside one transaction
type Store interface {
	Users() UserRepository
	Bets() BetRepository
	Credentials() CredentialRepository
	// Atomic runs fn against a transactional Store; any error rolls everything back.
	Atomic(ctx context.Context, fn func(tx Store) error) error
}
