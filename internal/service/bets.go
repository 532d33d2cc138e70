package service

import (
	"context"      // Request scoped context
	"errors"       // Limit error detection
	"fmt"          // Error wrapping
	"time"         // Rolling window
	"unicode/utf8" // Description length in characters

	"consciousbet/internal/cache"   // Cache keys
	"consciousbet/internal/domain"  // Domain models
	"consciousbet/internal/events"  // Bet lifecycle events
	"consciousbet/internal/metrics" // Prometheus counters
	"consciousbet/internal/risk"    // Limit validator

	"github.com/shopspring/decimal" // Monetary amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// CreateBet is the input of BetService.Create
type CreateBet struct {
	UserID      uint
	Amount      decimal.Decimal
	Type        domain.BetType
	Description string
}

// UpdateBet carries the fields to change; nil fields are left alone
type UpdateBet struct {
	Amount      *decimal.Decimal
	Type        *domain.BetType
	Description *string
	Status      *domain.BetStatus
}

// Stats summarises the betting history of one user
type Stats struct {
	UserID        uint            `json:"userId"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TotalBets     int64           `json:"totalBets"`
	DailyAmount   decimal.Decimal `json:"dailyAmount"`
	DailyBets     int64           `json:"dailyBets"`
	AverageAmount decimal.Decimal `json:"averageBetAmount"`
}

// BetService places, changes and queries bets
type BetService struct {
	store  domain.Store
	cache  Cache
	events events.Publisher
	now    func() time.Time
}

// NewBetService wires the service; a nil cache or publisher disables that concern
func NewBetService(store domain.Store, c Cache, pub events.Publisher) *BetService {
	if c == nil {
		c = cache.Nop{}
	}
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &BetService{store: store, cache: c, events: pub, now: time.Now}
}

// Create places a bet after checking it against the user's limits.
// The user row stays locked until the bet is stored, so concurrent bets of
// the same user see each other's amounts.
func (s *BetService) Create(ctx context.Context, in CreateBet) (*domain.Bet, error) {
	if !in.Type.Valid() {
		return nil, invalid("unknown bet type %q", in.Type)
	}
	if utf8.RuneCountInString(in.Description) > domain.MaxDescriptionLength {
		return nil, invalid("description must be at most %d characters", domain.MaxDescriptionLength)
	}
	now := s.now().UTC()
	var bet domain.Bet
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		user, err := tx.Users().FindByIDForUpdate(ctx, in.UserID) // Lock the owner
		if err != nil {
			return missing(err, "user", in.UserID)
		}
		since := now.Add(-risk.Window)
		dailyTotal, err := tx.Bets().SumAmount(ctx, user.ID, since) // Amount wagered in the window
		if err != nil {
			return err
		}
		dailyCount, err := tx.Bets().CountBets(ctx, user.ID, since) // Bets placed in the window
		if err != nil {
			return err
		}
		if err := risk.CheckBet(in.Amount, dailyTotal, dailyCount); err != nil {
			return err
		}
		bet = domain.Bet{
			UserID:      user.ID,
			Amount:      in.Amount.Round(2), // Stored in cents
			Type:        in.Type,
			Description: in.Description,
			Status:      domain.BetStatusPending,
			Timestamp:   now,
		}
		if err := tx.Bets().Create(ctx, &bet); err != nil {
			return err
		}
		bet.User = *user
		return nil
	})
	if err != nil {
		var limitErr *risk.LimitError
		if errors.As(err, &limitErr) {
			metrics.BetRejections.WithLabelValues(string(limitErr.Kind)).Inc()
			// Log the rejection with context
			logrus.WithFields(logrus.Fields{
				"user_id": in.UserID,             // Bettor
				"amount":  in.Amount.String(),    // Attempted amount
				"kind":    string(limitErr.Kind), // Rejection kind
			}).Warn("Bet rejected")
		}
		return nil, err
	}
	metrics.BetsPlaced.WithLabelValues(string(bet.Type)).Inc()
	// Log successful bet
	logrus.WithFields(logrus.Fields{
		"bet_id":  bet.ID,                    // New bet ID
		"user_id": bet.UserID,                // Bettor
		"amount":  bet.Amount.StringFixed(2), // Stored amount
		"type":    string(bet.Type),          // Bet type
	}).Info("Bet placed")
	s.changed(ctx, events.BetPlaced, &bet, "")
	return &bet, nil
}

// Update applies the non-nil fields of in. WON and LOST bets cannot change.
func (s *BetService) Update(ctx context.Context, id uint, in UpdateBet) (*domain.Bet, error) {
	if in.Type != nil && !in.Type.Valid() {
		return nil, invalid("unknown bet type %q", *in.Type)
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, invalid("unknown bet status %q", *in.Status)
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > domain.MaxDescriptionLength {
		return nil, invalid("description must be at most %d characters", domain.MaxDescriptionLength)
	}
	if in.Amount != nil {
		if err := risk.CheckAmount(*in.Amount); err != nil {
			return nil, err
		}
	}
	var bet *domain.Bet
	var previous domain.BetStatus
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		var err error
		bet, err = s.mutable(ctx, tx, id)
		if err != nil {
			return err
		}
		previous = bet.Status
		if in.Amount != nil {
			bet.Amount = in.Amount.Round(2)
		}
		if in.Type != nil {
			bet.Type = *in.Type
		}
		if in.Description != nil {
			bet.Description = *in.Description
		}
		if in.Status != nil {
			bet.Status = *in.Status
		}
		return tx.Bets().Update(ctx, bet)
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"bet_id":  bet.ID,
		"user_id": bet.UserID,
	}).Info("Bet updated")
	s.changed(ctx, events.BetUpdated, bet, previous)
	return bet, nil
}

// UpdateStatus moves a bet to status. Only WON and LOST are final.
func (s *BetService) UpdateStatus(ctx context.Context, id uint, status domain.BetStatus) (*domain.Bet, error) {
	if !status.Valid() {
		return nil, invalid("unknown bet status %q", status)
	}
	var bet *domain.Bet
	var previous domain.BetStatus
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		var err error
		bet, err = s.mutable(ctx, tx, id)
		if err != nil {
			return err
		}
		previous = bet.Status
		bet.Status = status
		return tx.Bets().Update(ctx, bet)
	})
	if err != nil {
		return nil, err
	}
	// Log status change
	logrus.WithFields(logrus.Fields{
		"bet_id": bet.ID,           // Bet ID
		"from":   string(previous), // Old status
		"to":     string(status),   // New status
	}).Info("Bet status changed")
	s.changed(ctx, events.BetStatusChanged, bet, previous)
	return bet, nil
}

// Cancel marks a bet CANCELLED
func (s *BetService) Cancel(ctx context.Context, id uint) (*domain.Bet, error) {
	return s.UpdateStatus(ctx, id, domain.BetStatusCancelled)
}

// Delete removes a bet regardless of its status
func (s *BetService) Delete(ctx context.Context, id uint) error {
	var bet *domain.Bet
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		var err error
		if bet, err = tx.Bets().FindByID(ctx, id); err != nil {
			return missing(err, "bet", id)
		}
		return tx.Bets().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	logrus.WithField("bet_id", id).Info("Bet deleted")
	s.changed(ctx, events.BetDeleted, bet, "")
	return nil
}

// mutable loads a bet that may still change
func (s *BetService) mutable(ctx context.Context, tx domain.Store, id uint) (*domain.Bet, error) {
	bet, err := tx.Bets().FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, "bet", id)
	}
	if bet.Status.Terminal() {
		return nil, fmt.Errorf("bet %d is already %s and cannot be modified: %w", id, bet.Status, domain.ErrInvalidState)
	}
	return bet, nil
}

// changed runs after a committed mutation: drop the user's cached views, then announce the change
func (s *BetService) changed(ctx context.Context, eventType string, bet *domain.Bet, previous domain.BetStatus) {
	// Invalidate alert and stats cache
	if err := s.cache.Delete(ctx, cache.UserKeys(bet.UserID)...); err != nil {
		cacheFailed("invalidate", bet.UserID, err)
	}
	err := s.events.Publish(ctx, events.BetEvent{
		Type:     eventType,
		BetID:    bet.ID,
		UserID:   bet.UserID,
		Amount:   bet.Amount,
		BetType:  string(bet.Type),
		Status:   string(bet.Status),
		Previous: string(previous),
	})
	if err != nil {
		metrics.EventPublishFailures.Inc()
		logrus.WithFields(logrus.Fields{
			"bet_id": bet.ID,
			"event":  eventType,
			"error":  err.Error(),
		}).Error("Bet event not published")
	}
}

func (s *BetService) FindByID(ctx context.Context, id uint) (*domain.Bet, error) {
	bet, err := s.store.Bets().FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, "bet", id)
	}
	return bet, nil
}

func (s *BetService) List(ctx context.Context) ([]domain.Bet, error) {
	return s.store.Bets().List(ctx)
}

// Page lists all bets, newest first
func (s *BetService) Page(ctx context.Context, page domain.Page) ([]domain.Bet, int64, error) {
	return s.store.Bets().ListPage(ctx, page)
}

func (s *BetService) FindByUserID(ctx context.Context, userID uint) ([]domain.Bet, error) {
	return s.store.Bets().FindByUserID(ctx, userID)
}

// PageByUserID lists the user's bets, newest first
func (s *BetService) PageByUserID(ctx context.Context, userID uint, page domain.Page) ([]domain.Bet, int64, error) {
	return s.store.Bets().FindByUserIDPage(ctx, userID, page)
}

// FindRecentByUserID lists the bets inside the rolling window
func (s *BetService) FindRecentByUserID(ctx context.Context, userID uint) ([]domain.Bet, error) {
	return s.store.Bets().FindByUserIDSince(ctx, userID, s.now().UTC().Add(-risk.Window))
}

func (s *BetService) FindByType(ctx context.Context, t domain.BetType) ([]domain.Bet, error) {
	return s.store.Bets().FindByType(ctx, t)
}

func (s *BetService) FindByStatus(ctx context.Context, st domain.BetStatus) ([]domain.Bet, error) {
	return s.store.Bets().FindByStatus(ctx, st)
}

// FindByAmountRange lists bets with min <= amount <= max
func (s *BetService) FindByAmountRange(ctx context.Context, min, max decimal.Decimal) ([]domain.Bet, error) {
	if min.GreaterThan(max) {
		return nil, invalid("min amount %s is greater than max amount %s", min, max)
	}
	return s.store.Bets().FindByAmountRange(ctx, min, max)
}

// FindHighValue lists bets strictly above limit, largest first
func (s *BetService) FindHighValue(ctx context.Context, limit decimal.Decimal) ([]domain.Bet, error) {
	return s.store.Bets().FindAboveAmount(ctx, limit)
}

// Stats reports totals for all time and for the rolling window. Results are cached.
func (s *BetService) Stats(ctx context.Context, userID uint) (*Stats, error) {
	var st Stats
	if found, err := s.cache.Get(ctx, cache.StatsKey(userID), &st); err == nil && found {
		return &st, nil // Cache hit
	}
	since := s.now().UTC().Add(-risk.Window)
	bets := s.store.Bets()
	totalAmount, err := bets.SumAmount(ctx, userID, time.Time{})
	if err != nil {
		return nil, err
	}
	totalBets, err := bets.CountBets(ctx, userID, time.Time{})
	if err != nil {
		return nil, err
	}
	dailyAmount, err := bets.SumAmount(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	dailyBets, err := bets.CountBets(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	st = Stats{
		UserID:        userID,
		TotalAmount:   totalAmount,
		TotalBets:     totalBets,
		DailyAmount:   dailyAmount,
		DailyBets:     dailyBets,
		AverageAmount: decimal.Zero,
	}
	if totalBets > 0 {
		st.AverageAmount = totalAmount.DivRound(decimal.NewFromInt(totalBets), 2) // Half-up for positive amounts
	}
	if err := s.cache.Set(ctx, cache.StatsKey(userID), st); err != nil {
		cacheFailed("store stats", userID, err)
	}
	return &st, nil
}

// CanUserBet runs the limit checks for amount without placing anything.
// Unknown users cannot bet.
func (s *BetService) CanUserBet(ctx context.Context, userID uint, amount decimal.Decimal) (bool, error) {
	if _, err := s.store.Users().FindByID(ctx, userID); errors.Is(err, domain.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	since := s.now().UTC().Add(-risk.Window)
	dailyTotal, err := s.store.Bets().SumAmount(ctx, userID, since)
	if err != nil {
		return false, err
	}
	dailyCount, err := s.store.Bets().CountBets(ctx, userID, since)
	if err != nil {
		return false, err
	}
	return risk.CheckBet(amount, dailyTotal, dailyCount) == nil, nil
}
