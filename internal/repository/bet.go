package repository

import (
	"context"
	"time"

	"consciousbet/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BetRepository stores bets in the bets table
type BetRepository struct {
	db *gorm.DB
}

// withUser preloads the owning user for every listing
func (r *BetRepository) withUser(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("User")
}

func (r *BetRepository) Create(ctx context.Context, bet *domain.Bet) error {
	// The owning user is never written through a bet
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(bet).Error, "create bet")
}

func (r *BetRepository) FindByID(ctx context.Context, id uint) (*domain.Bet, error) {
	var bet domain.Bet
	if err := r.withUser(ctx).First(&bet, id).Error; err != nil {
		return nil, translate(err, "bet")
	}
	return &bet, nil
}

func (r *BetRepository) Update(ctx context.Context, bet *domain.Bet) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(bet).Error, "update bet")
}

func (r *BetRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Bet{}, id)
	if res.Error != nil {
		return translate(res.Error, "delete bet")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "bet")
	}
	return nil
}

func (r *BetRepository) List(ctx context.Context) ([]domain.Bet, error) {
	return r.find(r.withUser(ctx).Order("timestamp"), "list bets")
}

func (r *BetRepository) ListPage(ctx context.Context, page domain.Page) ([]domain.Bet, int64, error) {
	return r.findPage(r.db.WithContext(ctx).Model(&domain.Bet{}), page)
}

func (r *BetRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Bet, error) {
	return r.find(r.withUser(ctx).Where("user_id = ?", userID).Order("timestamp"), "bets by user")
}

func (r *BetRepository) FindByUserIDPage(ctx context.Context, userID uint, page domain.Page) ([]domain.Bet, int64, error) {
	return r.findPage(r.db.WithContext(ctx).Model(&domain.Bet{}).Where("user_id = ?", userID), page)
}

func (r *BetRepository) FindByUserIDSince(ctx context.Context, userID uint, since time.Time) ([]domain.Bet, error) {
	q := r.withUser(ctx).Where("user_id = ? AND timestamp >= ?", userID, since).Order("timestamp")
	return r.find(q, "recent bets by user")
}

func (r *BetRepository) FindByType(ctx context.Context, t domain.BetType) ([]domain.Bet, error) {
	return r.find(r.withUser(ctx).Where("type = ?", t).Order("timestamp"), "bets by type")
}

func (r *BetRepository) FindByStatus(ctx context.Context, s domain.BetStatus) ([]domain.Bet, error) {
	return r.find(r.withUser(ctx).Where("status = ?", s).Order("timestamp"), "bets by status")
}

func (r *BetRepository) FindByAmountRange(ctx context.Context, min, max decimal.Decimal) ([]domain.Bet, error) {
	q := r.withUser(ctx).Where("amount >= ? AND amount <= ?", min, max).Order("amount")
	return r.find(q, "bets by amount range")
}

func (r *BetRepository) FindAboveAmount(ctx context.Context, limit decimal.Decimal) ([]domain.Bet, error) {
	return r.find(r.withUser(ctx).Where("amount > ?", limit).Order("amount DESC"), "high value bets")
}

func (r *BetRepository) SumAmount(ctx context.Context, userID uint, since time.Time) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).Model(&domain.Bet{}).Select("COALESCE(SUM(amount), 0)").Where("user_id = ?", userID)
	if !since.IsZero() {
		q = q.Where("timestamp >= ?", since)
	}
	var total decimal.Decimal
	if err := q.Row().Scan(&total); err != nil {
		return decimal.Zero, translate(err, "sum bet amounts")
	}
	return total, nil
}

func (r *BetRepository) CountBets(ctx context.Context, userID uint, since time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Bet{}).Where("user_id = ?", userID)
	if !since.IsZero() {
		q = q.Where("timestamp >= ?", since)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, translate(err, "count bets")
	}
	return n, nil
}

func (r *BetRepository) find(q *gorm.DB, what string) ([]domain.Bet, error) {
	var bets []domain.Bet
	if err := q.Find(&bets).Error; err != nil {
		return nil, translate(err, what)
	}
	return bets, nil
}

// findPage counts the filtered rows, then loads the requested page, newest first
func (r *BetRepository) findPage(filtered *gorm.DB, page domain.Page) ([]domain.Bet, int64, error) {
	var total int64
	if err := filtered.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count bets")
	}
	var bets []domain.Bet
	err := filtered.Session(&gorm.Session{}).
		Preload("User").
		Order("timestamp DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&bets).Error
	if err != nil {
		return nil, 0, translate(err, "list bets")
	}
	return bets, total, nil
}
