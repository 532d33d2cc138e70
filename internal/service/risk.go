package service

import (
	"context"
	"time"

	"consciousbet/internal/cache"
	"consciousbet/internal/domain"
	"consciousbet/internal/metrics"
	"consciousbet/internal/risk"

	"github.com/sirupsen/logrus"
)

// RiskService analyses the recent betting of a user
type RiskService struct {
	store domain.Store
	cache Cache
	now   func() time.Time
}

func NewRiskService(store domain.Store, c Cache) *RiskService {
	if c == nil {
		c = cache.Nop{}
	}
	return &RiskService{store: store, cache: c, now: time.Now}
}

// Analyze returns the risk alert for the user's bets of the last 24 hours.
// A user without recent bets, known or not, gets the neutral alert.
// Alerts are cached until the user's next bet mutation or the cache TTL.
func (s *RiskService) Analyze(ctx context.Context, userID uint) (risk.Alert, error) {
	var alert risk.Alert
	if found, err := s.cache.Get(ctx, cache.AlertKey(userID), &alert); err == nil && found {
		return alert, nil
	}
	bets, err := s.store.Bets().FindByUserIDSince(ctx, userID, s.now().UTC().Add(-risk.Window))
	if err != nil {
		return risk.Alert{}, err
	}
	alert = risk.Analyze(bets)
	metrics.RiskAssessments.WithLabelValues(alert.Tier.String()).Inc()
	if alert.Risk {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"count":   alert.Count,
			"total":   alert.Total.StringFixed(2),
		}).Warn("Risky betting behavior detected")
	}
	if err := s.cache.Set(ctx, cache.AlertKey(userID), alert); err != nil {
		cacheFailed("store alert", userID, err)
	}
	return alert, nil
}
