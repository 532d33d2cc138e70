package service

import (
	"context"
	"testing"
	"time"

	"consciousbet/internal/cache"
	"consciousbet/internal/domain"
	"consciousbet/internal/risk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskService_AlertAfterBet(t *testing.T) {
	f := newFixture(t)
	for i := 1; i <= 4; i++ {
		f.store.SeedBet(f.user.ID, "225.00", domain.BetTypeSports, domain.BetStatusPending, clock.Add(-time.Duration(i)*time.Hour))
	}

	before, err := f.risk.Analyze(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.False(t, before.Risk)
	assert.Equal(t, risk.TierModerate, before.Tier)

	_, err = f.place(t, "150.00")
	require.NoError(t, err)

	after, err := f.risk.Analyze(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.True(t, after.Risk)
	assert.Contains(t, after.Message, "5 bets totaling R$ 1050.00")
	require.NotNil(t, after.Suggestion)
	assert.Contains(t, *after.Suggestion, "R$ 10.50 per month")
}

func TestRiskService_NoBets(t *testing.T) {
	f := newFixture(t)

	alert, err := f.risk.Analyze(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.False(t, alert.Risk)
	assert.Equal(t, risk.TierNone, alert.Tier)
}

func TestRiskService_IgnoresBetsOutsideWindow(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 6; i++ {
		f.store.SeedBet(f.user.ID, "300.00", domain.BetTypeSports, domain.BetStatusLost, clock.Add(-25*time.Hour))
	}

	alert, err := f.risk.Analyze(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.False(t, alert.Risk)
	assert.Zero(t, alert.Count)
}

func TestRiskService_UnknownUser(t *testing.T) {
	f := newFixture(t)

	alert, err := f.risk.Analyze(context.Background(), 999)
	require.NoError(t, err)
	assert.False(t, alert.Risk)
	assert.Equal(t, risk.TierNone, alert.Tier)
	assert.Equal(t, "No risky behavior detected.", alert.Message)
}

func TestRiskService_ServesFromCache(t *testing.T) {
	f := newFixture(t)
	cached := risk.Alert{Risk: true, Message: "cached"}
	require.NoError(t, f.cache.Set(context.Background(), cache.AlertKey(f.user.ID), cached))

	alert, err := f.risk.Analyze(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "cached", alert.Message)
}
