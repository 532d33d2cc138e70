package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"consciousbet/internal/cache"
	"consciousbet/internal/domain"
	"consciousbet/internal/events"
	"consciousbet/internal/risk"
	"consciousbet/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock = time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)

type fixture struct {
	store *testutil.MemoryStore
	cache *testutil.MemoryCache
	pub   *testutil.RecordingPublisher
	bets  *BetService
	risk  *RiskService
	user  domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: testutil.NewMemoryStore(),
		cache: testutil.NewMemoryCache(),
		pub:   &testutil.RecordingPublisher{},
	}
	f.bets = NewBetService(f.store, f.cache, f.pub)
	f.bets.now = func() time.Time { return clock }
	f.risk = NewRiskService(f.store, f.cache)
	f.risk.now = func() time.Time { return clock }
	f.user = f.store.SeedUser("Ana", "ana@example.com", 30)
	return f
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *fixture) place(t *testing.T, amount string) (*domain.Bet, error) {
	t.Helper()
	return f.bets.Create(context.Background(), CreateBet{UserID: f.user.ID, Amount: d(amount), Type: domain.BetTypeSports})
}

func kindOf(t *testing.T, err error) risk.RejectionKind {
	t.Helper()
	var limitErr *risk.LimitError
	require.True(t, errors.As(err, &limitErr), "expected a limit error, got %v", err)
	return limitErr.Kind
}

func TestBetService_Create(t *testing.T) {
	f := newFixture(t)

	bet, err := f.bets.Create(context.Background(), CreateBet{
		UserID:      f.user.ID,
		Amount:      d("150.005"),
		Type:        domain.BetTypeCasino,
		Description: "roulette",
	})
	require.NoError(t, err)
	assert.NotZero(t, bet.ID)
	assert.Equal(t, domain.BetStatusPending, bet.Status)
	assert.Equal(t, "150.01", bet.Amount.StringFixed(2))
	assert.Equal(t, clock, bet.Timestamp)
	assert.Equal(t, "ana@example.com", bet.User.Email)
	assert.Equal(t, []string{events.BetPlaced}, f.pub.Types())
	assert.ElementsMatch(t, cache.UserKeys(f.user.ID), f.cache.Deleted)
}

func TestBetService_Create_UnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.bets.Create(context.Background(), CreateBet{UserID: 999, Amount: d("10"), Type: domain.BetTypeSports})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Zero(t, f.store.BetCount())
}

func TestBetService_Create_RejectsUnknownType(t *testing.T) {
	f := newFixture(t)

	_, err := f.bets.Create(context.Background(), CreateBet{UserID: f.user.ID, Amount: d("10"), Type: "DARTS"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestBetService_Create_AmountBounds(t *testing.T) {
	tests := []struct {
		amount string
		kind   risk.RejectionKind
	}{
		{"0.99", risk.BelowMinimum},
		{"0", risk.BelowMinimum},
		{"2000.01", risk.AboveSingleLimit},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.place(t, tt.amount)
			assert.True(t, errors.Is(err, domain.ErrValidation))
			assert.Equal(t, tt.kind, kindOf(t, err))
			assert.Zero(t, f.store.BetCount())
			assert.Empty(t, f.pub.Events())
		})
	}
}

func TestBetService_Create_DailyAmount(t *testing.T) {
	f := newFixture(t)
	f.store.SeedBet(f.user.ID, "2000.00", domain.BetTypeSports, domain.BetStatusPending, clock.Add(-time.Hour))
	f.store.SeedBet(f.user.ID, "2000.00", domain.BetTypeSports, domain.BetStatusWon, clock.Add(-23*time.Hour))

	_, err := f.place(t, "1000.01")
	assert.Equal(t, risk.AboveDailyLimit, kindOf(t, err))
	assert.Contains(t, err.Error(), "Current: R$ 4000.00, Attempted: R$ 1000.01")

	_, err = f.place(t, "1000.00")
	require.NoError(t, err)
}

func TestBetService_Create_WindowExcludesOldBets(t *testing.T) {
	f := newFixture(t)
	f.store.SeedBet(f.user.ID, "2000.00", domain.BetTypeSports, domain.BetStatusLost, clock.Add(-24*time.Hour-time.Second))
	f.store.SeedBet(f.user.ID, "2000.00", domain.BetTypeSports, domain.BetStatusLost, clock.Add(-30*time.Hour))
	f.store.SeedBet(f.user.ID, "2000.00", domain.BetTypeSports, domain.BetStatusLost, clock.Add(-2*time.Hour))

	_, err := f.place(t, "2000.00")
	require.NoError(t, err)
}

func TestBetService_Create_DailyCount(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < risk.MaxDailyBets; i++ {
		f.store.SeedBet(f.user.ID, "1.00", domain.BetTypeLottery, domain.BetStatusPending, clock.Add(-time.Duration(i)*time.Minute))
	}

	_, err := f.place(t, "1.00")
	assert.Equal(t, risk.DailyCountExceeded, kindOf(t, err))
	assert.Equal(t, risk.MaxDailyBets, f.store.BetCount())
}

func TestBetService_Create_ConcurrentBetsRespectDailyLimit(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	placed := 0
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.place(t, "600.00"); err == nil {
				mu.Lock()
				placed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, placed)
	total, err := f.store.Bets().SumAmount(context.Background(), f.user.ID, time.Time{})
	require.NoError(t, err)
	assert.True(t, total.LessThanOrEqual(risk.MaxDailyAmount))
}

func TestBetService_Create_PublishFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	f.pub.Err = errors.New("broker down")

	bet, err := f.place(t, "10.00")
	require.NoError(t, err)
	assert.NotZero(t, bet.ID)
}

func TestBetService_TerminalBetsAreLocked(t *testing.T) {
	for _, status := range []domain.BetStatus{domain.BetStatusWon, domain.BetStatusLost} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			bet := f.store.SeedBet(f.user.ID, "50.00", domain.BetTypePoker, status, clock)
			amount := d("60.00")

			_, err := f.bets.Update(context.Background(), bet.ID, UpdateBet{Amount: &amount})
			assert.True(t, errors.Is(err, domain.ErrInvalidState))

			_, err = f.bets.UpdateStatus(context.Background(), bet.ID, domain.BetStatusActive)
			assert.True(t, errors.Is(err, domain.ErrInvalidState))

			_, err = f.bets.Cancel(context.Background(), bet.ID)
			assert.True(t, errors.Is(err, domain.ErrInvalidState))

			stored, err := f.bets.FindByID(context.Background(), bet.ID)
			require.NoError(t, err)
			assert.Equal(t, status, stored.Status)
			assert.Equal(t, "50.00", stored.Amount.StringFixed(2))
		})
	}
}

func TestBetService_Update(t *testing.T) {
	f := newFixture(t)
	bet := f.store.SeedBet(f.user.ID, "50.00", domain.BetTypePoker, domain.BetStatusPending, clock)
	amount := d("75.50")
	casino := domain.BetTypeCasino
	desc := "high roller"

	updated, err := f.bets.Update(context.Background(), bet.ID, UpdateBet{Amount: &amount, Type: &casino, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "75.50", updated.Amount.StringFixed(2))
	assert.Equal(t, domain.BetTypeCasino, updated.Type)
	assert.Equal(t, "high roller", updated.Description)
	assert.Equal(t, []string{events.BetUpdated}, f.pub.Types())
}

func TestBetService_Update_ChecksAmountBounds(t *testing.T) {
	f := newFixture(t)
	bet := f.store.SeedBet(f.user.ID, "50.00", domain.BetTypePoker, domain.BetStatusPending, clock)
	amount := d("2500")

	_, err := f.bets.Update(context.Background(), bet.ID, UpdateBet{Amount: &amount})
	assert.Equal(t, risk.AboveSingleLimit, kindOf(t, err))
}

func TestBetService_Update_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.bets.Update(context.Background(), 42, UpdateBet{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBetService_UpdateStatusAndCancel(t *testing.T) {
	f := newFixture(t)
	bet := f.store.SeedBet(f.user.ID, "50.00", domain.BetTypeSports, domain.BetStatusPending, clock)

	updated, err := f.bets.UpdateStatus(context.Background(), bet.ID, domain.BetStatusActive)
	require.NoError(t, err)
	assert.Equal(t, domain.BetStatusActive, updated.Status)

	cancelled, err := f.bets.Cancel(context.Background(), bet.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BetStatusCancelled, cancelled.Status)

	evs := f.pub.Events()
	require.Len(t, evs, 2)
	assert.Equal(t, events.BetStatusChanged, evs[1].Type)
	assert.Equal(t, "ACTIVE", evs[1].Previous)
	assert.Equal(t, "CANCELLED", evs[1].Status)
}

func TestBetService_Delete(t *testing.T) {
	f := newFixture(t)
	bet := f.store.SeedBet(f.user.ID, "50.00", domain.BetTypeSports, domain.BetStatusWon, clock)

	require.NoError(t, f.bets.Delete(context.Background(), bet.ID))
	assert.Zero(t, f.store.BetCount())
	assert.Equal(t, []string{events.BetDeleted}, f.pub.Types())

	err := f.bets.Delete(context.Background(), bet.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBetService_Queries(t *testing.T) {
	f := newFixture(t)
	other := f.store.SeedUser("Bia", "bia@example.com", 40)
	f.store.SeedBet(f.user.ID, "10.00", domain.BetTypeSports, domain.BetStatusPending, clock.Add(-48*time.Hour))
	f.store.SeedBet(f.user.ID, "500.00", domain.BetTypeCasino, domain.BetStatusWon, clock.Add(-time.Hour))
	f.store.SeedBet(other.ID, "1500.00", domain.BetTypeCasino, domain.BetStatusPending, clock)
	ctx := context.Background()

	recent, err := f.bets.FindRecentByUserID(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "500.00", recent[0].Amount.StringFixed(2))

	casino, err := f.bets.FindByType(ctx, domain.BetTypeCasino)
	require.NoError(t, err)
	assert.Len(t, casino, 2)

	pending, err := f.bets.FindByStatus(ctx, domain.BetStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	ranged, err := f.bets.FindByAmountRange(ctx, d("10"), d("500"))
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	_, err = f.bets.FindByAmountRange(ctx, d("500"), d("10"))
	assert.True(t, errors.Is(err, domain.ErrValidation))

	high, err := f.bets.FindHighValue(ctx, d("100"))
	require.NoError(t, err)
	require.Len(t, high, 2)
	assert.Equal(t, "1500.00", high[0].Amount.StringFixed(2))

	page, total, err := f.bets.PageByUserID(ctx, f.user.ID, domain.Page{Number: 1, Size: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page, 1)
	assert.Equal(t, "500.00", page[0].Amount.StringFixed(2))
}

func TestBetService_Stats(t *testing.T) {
	f := newFixture(t)
	f.store.SeedBet(f.user.ID, "1.00", domain.BetTypeSports, domain.BetStatusPending, clock.Add(-48*time.Hour))
	f.store.SeedBet(f.user.ID, "1.01", domain.BetTypeSports, domain.BetStatusPending, clock.Add(-time.Hour))

	st, err := f.bets.Stats(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "2.01", st.TotalAmount.StringFixed(2))
	assert.Equal(t, int64(2), st.TotalBets)
	assert.Equal(t, "1.01", st.DailyAmount.StringFixed(2))
	assert.Equal(t, int64(1), st.DailyBets)
	assert.Equal(t, "1.01", st.AverageAmount.StringFixed(2))
	assert.True(t, f.cache.Has(cache.StatsKey(f.user.ID)))
}

func TestBetService_Stats_NoBets(t *testing.T) {
	f := newFixture(t)

	st, err := f.bets.Stats(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.True(t, st.AverageAmount.IsZero())
	assert.Zero(t, st.TotalBets)
}

func TestBetService_CanUserBet(t *testing.T) {
	f := newFixture(t)
	f.store.SeedBet(f.user.ID, "2000.00", domain.BetTypeSports, domain.BetStatusPending, clock.Add(-time.Hour))
	f.store.SeedBet(f.user.ID, "2000.00", domain.BetTypeSports, domain.BetStatusPending, clock.Add(-time.Hour))
	ctx := context.Background()

	ok, err := f.bets.CanUserBet(ctx, f.user.ID, d("1000.00"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.bets.CanUserBet(ctx, f.user.ID, d("1000.01"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.bets.CanUserBet(ctx, f.user.ID, d("0.50"))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 2, f.store.BetCount())
	assert.Empty(t, f.pub.Events())

	ok, err = f.bets.CanUserBet(ctx, 999, d("10"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBetService_DescriptionLimitCountsCharacters(t *testing.T) {
	f := newFixture(t)
	accented := strings.Repeat("ã", domain.MaxDescriptionLength) // Two bytes each

	bet, err := f.bets.Create(context.Background(), CreateBet{
		UserID:      f.user.ID,
		Amount:      d("10"),
		Type:        domain.BetTypeSports,
		Description: accented,
	})
	require.NoError(t, err)
	assert.Equal(t, accented, bet.Description)

	longer := accented + "ç"
	_, err = f.bets.Update(context.Background(), bet.ID, UpdateBet{Description: &longer})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	short := strings.Repeat("é", 300)
	updated, err := f.bets.Update(context.Background(), bet.ID, UpdateBet{Description: &short})
	require.NoError(t, err)
	assert.Equal(t, short, updated.Description)
}

type unreachableCache struct{}

func (unreachableCache) Get(context.Context, string, any) (bool, error) {
	return false, errors.New("dial tcp: connection refused")
}

func (unreachableCache) Set(context.Context, string, any) error {
	return errors.New("dial tcp: connection refused")
}

func (unreachableCache) Delete(context.Context, ...string) error {
	return errors.New("dial tcp: connection refused")
}

func TestBetService_CacheOutageIsLogged(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()
	f := newFixture(t)
	f.bets.cache = unreachableCache{}
	f.risk.cache = unreachableCache{}
	ctx := context.Background()

	_, err := f.place(t, "10")
	require.NoError(t, err)
	_, err = f.bets.Stats(ctx, f.user.ID)
	require.NoError(t, err)
	_, err = f.risk.Analyze(ctx, f.user.ID)
	require.NoError(t, err)

	var ops []string
	for _, e := range hook.AllEntries() {
		if e.Message == "Cache unavailable" {
			assert.Equal(t, logrus.WarnLevel, e.Level)
			ops = append(ops, e.Data["op"].(string))
		}
	}
	assert.Equal(t, []string{"invalidate", "store stats", "store alert"}, ops)
}
