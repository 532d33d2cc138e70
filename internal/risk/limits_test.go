package risk

import (
	"errors"
	"testing"

	"consciousbet/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCheckBet(t *testing.T) {
	tests := []struct {
		name       string
		amount     string
		dailyTotal string
		dailyCount int64
		wantKind   RejectionKind
	}{
		{name: "accepted", amount: "100.00", dailyTotal: "0", dailyCount: 0},
		{name: "exact minimum", amount: "1.00", dailyTotal: "0", dailyCount: 0},
		{name: "exact single limit", amount: "2000.00", dailyTotal: "0", dailyCount: 0},
		{name: "below minimum", amount: "0.99", dailyTotal: "0", dailyCount: 0, wantKind: BelowMinimum},
		{name: "zero", amount: "0", dailyTotal: "0", dailyCount: 0, wantKind: BelowMinimum},
		{name: "negative", amount: "-5", dailyTotal: "0", dailyCount: 0, wantKind: BelowMinimum},
		{name: "above single limit", amount: "2000.01", dailyTotal: "0", dailyCount: 0, wantKind: AboveSingleLimit},
		{name: "daily total reached exactly", amount: "1000.00", dailyTotal: "4000.00", dailyCount: 3},
		{name: "daily total exceeded", amount: "1000.01", dailyTotal: "4000.00", dailyCount: 3, wantKind: AboveDailyLimit},
		{name: "count at cap", amount: "10.00", dailyTotal: "50.00", dailyCount: 20, wantKind: DailyCountExceeded},
		{name: "count below cap", amount: "10.00", dailyTotal: "50.00", dailyCount: 19},
		{name: "amount bounds before daily", amount: "2500.00", dailyTotal: "4900.00", dailyCount: 25, wantKind: AboveSingleLimit},
		{name: "daily amount before count", amount: "200.00", dailyTotal: "4900.00", dailyCount: 25, wantKind: AboveDailyLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckBet(d(tt.amount), d(tt.dailyTotal), tt.dailyCount)
			if tt.wantKind == "" {
				assert.NoError(t, err)
				return
			}
			var le *LimitError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.wantKind, le.Kind)
			assert.True(t, errors.Is(err, domain.ErrValidation))
		})
	}
}

func TestCheckBet_DailyLimitIff(t *testing.T) {
	// T + a > 5000 must be the only thing separating accept from AboveDailyLimit
	for _, total := range []string{"0", "3000.00", "4999.00", "4999.99", "5000.00"} {
		for _, amount := range []string{"1.00", "1.01", "500.00", "2000.00"} {
			err := CheckBet(d(amount), d(total), 0)
			over := d(total).Add(d(amount)).GreaterThan(MaxDailyAmount)
			var le *LimitError
			if over {
				require.ErrorAs(t, err, &le, "total=%s amount=%s", total, amount)
				assert.Equal(t, AboveDailyLimit, le.Kind)
			} else {
				assert.NoError(t, err, "total=%s amount=%s", total, amount)
			}
		}
	}
}

func TestLimitError_Messages(t *testing.T) {
	err := CheckBet(d("150"), d("4900.5"), 2)
	require.Error(t, err)
	assert.Equal(t, "Daily betting limit exceeded. Limit: R$ 5000.00, Current: R$ 4900.50, Attempted: R$ 150.00", err.Error())

	err = CheckBet(d("10"), d("0"), 20)
	require.Error(t, err)
	assert.Equal(t, "Daily bet count limit exceeded. Limit: 20, Current: 20", err.Error())

	err = CheckAmount(d("0.5"))
	require.Error(t, err)
	assert.Equal(t, "Minimum bet amount is R$ 1.00", err.Error())

	err = CheckAmount(d("3000"))
	require.Error(t, err)
	assert.Equal(t, "Maximum single bet amount is R$ 2000.00", err.Error())
}
