package money_test

import (
	"testing"

	"claimdesk/internal/money"
	"claimdesk/pkg/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSGDAmount(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		rate   string
		want   string
	}{
		{"identity rate", "25.00", "1.0", "25"},
		{"usd conversion", "100.00", "1.3562", "135.62"},
		{"rounds half up", "10.005", "1", "10.01"},
		{"rounds down below half", "10.004", "1", "10"},
		{"zero amount", "0", "1.35", "0"},
		{"zero rate", "42.10", "0", "0"},
		{"negative amount", "-5.00", "1.2", "0"},
		{"negative rate", "5.00", "-1.2", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := money.SGDAmount(dec(tc.amount), dec(tc.rate))
			assert.True(t, got.Equal(dec(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func TestForexRate(t *testing.T) {
	got := money.ForexRate(dec("135.62"), dec("100.00"))
	assert.True(t, got.Equal(dec("1.3562")), "got %s", got)

	got = money.ForexRate(dec("10"), dec("3"))
	assert.True(t, got.Equal(dec("3.3333")), "got %s", got)

	assert.True(t, money.ForexRate(dec("135.62"), decimal.Zero).IsZero())
}

func TestClaimTotalExactAccumulation(t *testing.T) {
	// 0.10 a hundred times must be exactly 10.00, not 9.99999... as it
	// would be with float64 accumulation.
	items := make([]*types.ClaimItem, 0, 100)
	for i := 0; i < 100; i++ {
		items = append(items, &types.ClaimItem{SGDAmount: dec("0.10")})
	}

	total := money.ClaimTotal(items)
	require.True(t, total.Equal(dec("10.00")), "got %s", total)
}

func TestClaimTotalEmpty(t *testing.T) {
	assert.True(t, money.ClaimTotal(nil).IsZero())
}
