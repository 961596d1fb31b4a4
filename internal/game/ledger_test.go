package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpgradeCost(t *testing.T) {
	tests := []struct {
		base  float64
		mult  float64
		level int
		want  float64
	}{
		{base: 10, mult: 1.15, level: 0, want: 10},
		{base: 10, mult: 1.15, level: 1, want: 11},
		{base: 10, mult: 1.15, level: 3, want: 15},
		{base: 500, mult: 1.25, level: 2, want: 781},
		{base: 10, mult: 1.15, level: -4, want: 10},
	}
	for _, tc := range tests {
		got := UpgradeCost(tc.base, tc.mult, tc.level)
		if got != tc.want {
			t.Fatalf("cost(%v,%v,%d) = %v, want %v", tc.base, tc.mult, tc.level, got, tc.want)
		}
	}
}

func TestUpgradeCostStrictlyIncreasing(t *testing.T) {
	for _, u := range DefaultUpgrades() {
		for level := 0; level < 60; level++ {
			cur := UpgradeCost(u.BaseCost, u.Multiplier, level)
			next := UpgradeCost(u.BaseCost, u.Multiplier, level+1)
			require.Greater(t, next, cur, "%s level %d", u.ID, level)
			require.Equal(t, math.Floor(u.BaseCost*math.Pow(u.Multiplier, float64(level))), cur)
		}
	}
}

func TestPurchaseInsufficientFundsLeavesStateUnchanged(t *testing.T) {
	l := NewLedger()
	l.Currency = 9.99
	before := l.Clone()

	assert.False(t, l.Purchase("camera"))
	assert.Equal(t, before, l)
}

func TestPurchaseDeductsExactCost(t *testing.T) {
	l := NewLedger()
	l.Currency = 100

	require.True(t, l.Purchase("camera"))
	assert.Equal(t, 90.0, l.Currency)
	assert.Equal(t, 1, l.upgrade("camera").Level)

	require.True(t, l.Purchase("camera"))
	assert.Equal(t, 79.0, l.Currency)
	assert.Equal(t, 2, l.upgrade("camera").Level)
}

func TestPurchaseUnknownUpgrade(t *testing.T) {
	l := NewLedger()
	l.Currency = 1e9
	assert.False(t, l.Purchase("time-machine"))
	assert.Equal(t, 1e9, l.Currency)
}

func TestPassiveRates(t *testing.T) {
	l := NewLedger()
	assert.Zero(t, l.PassiveViewRate())
	assert.Zero(t, l.PassiveSubscriberRate())
	assert.Equal(t, 1.0, l.MoneyMultiplier())

	l.upgrade("camera").Level = 2
	l.upgrade("editing").Level = 1
	l.upgrade("thumbnails").Level = 5
	l.upgrade("sponsors").Level = 3

	assert.InDelta(t, 4.0, l.PassiveViewRate(), 1e-9)
	assert.InDelta(t, 1.0, l.PassiveSubscriberRate(), 1e-9)
	assert.InDelta(t, 1.3, l.MoneyMultiplier(), 1e-9)
}

func TestApplyPassiveTick(t *testing.T) {
	l := NewLedger()
	l.upgrade("camera").Level = 2
	l.upgrade("thumbnails").Level = 5

	l.ApplyPassiveTick(0.5)
	assert.InDelta(t, 0.5, l.Views, 1e-9)
	assert.InDelta(t, 0.5, l.TotalViewsEver, 1e-9)
	assert.Zero(t, l.Subscribers)
	assert.Zero(t, l.Currency)

	l.ApplyPassiveTick(10)
	assert.Zero(t, l.Subscribers, "subscribers only come from production")

	l.ApplyPassiveTick(0)
	l.ApplyPassiveTick(-1)
	assert.InDelta(t, 10.5, l.Views, 1e-9)
}

func TestCreditProduction(t *testing.T) {
	l := NewLedger()
	subs := l.CreditProduction(100, 10)

	assert.Equal(t, 5.0, subs)
	assert.Equal(t, 100.0, l.Views)
	assert.Equal(t, 100.0, l.TotalViewsEver)
	assert.Equal(t, 10.0, l.Currency)
	assert.Equal(t, 10.0, l.TotalCurrencyEver)
	assert.Equal(t, 5.0, l.Subscribers)
	assert.Equal(t, int64(1), l.VideosPublished)
}

func TestUnlockReached(t *testing.T) {
	l := NewLedger()
	assert.Empty(t, l.UnlockReached(DefaultCatalog()))
	assert.Equal(t, []string{"vlog"}, l.Unlocked)

	l.Subscribers = 60
	fresh := l.UnlockReached(DefaultCatalog())
	require.Len(t, fresh, 2)
	assert.Equal(t, "tutorial", fresh[0].ID)
	assert.Equal(t, "review", fresh[1].ID)
	assert.True(t, l.IsUnlocked("review"))
	assert.False(t, l.IsUnlocked("collab"))

	assert.Empty(t, l.UnlockReached(DefaultCatalog()))
}

func TestCloneIsIndependent(t *testing.T) {
	l := NewLedger()
	c := l.Clone()
	c.upgrade("camera").Level = 4
	c.Unlocked[0] = "changed"

	assert.Zero(t, l.upgrade("camera").Level)
	assert.Equal(t, "vlog", l.Unlocked[0])
}
