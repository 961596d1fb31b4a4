package game

import (
	"math"
	"time"
)

const (
	TickEvery           = 100 * time.Millisecond
	ViralCheckEvery     = 10 * time.Second
	ViralCountdownEvery = time.Second
	ScorePushEvery      = 30 * time.Second

	ViralChance   = 0.01
	ViralDuration = 15 // seconds
	ViralBoost    = 3.0

	NotificationLifetime = 3 * time.Second

	// AccelerateSeconds is how much simulated production time one manual click is worth.
	AccelerateSeconds = 0.5
	// accelerateCeiling keeps clicks from completing a job on their own.
	accelerateCeiling = 99.9
	// progressEpsilon absorbs float drift when many small steps sum to a duration.
	progressEpsilon = 1e-9

	// Per-point bonuses applied to production yield.
	viewRateYieldBonus       = 0.1
	subscriberRateYieldBonus = 0.1
	subscribersPerView       = 0.05
)

type Category string

const (
	CategoryViews       Category = "views"
	CategoryCurrency    Category = "currency"
	CategorySubscribers Category = "subscribers"
)

// UpgradeCost is the purchase price of an upgrade at the given level.
func UpgradeCost(baseCost, multiplier float64, level int) float64 {
	if level < 0 {
		level = 0
	}
	return math.Floor(baseCost * math.Pow(multiplier, float64(level)))
}
