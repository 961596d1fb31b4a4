package game

import "math"

// Ledger holds current and lifetime resource totals plus owned upgrades.
// Views is cumulative and always equals TotalViewsEver.
type Ledger struct {
	Views             float64
	Subscribers       float64
	Currency          float64
	TotalViewsEver    float64
	TotalCurrencyEver float64
	Upgrades          []Upgrade
	Unlocked          []string
	VideosPublished   int64
	LastSavedAt       int64 // unix millis
}

// NewLedger returns the initial state: zero resources, catalog upgrades at
// level 0 and only the default content unlocked.
func NewLedger() *Ledger {
	return &Ledger{
		Upgrades: DefaultUpgrades(),
		Unlocked: []string{DefaultContentID},
	}
}

func (l *Ledger) Clone() *Ledger {
	out := *l
	out.Upgrades = append([]Upgrade(nil), l.Upgrades...)
	out.Unlocked = append([]string(nil), l.Unlocked...)
	return &out
}

func (l *Ledger) rate(cat Category) float64 {
	var sum float64
	for _, u := range l.Upgrades {
		if u.Category == cat {
			sum += u.Contribution()
		}
	}
	return sum
}

func (l *Ledger) PassiveViewRate() float64 {
	return l.rate(CategoryViews)
}

func (l *Ledger) PassiveSubscriberRate() float64 {
	return l.rate(CategorySubscribers)
}

// MoneyMultiplier layers currency upgrade bonuses on a unit base.
func (l *Ledger) MoneyMultiplier() float64 {
	return 1 + l.rate(CategoryCurrency)
}

// ApplyPassiveTick accrues dt seconds of passive views. Subscribers only grow
// from published videos, and passive accrual is never viral-boosted.
func (l *Ledger) ApplyPassiveTick(dt float64) {
	if dt <= 0 {
		return
	}
	views := l.PassiveViewRate() * dt
	l.Views += views
	l.TotalViewsEver += views
}

func (l *Ledger) upgrade(id string) *Upgrade {
	for i := range l.Upgrades {
		if l.Upgrades[i].ID == id {
			return &l.Upgrades[i]
		}
	}
	return nil
}

// Purchase buys one level of the upgrade if it is affordable. Unaffordable or
// unknown upgrades leave the ledger untouched.
func (l *Ledger) Purchase(id string) bool {
	u := l.upgrade(id)
	if u == nil {
		return false
	}
	cost := u.Cost()
	if l.Currency < cost {
		return false
	}
	l.Currency -= cost
	u.Level++
	return true
}

// CreditProduction commits a production yield and returns the subscribers gained.
func (l *Ledger) CreditProduction(viewsGained, moneyGained float64) float64 {
	subs := math.Max(0, viewsGained*subscribersPerView*(1+l.PassiveSubscriberRate()*subscriberRateYieldBonus))
	l.Views += viewsGained
	l.TotalViewsEver += viewsGained
	l.Currency += moneyGained
	l.TotalCurrencyEver += moneyGained
	l.Subscribers += subs
	l.VideosPublished++
	return subs
}

func (l *Ledger) IsUnlocked(id string) bool {
	for _, u := range l.Unlocked {
		if u == id {
			return true
		}
	}
	return false
}

// UnlockReached records every catalog item whose subscriber threshold is met
// and returns the ones that were newly unlocked.
func (l *Ledger) UnlockReached(catalog Catalog) []ContentItem {
	var fresh []ContentItem
	for _, item := range catalog {
		if l.Subscribers < item.UnlockedAtSubscribers || l.IsUnlocked(item.ID) {
			continue
		}
		l.Unlocked = append(l.Unlocked, item.ID)
		fresh = append(fresh, item)
	}
	return fresh
}
