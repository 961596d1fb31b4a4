package game

import (
	"math"
	"time"
)

// Job is the single in-flight production.
type Job struct {
	Content   ContentItem
	Progress  float64 // percent, [0,100]
	StartedAt time.Time
}

// Yield is what a completed job committed to the ledger.
type Yield struct {
	Content     ContentItem
	Views       float64
	Money       float64
	Subscribers float64
	Viral       bool
}

// Production is the production state machine. A nil job means Idle.
type Production struct {
	job *Job
}

func (p *Production) Idle() bool {
	return p.job == nil
}

// Job returns a copy of the active job, or nil when idle.
func (p *Production) Job() *Job {
	if p.job == nil {
		return nil
	}
	j := *p.job
	return &j
}

// Start begins producing item. It is a no-op while a job is active or when the
// ledger has not reached the item's subscriber threshold.
func (p *Production) Start(item ContentItem, l *Ledger, now time.Time) bool {
	if p.job != nil {
		return false
	}
	if l.Subscribers < item.UnlockedAtSubscribers {
		return false
	}
	p.job = &Job{Content: item, StartedAt: now}
	return true
}

// Advance adds dt seconds of production time.
func (p *Production) Advance(dt float64) {
	if p.job == nil || dt <= 0 {
		return
	}
	next := p.job.Progress + dt/p.job.Content.DurationSeconds*100
	if next >= 100-progressEpsilon {
		next = 100
	}
	p.job.Progress = next
}

// Accelerate applies one manual click. Clicks never finish a job by themselves.
func (p *Production) Accelerate() bool {
	if p.job == nil {
		return false
	}
	if p.job.Progress >= accelerateCeiling {
		return false
	}
	step := AccelerateSeconds / p.job.Content.DurationSeconds * 100
	p.job.Progress = math.Min(accelerateCeiling, p.job.Progress+step)
	return true
}

// Complete commits the active job if it has reached 100 and returns to Idle.
func (p *Production) Complete(l *Ledger, viralBoost float64) (Yield, bool) {
	if p.job == nil || p.job.Progress < 100 {
		return Yield{}, false
	}
	item := p.job.Content
	p.job = nil

	views := item.BaseViews * (1 + l.PassiveViewRate()*viewRateYieldBonus) * viralBoost
	money := item.BaseMoney * l.MoneyMultiplier() * viralBoost
	subs := l.CreditProduction(views, money)
	return Yield{
		Content:     item,
		Views:       views,
		Money:       money,
		Subscribers: subs,
		Viral:       viralBoost > 1,
	}, true
}

// Step runs one scheduler tick: a completion check, the time increment, then a
// second check so a job reaching 100 commits in the same tick.
func (p *Production) Step(dt float64, l *Ledger, viralBoost float64) (Yield, bool) {
	if y, ok := p.Complete(l, viralBoost); ok {
		return y, true
	}
	p.Advance(dt)
	return p.Complete(l, viralBoost)
}
