package game

import (
	"context"
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"sync"
	"time"

	"vidtycoon/internal/clock"
)

// Persister stores the ledger after every change.
type Persister interface {
	Save(l *Ledger, now time.Time) (bool, error)
}

// ScoreSink receives periodic best-effort score reports.
type ScoreSink interface {
	PushScore(ctx context.Context, score Score) error
}

type Periods struct {
	Tick           time.Duration
	ViralCheck     time.Duration
	ViralCountdown time.Duration
	ScorePush      time.Duration
}

func DefaultPeriods() Periods {
	return Periods{
		Tick:           TickEvery,
		ViralCheck:     ViralCheckEvery,
		ViralCountdown: ViralCountdownEvery,
		ScorePush:      ScorePushEvery,
	}
}

type Options struct {
	Clock   clock.Clock
	Logger  *slog.Logger
	Rand    RandomSource
	Catalog Catalog
	Ledger  *Ledger
	Persist Persister
	Scores  ScoreSink
	Periods Periods
	// PushTimeout bounds each fire-and-forget score push.
	PushTimeout time.Duration
}

// Session owns the whole game aggregate. Scheduled handlers and player actions
// run as non-overlapping steps under one mutex.
type Session struct {
	mu      sync.Mutex
	clk     clock.Clock
	log     *slog.Logger
	catalog Catalog
	ledger  *Ledger
	prod    Production
	viral   *Viral
	// viralAt is when the current event started; a countdown firing at the
	// same instant must not consume its first second.
	viralAt time.Time
	notes   Notifications
	persist Persister
	scores  ScoreSink
	periods Periods

	pushTimeout time.Duration
	pushes      sync.WaitGroup
	cancels     []func()
}

func NewSession(opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Rand == nil {
		opts.Rand = mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	}
	if len(opts.Catalog) == 0 {
		opts.Catalog = DefaultCatalog()
	}
	if opts.Ledger == nil {
		opts.Ledger = NewLedger()
	}
	def := DefaultPeriods()
	if opts.Periods.Tick <= 0 {
		opts.Periods.Tick = def.Tick
	}
	if opts.Periods.ViralCheck <= 0 {
		opts.Periods.ViralCheck = def.ViralCheck
	}
	if opts.Periods.ViralCountdown <= 0 {
		opts.Periods.ViralCountdown = def.ViralCountdown
	}
	if opts.Periods.ScorePush <= 0 {
		opts.Periods.ScorePush = def.ScorePush
	}
	if opts.PushTimeout <= 0 {
		opts.PushTimeout = 10 * time.Second
	}
	s := &Session{
		clk:         opts.Clock,
		log:         opts.Logger,
		catalog:     opts.Catalog,
		ledger:      opts.Ledger,
		viral:       NewViral(opts.Rand),
		persist:     opts.Persist,
		scores:      opts.Scores,
		periods:     opts.Periods,
		pushTimeout: opts.PushTimeout,
	}
	s.ledger.UnlockReached(s.catalog)
	return s
}

// Attach registers the session's periodic work on sched. Close undoes it.
func (s *Session) Attach(sched *clock.Scheduler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels = append(s.cancels,
		sched.Every("tick", s.periods.Tick, s.Tick),
		sched.Every("viral-check", s.periods.ViralCheck, func(at time.Time, _ time.Duration) { s.CheckViral(at) }),
		sched.Every("viral-countdown", s.periods.ViralCountdown, func(at time.Time, _ time.Duration) { s.CountdownViral(at) }),
	)
	if s.scores != nil {
		s.cancels = append(s.cancels, sched.Every("score-push", s.periods.ScorePush, func(time.Time, time.Duration) { s.PushScore() }))
	}
}

// Close unregisters all periodic work and writes a final save.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
	s.saveLocked(s.clk.Now())
}

// WaitPushes blocks until in-flight score pushes have returned.
func (s *Session) WaitPushes() {
	s.pushes.Wait()
}

// Tick is the fixed-period simulation step.
func (s *Session) Tick(at time.Time, dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes.Sweep(at)
	secs := dt.Seconds()
	if y, ok := s.prod.Step(secs, s.ledger, s.viral.Boost()); ok {
		s.announceYield(y, at)
	}
	s.ledger.ApplyPassiveTick(secs)
	s.announceUnlocks(at)
	s.saveLocked(at)
}

func (s *Session) CheckViral(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viral.Check() {
		s.viralAt = at
		s.notes.Enqueue(fmt.Sprintf("You went viral! %gx production for %ds", ViralBoost, ViralDuration), at)
		s.log.Debug("viral event started")
	}
}

func (s *Session) CountdownViral(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !at.After(s.viralAt) {
		return
	}
	if s.viral.Countdown() {
		s.notes.Enqueue("The viral wave is over", at)
	}
}

// PushScore reports the current score without waiting for the result.
func (s *Session) PushScore() {
	if s.scores == nil {
		return
	}
	s.mu.Lock()
	score := Score{Subscribers: s.ledger.Subscribers, Views: s.ledger.Views}
	s.mu.Unlock()

	s.pushes.Add(1)
	go func() {
		defer s.pushes.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.pushTimeout)
		defer cancel()
		if err := s.scores.PushScore(ctx, score); err != nil {
			s.log.Debug("score push failed", "err", err)
		}
	}()
}

func (s *Session) StartProduction(contentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.catalog.Find(contentID)
	if !ok {
		return false
	}
	now := s.clk.Now()
	if !s.prod.Start(item, s.ledger, now) {
		return false
	}
	s.saveLocked(now)
	return true
}

func (s *Session) Accelerate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prod.Accelerate()
}

func (s *Session) Purchase(upgradeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ledger.Purchase(upgradeID) {
		return false
	}
	now := s.clk.Now()
	if u := s.ledger.upgrade(upgradeID); u != nil {
		s.notes.Enqueue(fmt.Sprintf("Bought %s (level %d)", u.Name, u.Level), now)
	}
	s.saveLocked(now)
	return true
}

// Ledger returns a copy of the ledger.
func (s *Session) Ledger() *Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	l := s.ledger
	out := Snapshot{
		Views:             l.Views,
		Subscribers:       l.Subscribers,
		Currency:          l.Currency,
		TotalViewsEver:    l.TotalViewsEver,
		TotalCurrencyEver: l.TotalCurrencyEver,
		VideosPublished:   l.VideosPublished,
		LastSavedAt:       l.LastSavedAt,
		ViewRate:          l.PassiveViewRate(),
		DisplayViewRate:   l.PassiveViewRate() * s.viral.Boost(),
		SubscriberRate:    l.PassiveSubscriberRate(),
		SubscriberBonus:   1 + l.PassiveSubscriberRate()*subscriberRateYieldBonus,
		MoneyMultiplier:   l.MoneyMultiplier(),
		Job:               s.prod.Job(),
		Viral:             s.viral.State(),
		Notifications:     s.notes.Active(now),
	}
	for _, u := range l.Upgrades {
		cost := u.Cost()
		out.Upgrades = append(out.Upgrades, UpgradeView{Upgrade: u, Cost: cost, Affordable: l.Currency >= cost})
	}
	for _, item := range s.catalog {
		out.Content = append(out.Content, ContentView{ContentItem: item, Unlocked: l.Subscribers >= item.UnlockedAtSubscribers})
	}
	return out
}

func (s *Session) announceYield(y Yield, at time.Time) {
	text := fmt.Sprintf("Published %s: +%.0f views, +%.1f subscribers, +$%.2f", y.Content.Name, y.Views, y.Subscribers, y.Money)
	if y.Viral {
		text += " (viral!)"
	}
	s.notes.Enqueue(text, at)
}

func (s *Session) announceUnlocks(at time.Time) {
	for _, item := range s.ledger.UnlockReached(s.catalog) {
		s.notes.Enqueue("Unlocked new content: "+item.Name, at)
	}
}

func (s *Session) saveLocked(now time.Time) {
	if s.persist == nil {
		return
	}
	if _, err := s.persist.Save(s.ledger, now); err != nil {
		s.log.Warn("save failed", "err", err)
	}
}
