package clock

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Handler receives the scheduled firing time and the fixed period of its job.
type Handler func(at time.Time, dt time.Duration)

type job struct {
	id     uint64
	name   string
	period time.Duration
	next   time.Time
	fn     Handler
}

// Scheduler dispatches fixed-period jobs against a Clock. Dispatch calls are
// serialized, so handlers never overlap each other.
type Scheduler struct {
	clk Clock
	log *slog.Logger

	mu     sync.Mutex
	jobs   []*job
	nextID uint64

	dispatchMu sync.Mutex
}

func NewScheduler(clk Clock, logger *slog.Logger) *Scheduler {
	if clk == nil {
		clk = Real{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{clk: clk, log: logger}
}

// Every registers fn to run once per period, starting one period from now.
// The returned func unregisters the job; calling it more than once is harmless.
func (s *Scheduler) Every(name string, period time.Duration, fn Handler) func() {
	if period <= 0 {
		panic("clock: non-positive period for job " + name)
	}
	s.mu.Lock()
	s.nextID++
	j := &job{
		id:     s.nextID,
		name:   name,
		period: period,
		next:   s.clk.Now().Add(period),
		fn:     fn,
	}
	s.jobs = append(s.jobs, j)
	s.mu.Unlock()

	return func() { s.cancel(j.id) }
}

func (s *Scheduler) cancel(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, j := range s.jobs {
		if j.id == id {
			s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
			return
		}
	}
}

// Jobs returns the names of the registered jobs in registration order.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j.name)
	}
	return out
}

// Dispatch runs every firing due at or before now, oldest first. Firings that
// share a time run in registration order. It returns the number of handler calls.
func (s *Scheduler) Dispatch(now time.Time) int {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	fired := 0
	for {
		j, at, ok := s.popDue(now)
		if !ok {
			return fired
		}
		j.fn(at, j.period)
		fired++
	}
}

// popDue picks the earliest due job and moves its schedule forward by one period.
func (s *Scheduler) popDue(now time.Time) (*job, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due *job
	for _, j := range s.jobs {
		if j.next.After(now) {
			continue
		}
		if due == nil || j.next.Before(due.next) {
			due = j
		}
	}
	if due == nil {
		return nil, time.Time{}, false
	}
	at := due.next
	due.next = due.next.Add(due.period)
	return due, at, true
}

// Run drives Dispatch from a ticker until ctx is done. The resolution should not
// exceed the shortest job period.
func (s *Scheduler) Run(ctx context.Context, resolution time.Duration) error {
	ticker := time.NewTicker(resolution)
	defer ticker.Stop()

	s.log.Debug("scheduler started", "resolution", resolution.String(), "jobs", s.Jobs())
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.Dispatch(s.clk.Now())
		}
	}
}

// Stop unregisters every job. Later Dispatch calls do nothing until new jobs are added.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = nil
}
