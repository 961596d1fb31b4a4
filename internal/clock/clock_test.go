package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestRealNow(t *testing.T) {
	if (Real{}).Now().IsZero() {
		t.Fatalf("expected non-zero time")
	}
}

func TestFakeAdvance(t *testing.T) {
	clk := NewFake(epoch)
	assert.True(t, clk.Now().Equal(epoch))

	got := clk.Advance(1500 * time.Millisecond)
	want := epoch.Add(1500 * time.Millisecond)
	assert.True(t, got.Equal(want))
	assert.True(t, clk.Now().Equal(want))

	clk.Set(epoch)
	assert.True(t, clk.Now().Equal(epoch))
}

func TestSchedulerDispatchCounts(t *testing.T) {
	clk := NewFake(epoch)
	s := NewScheduler(clk, nil)

	var fast, slow int
	s.Every("fast", 100*time.Millisecond, func(time.Time, time.Duration) { fast++ })
	s.Every("slow", time.Second, func(time.Time, time.Duration) { slow++ })

	assert.Equal(t, 0, s.Dispatch(clk.Now()))

	clk.Advance(99 * time.Millisecond)
	assert.Equal(t, 0, s.Dispatch(clk.Now()))

	clk.Advance(time.Millisecond)
	assert.Equal(t, 1, s.Dispatch(clk.Now()))

	clk.Advance(900 * time.Millisecond)
	fired := s.Dispatch(clk.Now())
	assert.Equal(t, 10, fired)
	assert.Equal(t, 10, fast)
	assert.Equal(t, 1, slow)
}

func TestSchedulerDispatchIsChronological(t *testing.T) {
	clk := NewFake(epoch)
	s := NewScheduler(clk, nil)

	var order []string
	s.Every("a", 300*time.Millisecond, func(time.Time, time.Duration) { order = append(order, "a") })
	s.Every("b", 200*time.Millisecond, func(time.Time, time.Duration) { order = append(order, "b") })

	clk.Advance(600 * time.Millisecond)
	s.Dispatch(clk.Now())

	// b@200 a@300 b@400 a@600 b@600 (tie broken by registration order)
	assert.Equal(t, []string{"b", "a", "b", "a", "b"}, order)
}

func TestSchedulerHandlerReceivesFiringTimeAndPeriod(t *testing.T) {
	clk := NewFake(epoch)
	s := NewScheduler(clk, nil)

	var times []time.Time
	var periods []time.Duration
	s.Every("tick", 250*time.Millisecond, func(at time.Time, dt time.Duration) {
		times = append(times, at)
		periods = append(periods, dt)
	})

	clk.Advance(time.Second)
	s.Dispatch(clk.Now())

	require.Len(t, times, 4)
	assert.True(t, times[0].Equal(epoch.Add(250*time.Millisecond)))
	assert.True(t, times[3].Equal(epoch.Add(time.Second)))
	for _, p := range periods {
		assert.Equal(t, 250*time.Millisecond, p)
	}
}

func TestSchedulerCancelAndStop(t *testing.T) {
	clk := NewFake(epoch)
	s := NewScheduler(clk, nil)

	var a, b int
	cancelA := s.Every("a", time.Second, func(time.Time, time.Duration) { a++ })
	s.Every("b", time.Second, func(time.Time, time.Duration) { b++ })
	assert.Equal(t, []string{"a", "b"}, s.Jobs())

	cancelA()
	cancelA()
	clk.Advance(time.Second)
	s.Dispatch(clk.Now())
	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)

	s.Stop()
	assert.Empty(t, s.Jobs())
	clk.Advance(5 * time.Second)
	assert.Equal(t, 0, s.Dispatch(clk.Now()))
	assert.Equal(t, 1, b)
}

func TestSchedulerCancelFromHandler(t *testing.T) {
	clk := NewFake(epoch)
	s := NewScheduler(clk, nil)

	calls := 0
	var cancel func()
	cancel = s.Every("once", time.Second, func(time.Time, time.Duration) {
		calls++
		cancel()
	})

	clk.Advance(10 * time.Second)
	s.Dispatch(clk.Now())
	assert.Equal(t, 1, calls)
}

func TestSchedulerRejectsNonPositivePeriod(t *testing.T) {
	s := NewScheduler(NewFake(epoch), nil)
	assert.Panics(t, func() {
		s.Every("bad", 0, func(time.Time, time.Duration) {})
	})
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	s := NewScheduler(Real{}, nil)
	fired := make(chan struct{}, 1)
	s.Every("tick", 5*time.Millisecond, func(time.Time, time.Duration) {
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, 5*time.Millisecond) }()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected at least one firing")
	}
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatalf("scheduler did not stop")
	}
}
