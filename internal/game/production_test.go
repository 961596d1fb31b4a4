package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func item(duration, views float64) ContentItem {
	return ContentItem{ID: "test", Name: "Test", BaseViews: views, BaseMoney: 10, DurationSeconds: duration}
}

func TestStartRules(t *testing.T) {
	l := NewLedger()
	cat := DefaultCatalog()
	var p Production

	tutorial, _ := cat.Find("tutorial")
	assert.False(t, p.Start(tutorial, l, t0), "locked item")
	assert.True(t, p.Idle())

	vlog, _ := cat.Find("vlog")
	require.True(t, p.Start(vlog, l, t0))
	job := p.Job()
	require.NotNil(t, job)
	assert.Equal(t, "vlog", job.Content.ID)
	assert.Zero(t, job.Progress)
	assert.True(t, job.StartedAt.Equal(t0))

	l.Subscribers = 100
	assert.False(t, p.Start(tutorial, l, t0), "job already running")
	assert.Equal(t, "vlog", p.Job().Content.ID)
}

func TestJobReturnsCopy(t *testing.T) {
	var p Production
	require.True(t, p.Start(item(10, 10), NewLedger(), t0))
	p.Job().Progress = 80
	assert.Zero(t, p.Job().Progress)
}

func TestAdvanceSumsToExactlyOneCompletion(t *testing.T) {
	for _, dt := range []float64{0.1, 0.3, 1, 7} {
		l := NewLedger()
		var p Production
		require.True(t, p.Start(item(21, 100), l, t0))

		completions := 0
		elapsed := 0.0
		for i := 0; i < 1000 && elapsed < 21+dt; i++ {
			if _, ok := p.Step(dt, l, 1); ok {
				completions++
			}
			elapsed += dt
		}
		assert.Equal(t, 1, completions, "dt=%v", dt)
		assert.True(t, p.Idle())
		assert.Equal(t, int64(1), l.VideosPublished)
	}
}

func TestSixtySecondScenario(t *testing.T) {
	l := NewLedger()
	var p Production
	require.True(t, p.Start(item(60, 100), l, t0))

	p.Advance(60)
	assert.Equal(t, 100.0, p.Job().Progress)

	y, ok := p.Complete(l, 1)
	require.True(t, ok)
	assert.Equal(t, 100.0, y.Views)
	assert.Equal(t, 100.0, l.Views)
	assert.Equal(t, 5.0, l.Subscribers)
	assert.False(t, y.Viral)
	assert.True(t, p.Idle())
}

func TestAdvanceClampsAtHundred(t *testing.T) {
	var p Production
	require.True(t, p.Start(item(10, 1), NewLedger(), t0))
	p.Advance(500)
	assert.Equal(t, 100.0, p.Job().Progress)
}

func TestAccelerateNeverCompletes(t *testing.T) {
	var p Production
	assert.False(t, p.Accelerate(), "idle")

	l := NewLedger()
	require.True(t, p.Start(item(10, 50), l, t0))
	require.True(t, p.Accelerate())
	assert.InDelta(t, 5.0, p.Job().Progress, 1e-9)

	for i := 0; i < 100; i++ {
		p.Accelerate()
	}
	assert.Equal(t, accelerateCeiling, p.Job().Progress)
	assert.False(t, p.Accelerate())

	_, ok := p.Complete(l, 1)
	assert.False(t, ok)

	y, ok := p.Step(0.1, l, 1)
	require.True(t, ok)
	assert.Equal(t, 50.0, y.Views)
}

func TestViralBoostAppliesToYieldOnly(t *testing.T) {
	run := func(boost float64) (Yield, *Ledger) {
		l := NewLedger()
		l.upgrade("camera").Level = 2
		var p Production
		require.True(t, p.Start(item(10, 100), l, t0))
		y, ok := p.Step(10, l, boost)
		require.True(t, ok)
		return y, l
	}

	normal, _ := run(1)
	viral, _ := run(ViralBoost)
	assert.InDelta(t, normal.Views*3, viral.Views, 1e-9)
	assert.InDelta(t, normal.Money*3, viral.Money, 1e-9)
	assert.True(t, viral.Viral)
	assert.False(t, normal.Viral)

	// view-rate bonus: camera level 2 gives rate 1, so 100 * 1.1
	assert.InDelta(t, 110.0, normal.Views, 1e-9)

	a, b := NewLedger(), NewLedger()
	a.upgrade("camera").Level = 2
	b.upgrade("camera").Level = 2
	a.ApplyPassiveTick(1)
	b.ApplyPassiveTick(1)
	assert.Equal(t, a.Views, b.Views)
}
