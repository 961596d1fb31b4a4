package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRand struct {
	vals []float64
	i    int
}

func (r *fixedRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

func TestViralCheck(t *testing.T) {
	v := NewViral(&fixedRand{vals: []float64{0.5}})
	assert.False(t, v.Check())
	assert.Equal(t, 1.0, v.Boost())

	v = NewViral(&fixedRand{vals: []float64{0.009}})
	require.True(t, v.Check())
	assert.Equal(t, ViralState{Active: true, RemainingSeconds: ViralDuration}, v.State())
	assert.Equal(t, 3.0, v.Boost())

	// an active event is not re-rolled or extended
	v.Countdown()
	assert.False(t, v.Check())
	assert.Equal(t, ViralDuration-1, v.State().RemainingSeconds)
}

func TestViralChanceBoundary(t *testing.T) {
	v := NewViral(&fixedRand{vals: []float64{ViralChance}})
	assert.False(t, v.Check())
}

func TestViralCountdownEnds(t *testing.T) {
	v := NewViral(&fixedRand{vals: []float64{0}})
	assert.False(t, v.Countdown(), "inactive countdown is a no-op")

	require.True(t, v.Check())
	ended := 0
	for i := 0; i < ViralDuration; i++ {
		if v.Countdown() {
			ended++
			assert.Equal(t, ViralDuration-1, i)
		}
	}
	assert.Equal(t, 1, ended)
	assert.False(t, v.State().Active)
	assert.Equal(t, 1.0, v.Boost())
}

func TestNotificationsExpireAfterLifetime(t *testing.T) {
	var n Notifications
	first := n.Enqueue("one", t0)
	second := n.Enqueue("two", t0.Add(time.Second))
	assert.Less(t, first, second)

	active := n.Active(t0.Add(2 * time.Second))
	require.Len(t, active, 2)
	assert.Equal(t, "one", active[0].Text)
	assert.Equal(t, "two", active[1].Text)

	assert.Len(t, n.Active(t0.Add(NotificationLifetime)), 1)
	assert.Equal(t, 1, n.Sweep(t0.Add(NotificationLifetime)))
	assert.Equal(t, 1, n.Len())

	assert.Equal(t, 1, n.Sweep(t0.Add(NotificationLifetime+time.Second)))
	assert.Zero(t, n.Len())
	assert.Zero(t, n.Sweep(t0.Add(time.Hour)))
}
