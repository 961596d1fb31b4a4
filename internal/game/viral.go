package game

// RandomSource is the subset of *math/rand.Rand the viral controller needs.
type RandomSource interface {
	Float64() float64
}

type ViralState struct {
	Active           bool `json:"active"`
	RemainingSeconds int  `json:"remaining_seconds"`
}

// Viral toggles the temporary production boost.
type Viral struct {
	state ViralState
	rng   RandomSource
}

func NewViral(rng RandomSource) *Viral {
	return &Viral{rng: rng}
}

func (v *Viral) State() ViralState {
	return v.state
}

// Check rolls for activation. It reports whether the event started.
func (v *Viral) Check() bool {
	if v.state.Active {
		return false
	}
	if v.rng.Float64() >= ViralChance {
		return false
	}
	v.state = ViralState{Active: true, RemainingSeconds: ViralDuration}
	return true
}

// Countdown consumes one second. It reports whether the event just ended.
func (v *Viral) Countdown() bool {
	if !v.state.Active {
		return false
	}
	v.state.RemainingSeconds--
	if v.state.RemainingSeconds > 0 {
		return false
	}
	v.state = ViralState{}
	return true
}

func (v *Viral) Boost() float64 {
	if v.state.Active {
		return ViralBoost
	}
	return 1
}
