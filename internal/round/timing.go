package round

import "time"

// Timings are the pauses the effect chain waits between transitions so the
// presentation layer can animate them.
type Timings struct {
	Confirm   time.Duration // selection bounce before judging is shown
	Shake     time.Duration // mistake shake
	Swap      time.Duration // group cells moving to the first row
	Settle    time.Duration // gap between swap and removal
	Entrance  time.Duration // solved group row appearing
	RevealGap time.Duration // between auto-revealed groups on loss
	Finale    time.Duration // before the game over overlay
	Cooldown  time.Duration // after a guess, before input is accepted again
}

// DefaultTimings mirror the browser animations: a 200ms bounce staggered
// 80ms per tile plus a 300ms pause, a 300ms shake, then swap/removal/entrance.
func DefaultTimings() Timings {
	return Timings{
		Confirm:   200*time.Millisecond + 3*80*time.Millisecond + 300*time.Millisecond,
		Shake:     300 * time.Millisecond,
		Swap:      400 * time.Millisecond,
		Settle:    100 * time.Millisecond,
		Entrance:  500 * time.Millisecond,
		RevealGap: 500 * time.Millisecond,
		Finale:    time.Second,
		Cooldown:  100 * time.Millisecond,
	}
}

// Scale multiplies every pause by f. f <= 0 disables pacing.
func (t Timings) Scale(f float64) Timings {
	if f <= 0 {
		return Timings{}
	}
	s := func(d time.Duration) time.Duration { return time.Duration(float64(d) * f) }
	return Timings{
		Confirm:   s(t.Confirm),
		Shake:     s(t.Shake),
		Swap:      s(t.Swap),
		Settle:    s(t.Settle),
		Entrance:  s(t.Entrance),
		RevealGap: s(t.RevealGap),
		Finale:    s(t.Finale),
		Cooldown:  s(t.Cooldown),
	}
}

// Sleeper blocks for d. Tests swap in a no-op or recorder.
type Sleeper func(d time.Duration)

func realSleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
