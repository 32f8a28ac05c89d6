package dllcomm

// Countdown is a signed tick counter, the shape backing tc/tca,
// idle-event nextevent fields, and session counters. It is grounded on
// the same start/clock/expire pattern as a wall-clock timeout timer, but
// counts down in scheduler ticks rather than milliseconds since ticks,
// not time, are what the dispatcher and radio driver exchange.
type Countdown struct {
	value int32
}

// NewCountdown returns a countdown armed with the given tick value. A
// negative or zero value is already expired.
func NewCountdown(ticks int32) *Countdown {
	return &Countdown{value: ticks}
}

// Set rearms the countdown to a new value.
func (c *Countdown) Set(ticks int32) { c.value = ticks }

// Value returns the current remaining ticks, which may be negative.
func (c *Countdown) Value() int32 { return c.value }

// Tick subtracts elapsed ticks from the countdown.
func (c *Countdown) Tick(elapsed int32) { c.value -= elapsed }

// Expired reports whether the countdown has reached zero or gone negative.
func (c *Countdown) Expired() bool { return c.value <= 0 }
