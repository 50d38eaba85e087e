package domain

import "github.com/jonboulle/clockwork"

// clock stamps processed_at and supplies the year for warnings without a
// message number. Tests freeze it via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
