package random

import (
	"math"
	"math/rand"
	"time"
)

// Randomize applies ±percent randomization to value
// Example: Randomize(100, 1.0) returns value in range [99, 101]
func Randomize(value float64, percent float64) float64 {
	if percent <= 0 {
		return value
	}

	variance := value * (percent / 100.0)

	// offset in range [-variance, +variance]
	offset := (rand.Float64()*2 - 1) * variance

	return value + offset
}

// Jitter spreads d by ±percent, rounded to whole seconds and never negative
func Jitter(d time.Duration, percent float64) time.Duration {
	jittered := Randomize(d.Seconds(), percent)
	if jittered < 0 {
		jittered = 0
	}
	return time.Duration(math.Round(jittered)) * time.Second
}
