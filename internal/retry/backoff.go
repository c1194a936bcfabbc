package retry

import (
	"math"
	"math/rand/v2"
	"time"
)

// BaseDelay is the capped exponential delay before jitter:
// min(MaxDelay, InitialDelay * BackoffMultiplier^attempt). It never
// decreases as attempt grows.
func (c Config) BaseDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := float64(c.InitialDelay) * math.Pow(c.BackoffMultiplier, float64(attempt))
	if math.IsInf(d, 1) || math.IsNaN(d) || d > float64(c.MaxDelay) {
		return c.MaxDelay
	}
	return time.Duration(d)
}

// Delay adds jitter to BaseDelay. u is a uniform sample from [0,1); the result
// is at most MaxDelay*(1+JitterFactor).
func (c Config) Delay(attempt int, u float64) time.Duration {
	base := c.BaseDelay(attempt)
	u = min(max(u, 0), 1)
	return base + time.Duration(c.JitterFactor*u*float64(base))
}

// CalculateDelay is Delay with a random jitter sample.
func (c Config) CalculateDelay(attempt int) time.Duration {
	return c.Delay(attempt, rand.Float64())
}
