package reconcile

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Retry delay policy names accepted in configuration.
const (
	PolicyConstant    = "constant"
	PolicyExponential = "exponential"
)

// ConstantPolicy waits delay between every attempt.
func ConstantPolicy(delay time.Duration) func() backoff.BackOff {
	return func() backoff.BackOff {
		return backoff.NewConstantBackOff(delay)
	}
}

// ExponentialPolicy starts at initial and grows up to maxDelay. The attempt
// bound, not elapsed time, ends the loop, so MaxElapsedTime is disabled.
func ExponentialPolicy(initial, maxDelay time.Duration) func() backoff.BackOff {
	return func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		if initial > 0 {
			b.InitialInterval = initial
		}
		if maxDelay > 0 {
			b.MaxInterval = maxDelay
		}
		b.MaxElapsedTime = 0
		b.Reset()
		return b
	}
}

// PolicyByName resolves a configured policy name.
func PolicyByName(name string, delay, maxDelay time.Duration) (func() backoff.BackOff, error) {
	switch name {
	case "", PolicyConstant:
		return ConstantPolicy(delay), nil
	case PolicyExponential:
		return ExponentialPolicy(delay, maxDelay), nil
	default:
		return nil, fmt.Errorf("unknown backoff policy %q", name)
	}
}
