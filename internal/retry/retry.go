// Package retry holds the one retry policy used for session probing.
package retry

import (
	"context"
	"errors"
	"time"

	"trainerhub/app/internal/config"

	"github.com/cenkalti/backoff/v5"
)

// Policy bounds how often and how patiently an operation is retried.
// Delays grow exponentially from BaseDelay and are capped at MaxDelay.
// Jitter is the randomization factor applied to each delay (0 disables it).
type Policy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Jitter    float64
}

// Standard suits clients that write the session cookie promptly.
func Standard() Policy {
	return Policy{Attempts: 3, BaseDelay: 500 * time.Millisecond, MaxDelay: 500 * time.Millisecond}
}

// Patient gives slow cookie-write clients more time before giving up.
func Patient() Policy {
	return Policy{Attempts: 6, BaseDelay: 500 * time.Millisecond, MaxDelay: 3 * time.Second}
}

// FromConfig builds a policy from the probe section of the config.
func FromConfig(c config.ProbeConfig) Policy {
	return Policy{Attempts: c.Attempts, BaseDelay: c.BaseDelay, MaxDelay: c.MaxDelay, Jitter: c.Jitter}
}

func (p Policy) normalized() Policy {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.BaseDelay < 0 {
		p.BaseDelay = 0
	}
	if p.MaxDelay < p.BaseDelay {
		p.MaxDelay = p.BaseDelay
	}
	if p.Jitter < 0 {
		p.Jitter = 0
	}
	if p.Jitter > 1 {
		p.Jitter = 1
	}
	return p
}

// MaxWait is an upper bound on the total time spent sleeping between attempts.
func (p Policy) MaxWait() time.Duration {
	p = p.normalized()
	var total time.Duration
	delay := p.BaseDelay
	for i := 1; i < p.Attempts; i++ {
		d := delay
		if d > p.MaxDelay {
			d = p.MaxDelay
		}
		total += d + time.Duration(float64(d)*p.Jitter)
		delay *= 2
	}
	return total
}

// Permanent marks err as not worth retrying. Do returns the wrapped error.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op until it succeeds, returns a Permanent error, the policy's
// attempts are used up, or ctx is done. The last error is returned; on
// cancellation that is ctx.Err().
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	p = p.normalized()
	if err := ctx.Err(); err != nil {
		return err
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.BaseDelay
	eb.MaxInterval = p.MaxDelay
	eb.Multiplier = 2
	eb.RandomizationFactor = p.Jitter
	eb.Reset()

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		if err := ctx.Err(); err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, op(ctx)
	},
		backoff.WithBackOff(eb),
		backoff.WithMaxTries(uint(p.Attempts)),
		backoff.WithMaxElapsedTime(0),
	)
	if ctxErr := ctx.Err(); err != nil && ctxErr != nil && !errors.Is(err, ctxErr) {
		return ctxErr
	}
	return err
}
