// Package transfer copies liked tracks from a library to a destination, and
// can remove every loved track from a destination.
package transfer

import (
	"context"
	"fmt"
	"time"
)

// PageSize is the number of tracks requested from a service at a time
const PageSize = 50

// Policy decides what happens when a liked track is already in the log
type Policy int

const (
	// SkipLogged skips tracks that are already logged and keeps scanning older likes
	SkipLogged Policy = iota
	// StopAtLogged ends the run at the first logged track, assuming everything
	// older was handled by a previous run
	StopAtLogged
)

// ParsePolicy converts a policy name ("skip" or "stop") to a Policy
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "skip", "":
		return SkipLogged, nil
	case "stop":
		return StopAtLogged, nil
	default:
		return 0, fmt.Errorf("unknown policy %q, expected skip or stop", name)
	}
}

func (p Policy) String() string {
	switch p {
	case SkipLogged:
		return "skip"
	case StopAtLogged:
		return "stop"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Pauser reports whether processing is currently suspended
type Pauser interface {
	Paused() bool
}

// Options configures both engines
type Options struct {
	// Limit is the maximum number of tracks to transfer. Zero means no limit.
	Limit  int
	Policy Policy
	DryRun bool

	Pause        Pauser
	PollInterval time.Duration

	// Retries is the number of extra attempts made after a network or rate limit error
	Retries    int
	RetryDelay time.Duration
}

func (o Options) pollInterval() time.Duration {
	if o.PollInterval <= 0 {
		return 500 * time.Millisecond
	}
	return o.PollInterval
}

func (o Options) retryDelay() time.Duration {
	if o.RetryDelay <= 0 {
		return 2 * time.Second
	}
	return o.RetryDelay
}

// waitWhilePaused blocks until the pauser is no longer paused or ctx is done
func (o Options) waitWhilePaused(ctx context.Context) error {
	if o.Pause == nil || !o.Pause.Paused() {
		return ctx.Err()
	}

	ticker := time.NewTicker(o.pollInterval())
	defer ticker.Stop()

	for o.Pause.Paused() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	return nil
}
