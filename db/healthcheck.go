package db

import (
	"context"
	"time"
)

// runHealthChecker pings idle connections periodically and reconnects the dead ones.
// Leased connections aren't checked, as they're validated on the next Acquire anyway.
// The first cycle starts after EmptyRetry, so connections dropped right after Init are
// noticed early.
func (p *Pool) runHealthChecker(ctx context.Context) {
	defer p.checker.Done()

	timer := time.NewTimer(p.healthCheck.EmptyRetry)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		timer.Reset(p.checkCycle(ctx))
	}
}

// checkCycle walks through the idle connections once and returns the pause before
// the next cycle. Failures are only logged: there's nobody to report them to.
func (p *Pool) checkCycle(ctx context.Context) (pause time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Msg("health check cycle failed")
			pause = p.healthCheck.ErrorBackoff
		}
	}()

	conns := p.snapshot()
	if len(conns) == 0 {
		return p.healthCheck.EmptyRetry
	}

	var reconnected, failed int
	for _, conn := range conns {
		if ctx.Err() != nil {
			break
		}

		if conn.Ping(ctx) {
			continue
		}

		if err := conn.Reconnect(ctx); err != nil {
			failed++
			p.logger.Error().Err(err).Msg("failed to reconnect")
			continue
		}

		reconnected++
	}

	p.logger.Debug().
		Int("checked", len(conns)).
		Int("reconnected", reconnected).
		Int("failed", failed).
		Msg("health check cycle completed")

	return p.healthCheck.Interval
}
