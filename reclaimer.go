package authcore

import "time"

// reclaim is the engine's only long-lived goroutine. It evicts expired
// refresh tokens and stale limiter entries on fixed intervals and clears
// the blacklist wholesale; sweeps run to completion on this goroutine, so
// Close waiting on the WaitGroup never interrupts one mid-flight.
func (e *Engine) reclaim() {
	defer e.wg.Done()

	tokenTicker := time.NewTicker(e.config.Reclaimer.TokenSweepInterval)
	defer tokenTicker.Stop()
	limiterTicker := time.NewTicker(e.config.Reclaimer.LimiterSweepInterval)
	defer limiterTicker.Stop()

	for {
		select {
		case <-tokenTicker.C:
			e.refreshStore.Sweep()
			// jtis carry no individual expiry. The sweep interval is
			// validated to be >= the access-token lifetime, so every
			// blacklisted token has outlived its own exp claim by now
			// and the whole set can be dropped.
			e.blacklist.Clear()
		case <-limiterTicker.C:
			e.rateLimiter.Sweep()
		case <-e.done:
			return
		}
	}
}
