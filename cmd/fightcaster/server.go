package main

import (
	"context"
	"time"

	"github.com/lyfstyl-ux/fightcaster/internal/constants"
	"github.com/lyfstyl-ux/fightcaster/internal/logging"
	"github.com/lyfstyl-ux/fightcaster/internal/service"
)

// startChallengeExpiryScanner expires stale pending challenges every
// interval until ctx is done.
func startChallengeExpiryScanner(ctx context.Context, challenges *service.Challenges, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := challenges.ExpireStale(ctx, now, ttl)
			if err != nil {
				logging.Error("challenge expiry scan failed", err, nil)
				continue
			}
			if n > 0 {
				logging.Info("expired stale challenges", logging.Fields{constants.LogFieldCount: n})
			}
		}
	}
}
