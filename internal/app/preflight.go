package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/five82/equip/internal/api"
)

const (
	defaultPreflightAttempts = 3
	defaultPreflightInterval = 500 * time.Millisecond
	defaultPreflightTimeout  = 2 * time.Second
	maxBackoff               = 4 * time.Second
)

type healthChecker interface {
	Health(ctx context.Context) (api.Health, error)
}

// preflight checks the service before the UI starts. An unreachable service
// is logged and otherwise ignored: every screen has its own error state and
// retry key, so the user still gets a usable UI. Each attempt is bounded by
// timeout rather than the client's per-call timeout.
func preflight(ctx context.Context, hc healthChecker, attempts int, interval, timeout time.Duration) bool {
	if attempts <= 0 {
		attempts = 1
	}
	for failures := 0; failures < attempts; failures++ {
		h, err := checkHealth(ctx, hc, timeout)
		if err == nil {
			if h.Status != "ok" {
				log.Printf("service reachable but reports status %q", h.Status)
			}
			return true
		}
		log.Printf("health check failed (attempt %d/%d): %s", failures+1, attempts, detail(err))
		if failures == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(calculateBackoff(failures, interval)):
		}
	}
	log.Printf("starting without a reachable service")
	return false
}

func checkHealth(ctx context.Context, hc healthChecker, timeout time.Duration) (api.Health, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return hc.Health(ctx)
}

// calculateBackoff doubles interval for each prior failure, capped at
// maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	d := interval
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

func detail(err error) string {
	var opErr *api.OpError
	if errors.As(err, &opErr) {
		return opErr.Detail()
	}
	return err.Error()
}
