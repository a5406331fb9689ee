// Package janitor ages out orphaned journal generations. A clear-all
// deliberately abandons the old storage key instead of deleting it, so the
// database accumulates inert generations; the janitor removes the ones
// older than the configured keep window on a cron schedule.
package janitor

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"chatjournal/pkg/config"
	"chatjournal/pkg/logger"
	"chatjournal/pkg/store"
)

const defaultCron = "0 2 * * *"

// Start starts the janitor scheduler if enabled. Returns a cancel func.
func Start(ctx context.Context, cfg config.JanitorConfig) (context.CancelFunc, error) {
	if !cfg.Enabled {
		logger.Info("janitor_disabled")
		return func() {}, nil
	}

	cronExpr := cfg.Cron
	if cronExpr == "" {
		cronExpr = defaultCron
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("janitor_invalid_cron", "cron", cfg.Cron)
		return nil, fmt.Errorf("invalid janitor cron expression: %s", cfg.Cron)
	}

	keep := cfg.Keep.Duration()
	if keep <= 0 {
		keep = 30 * 24 * time.Hour
	}

	logger.Info("janitor_enabled", "cron", cronExpr, "keep", keep.String())
	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, cronExpr, keep)
	return cancel, nil
}

// runScheduler computes the next tick with gronx and sleeps until then.
func runScheduler(ctx context.Context, cronExpr string, keep time.Duration) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("janitor_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("janitor_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				logger.Info("janitor_scheduler_stopping")
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
			if err := RunOnce(keep); err != nil {
				logger.Error("janitor_run_error", "error", err)
			}
		case <-ctx.Done():
			logger.Info("janitor_scheduler_stopping")
			return
		}
	}
}

// RunOnce sweeps the store once, deleting every non-active generation whose
// creation time is older than the keep window. Per-generation failures are
// logged and do not stop the sweep.
func RunOnce(keep time.Duration) error {
	active, err := store.ActiveGeneration()
	if err != nil {
		return err
	}
	gens, err := store.ListGenerations()
	if err != nil {
		return err
	}
	cutoff := time.Now().UTC().Add(-keep).UnixNano()
	removed := 0
	for _, gen := range gens {
		if gen == active {
			continue
		}
		meta, ok, err := store.GetGenMeta(gen)
		if err != nil {
			logger.Error("janitor_meta_failed", "generation", gen, "error", err)
			continue
		}
		// generations without metadata predate rotation tracking; age them
		// out as well
		if ok && meta.CreatedTS > cutoff {
			continue
		}
		if err := store.DeleteGeneration(gen); err != nil {
			logger.Error("janitor_delete_failed", "generation", gen, "error", err)
			continue
		}
		removed++
	}
	logger.Info("janitor_sweep_complete", "scanned", len(gens), "removed", removed)
	return nil
}
