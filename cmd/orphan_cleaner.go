package main

import (
	"context"
	"log"
	"time"

	"ustaBack/internal/repositories"
)

const (
	orphanCleanerTimeout = 1 * time.Minute
	orphanGracePeriod    = 48 * time.Hour
)

// startOrphanCleaner sweeps service tasks that were created during a request
// submission whose parent write later failed mid-compensation. The saga
// normally deletes them; this daily sweep is the backstop for the cases where
// a compensation itself failed.
func startOrphanCleaner(ctx context.Context, repo *repositories.ServiceTaskRepository, infoLog, errorLog *log.Logger) {
	if repo == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, orphanCleanerTimeout)
			removed, err := repo.DeleteOrphanedBefore(runCtx, time.Now().Add(-orphanGracePeriod))
			cancel()
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("orphan cleaner: %v", err)
				}
			} else if removed > 0 && infoLog != nil {
				infoLog.Printf("orphan cleaner: removed %d orphaned tasks", removed)
			}
		}

		runOnce()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}
