package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/edgard/enrollbot/internal/metrics"
)

const identityCountTimeout = 30 * time.Second

// newIdentityCountTask refreshes the enrollbot_identities gauge from the store.
func newIdentityCountTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "identity_count")

	return func(ctx context.Context) error {
		timeout := identityCountTimeout
		if deps.Config != nil && deps.Config.Database.OperationTimeout > 0 {
			timeout = deps.Config.Database.OperationTimeout
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		count, err := deps.Store.CountRecords(ctx)
		if err != nil {
			log.ErrorContext(ctx, "Failed to count identity records", "error", err)
			return fmt.Errorf("identity count failed: %w", err)
		}

		metrics.Identities.Set(float64(count))
		log.DebugContext(ctx, "Identity gauge refreshed", "count", count)
		return nil
	}
}
