package worker

// reconcile_cron.go
// Background goroutine that periodically re-derives stock_status for every
// product. The checkout path already keeps status consistent inside its own
// transaction; this pass is the backstop for out-of-band writes (manual SQL,
// failed processes, imports).

import (
	"context"
	"time"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/dto"

	"github.com/rs/zerolog/log"
)

// StockReconciler is implemented by service.StockService.
type StockReconciler interface {
	ReconcileAll(ctx context.Context) (*dto.ReconcileReport, error)
}

// StartReconcileCron launches a goroutine that runs a full stock-status
// reconcile pass every interval. It respects the context for graceful
// shutdown.
func StartReconcileCron(ctx context.Context, stock StockReconciler, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("reconcile_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("reconcile_cron: shutting down")
				return
			case <-ticker.C:
				report, err := stock.ReconcileAll(ctx)
				if err != nil {
					log.Error().Err(err).Msg("reconcile_cron: pass failed")
					continue
				}
				ev := log.Info()
				if len(report.Failed) > 0 {
					ev = log.Warn()
				}
				ev.Int("scanned", report.Scanned).
					Int("updated", report.Updated).
					Int("unchanged", report.Unchanged).
					Int("failed", len(report.Failed)).
					Msg("reconcile_cron: pass complete")
			}
		}
	}()
}
