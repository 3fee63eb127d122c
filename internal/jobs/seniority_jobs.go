package jobs

import (
	"context"
	"time"

	"equipment-dispatch-backend/internal/logger"
	"equipment-dispatch-backend/internal/service"
	"equipment-dispatch-backend/internal/utils"
)

// FiscalYearRollover creates the new fiscal year's seniority records from
// the prior year's, shifting service hours back one slot, then recomputes
// scores and in-block ranks. Scheduled for the fiscal year start (April 1).
func (jr *JobRunner) FiscalYearRollover() {
	jr.runWithRecovery("FiscalYearRollover", func() {
		ctx := context.Background()
		fiscalYear := utils.FiscalYearFor(time.Now())

		if err := jr.services.Seniority.RunFiscalYearRollover(ctx, service.SystemActorID, fiscalYear); err != nil {
			logger.Error("Fiscal year rollover failed", "fiscal_year", fiscalYear, "error", err)
			return
		}
		logger.Info("Fiscal year rollover complete", "fiscal_year", fiscalYear)
	})
}

// RecalculateSeniority recomputes every pool's scores and ranks for the
// current fiscal year without rolling hours over.
func (jr *JobRunner) RecalculateSeniority() {
	jr.runWithRecovery("RecalculateSeniority", func() {
		ctx := context.Background()
		fiscalYear := utils.FiscalYearFor(time.Now())

		if err := jr.services.Seniority.RecalculateAll(ctx, service.SystemActorID, fiscalYear); err != nil {
			logger.Error("Seniority recalculation failed", "fiscal_year", fiscalYear, "error", err)
			return
		}
		logger.Info("Seniority recalculation complete", "fiscal_year", fiscalYear)
	})
}
