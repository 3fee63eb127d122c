package jobs

import (
	"context"
	"time"

	"equipment-dispatch-backend/internal/logger"
)

// ExpireOverdueOffers expires Asked entries whose offer window has lapsed
// and advances each affected request to its next candidate.
func (jr *JobRunner) ExpireOverdueOffers() {
	jr.runWithRecovery("ExpireOverdueOffers", func() {
		ctx := context.Background()
		window := time.Duration(jr.config.Dispatch.OfferWindowHours) * time.Hour

		expired, err := jr.services.Dispatch.ExpireOverdueOffers(ctx, window)
		if err != nil {
			logger.Error("Failed to expire overdue offers", "error", err)
			return
		}
		logger.Info("Expired overdue offers", "count", expired, "window_hours", jr.config.Dispatch.OfferWindowHours)
	})
}
