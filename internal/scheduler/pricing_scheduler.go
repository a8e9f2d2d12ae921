package scheduler

import (
	"errors"

	"github.com/robfig/cron/v3"
	"github.com/tallerix/taller-backend/internal/app/service"
	"github.com/tallerix/taller-backend/pkg/logger"
)

// PricingScheduler reprices the whole catalog on a cron schedule, so
// snapshots drifted by direct DB edits or partial cascades get healed.
type PricingScheduler struct {
	cron           *cron.Cron
	pricingService service.PricingService
	spec           string
}

func NewPricingScheduler(pricingService service.PricingService, spec string) *PricingScheduler {
	return &PricingScheduler{
		cron:           cron.New(),
		pricingService: pricingService,
		spec:           spec,
	}
}

func (s *PricingScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		logger.Info("Starting scheduled catalog repricing", nil)

		updated, err := s.pricingService.RefreshAll()
		if err != nil {
			var refreshErr *service.RefreshAllError
			if errors.As(err, &refreshErr) {
				logger.Warn("Scheduled catalog repricing finished with failures", map[string]interface{}{
					"updated": updated,
					"failed":  refreshErr.Failed,
					"total":   refreshErr.Total,
				})
				return
			}
			logger.Error("Scheduled catalog repricing failed", err)
			return
		}

		logger.Info("Scheduled catalog repricing finished", map[string]interface{}{
			"updated": updated,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for catalog repricing", err)
		return err
	}

	s.cron.Start()
	logger.Info("Pricing scheduler started", map[string]interface{}{
		"spec": s.spec,
	})

	return nil
}

func (s *PricingScheduler) Stop() {
	logger.Info("Stopping pricing scheduler...", nil)
	s.cron.Stop()
	logger.Info("Pricing scheduler stopped", nil)
}
