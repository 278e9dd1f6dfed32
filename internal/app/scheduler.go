package app

import (
	"context"
	"time"

	"github.com/bobmcallan/networth/internal/scheduler"
)

const priceWarmJob = "price-warm"

// StartScheduler launches the periodic price refresh when enabled.
func (a *App) StartScheduler() error {
	if !a.Config.Scheduler.Enabled {
		a.Logger.Info().Msg("Scheduler disabled")
		return nil
	}

	s, err := scheduler.New(a.Logger)
	if err != nil {
		return err
	}

	interval := a.Config.Scheduler.GetPriceRefreshInterval()
	if err := s.NewIntervalJob(priceWarmJob, a.warmPrices, interval, true); err != nil {
		_ = s.Stop()
		return err
	}

	s.Start()
	a.scheduler = s
	a.Logger.Info().Dur("interval", interval).Msg("Price refresh scheduler started")
	return nil
}

// warmPrices keeps the quote cache hot for open holdings so portfolio
// requests rarely wait on providers.
func (a *App) warmPrices(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	start := time.Now()
	n, err := a.PortfolioService.WarmPrices(ctx)
	if err != nil {
		return err
	}
	a.Logger.Info().Int("quotes", n).Dur("elapsed", time.Since(start)).Msg("Price cache warmed")
	return nil
}
