package app

import (
	"context"

	"github.com/STTM-NSU/trading-app/internal/model"
	"golang.org/x/sync/errgroup"
)

// Refresh fetches every dashboard slice concurrently. State changes only after all of them
// succeed; a single failure keeps the previous dashboard and reports the error.
func (c *Controller) Refresh(ctx context.Context) error {
	userID, err := c.begin("refresh", StageHome)
	if err != nil {
		return err
	}

	d, err := c.fetchDashboard(ctx, userID)
	return c.finish(err, func(s *State) {
		s.Dashboard = d
		s.Loaded = true
	})
}

func (c *Controller) StartBot(ctx context.Context) error {
	return c.toggleBot(ctx, "start bot", c.backend.StartBot)
}

func (c *Controller) StopBot(ctx context.Context) error {
	return c.toggleBot(ctx, "stop bot", c.backend.StopBot)
}

func (c *Controller) toggleBot(ctx context.Context, action string, call func(context.Context, string) (model.BotStatus, error)) error {
	userID, err := c.begin(action, StageHome)
	if err != nil {
		return err
	}

	status, err := call(ctx, userID)
	if err := c.finish(err, func(s *State) { s.Dashboard.Bot = status }); err != nil {
		return err
	}
	c.logger.Infof("%s: running=%t", action, status.Running)

	return c.Refresh(ctx)
}

func (c *Controller) fetchDashboard(ctx context.Context, userID string) (Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.License, err = c.backend.LicenseStatus(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		d.Summary, err = c.backend.DashboardSummary(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		d.Bot, err = c.backend.BotStatus(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		d.Pnl, err = c.backend.DailyPnl(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		d.OpenTrades, err = c.backend.OpenTrades(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		d.ClosedTrades, err = c.backend.ClosedTrades(gctx, userID, c.cfg.Dashboard.ClosedTradesLimit)
		return err
	})
	g.Go(func() (err error) {
		d.Notifications, err = c.backend.Notifications(gctx, userID, c.cfg.Dashboard.NotificationsLimit)
		return err
	})
	g.Go(func() (err error) {
		d.Latency, err = c.backend.LatencyMetrics(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	d.UpdatedAt = c.now()
	return d, nil
}
