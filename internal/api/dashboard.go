package api

import (
	"context"
	"strconv"

	"github.com/STTM-NSU/trading-app/internal/model"
)

const (
	_healthURL           = "/health"
	_summaryURL          = "/summary"
	_dashboardSummaryURL = "/dashboard/summary"
	_dailyPnlURL         = "/pnl/daily"
	_openTradesURL       = "/trades/open"
	_closedTradesURL     = "/trades/closed"
	_notificationsURL    = "/notifications"
	_latencyMetricsURL   = "/metrics/latency"
)

func (c *Client) Health(ctx context.Context) (model.Health, error) {
	var h model.Health
	err := c.get(ctx, "health check", _healthURL, nil, &h)
	return h, err
}

// Summary is the legacy account summary that is not scoped to a user.
func (c *Client) Summary(ctx context.Context) (model.DashboardSummary, error) {
	var s model.DashboardSummary
	err := c.get(ctx, "summary", _summaryURL, nil, &s)
	return s, err
}

func (c *Client) DashboardSummary(ctx context.Context, userID string) (model.DashboardSummary, error) {
	var s model.DashboardSummary
	err := c.get(ctx, "dashboard summary", _dashboardSummaryURL, userQuery(userID), &s)
	return s, err
}

func (c *Client) DailyPnl(ctx context.Context, userID string) (model.DailyPnl, error) {
	var p model.DailyPnl
	err := c.get(ctx, "daily pnl", _dailyPnlURL, userQuery(userID), &p)
	return p, err
}

func (c *Client) OpenTrades(ctx context.Context, userID string) ([]model.OpenTrade, error) {
	var trades []model.OpenTrade
	if err := c.get(ctx, "open trades", _openTradesURL, userQuery(userID), &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// ClosedTrades returns the most recent closed trades first; limit <= 0 leaves the page size to the server.
func (c *Client) ClosedTrades(ctx context.Context, userID string, limit int) ([]model.ClosedTrade, error) {
	q := userQuery(userID)
	if limit > 0 {
		q["limit"] = strconv.Itoa(limit)
	}

	var trades []model.ClosedTrade
	if err := c.get(ctx, "closed trades", _closedTradesURL, q, &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// Notifications lists in-app notifications only.
func (c *Client) Notifications(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	q := userQuery(userID)
	q["channel"] = model.InAppChannel
	if limit > 0 {
		q["limit"] = strconv.Itoa(limit)
	}

	var notifications []model.Notification
	if err := c.get(ctx, "notifications", _notificationsURL, q, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (c *Client) LatencyMetrics(ctx context.Context) (model.LatencyMetrics, error) {
	var m model.LatencyMetrics
	if err := c.get(ctx, "latency metrics", _latencyMetricsURL, nil, &m); err != nil {
		return nil, err
	}
	return m, nil
}
