package view

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/STTM-NSU/trading-app/internal/app"
	"github.com/STTM-NSU/trading-app/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "10004.50", Money(10004.5))
	assert.Equal(t, "0.05", Money(0.045000000000000005))
	assert.Equal(t, "+4.50", Signed(4.5))
	assert.Equal(t, "-1.25", Signed(-1.25))
	assert.Equal(t, "0.00", Signed(0.001))
	assert.Equal(t, "0.01", Quantity(0.01))
	assert.Equal(t, "2", Quantity(2))
	assert.Equal(t, "12.0ms", Millis(12))
	assert.Equal(t, "2026-10-19 12:00", Timestamp("2026-10-19T12:00:00Z"))
	assert.Equal(t, "yesterday", Timestamp("yesterday"))
}

func TestRenderBrokerProbe(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, app.State{
		Stage:   app.StageBrokerConnect,
		Session: &model.AuthSession{Email: "a@b.c", Mocked: true},
		LastProbe: &model.MT5ConnectTestResponse{
			Status:    model.MT5Failed,
			Provider:  "stub",
			LatencyMs: 12,
			Message:   "invalid credentials",
		},
		Err: "invalid credentials",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "== broker-connect ==")
	assert.Contains(t, out, "signed in as a@b.c (local session)")
	assert.Contains(t, out, "last check: failed via stub in 12.0ms")
	assert.Contains(t, out, "error: invalid credentials")
}

func TestRenderDashboard(t *testing.T) {
	started := "2026-10-19T12:00:00Z"
	expires := "2026-11-18T12:00:00Z"

	var buf bytes.Buffer
	err := Render(&buf, app.State{
		Stage:  app.StageHome,
		Loaded: true,
		Dashboard: app.Dashboard{
			License: model.LicenseStatus{Valid: true, ExpiresAt: &expires},
			Summary: model.DashboardSummary{Balance: 10000, Equity: 10001.5, Margin: 19.005},
			Bot:     model.BotStatus{Running: true, StartedAt: &started},
			Pnl:     model.DailyPnl{UnrealizedPnl: 1.5, TotalPnl: 1.5},
			OpenTrades: []model.OpenTrade{
				{ID: 7, Symbol: "XAUUSD", Side: model.Buy, Quantity: 0.01, EntryPrice: 1900.5, OpenedAt: started},
			},
			Notifications: []model.Notification{
				{Title: "Bot started", Message: "Trading bot is running", Channel: model.InAppChannel, CreatedAt: started},
			},
			Latency:   model.LatencyMetrics{"/health": {Count: 3, P50: 1, P95: 2, P99: 2}},
			UpdatedAt: time.Date(2026, 10, 19, 12, 0, 5, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "license: active until 2026-11-18 12:00")
	assert.Contains(t, out, "bot: running since 2026-10-19 12:00")
	assert.Contains(t, out, "10000.00")
	assert.Contains(t, out, "+1.50")
	assert.Contains(t, out, "open trades (1)")
	assert.Contains(t, out, "XAUUSD")
	assert.Contains(t, out, "1900.50")
	assert.Contains(t, out, "closed trades (0)")
	assert.Contains(t, out, "Bot started: Trading bot is running")
	assert.Contains(t, out, "/health")
	assert.Contains(t, out, "updated 12:00:05")
}

func TestRenderHomeNotLoaded(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, app.State{Stage: app.StageHome, Err: "boom"}))
	assert.Contains(t, buf.String(), "dashboard not loaded")
	assert.Contains(t, buf.String(), "error: boom")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRenderReportsWriteError(t *testing.T) {
	err := Render(failingWriter{}, app.State{})
	assert.EqualError(t, err, "closed")
}
