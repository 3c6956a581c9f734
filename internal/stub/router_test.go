package stub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/STTM-NSU/trading-app/internal/api"
	"github.com/STTM-NSU/trading-app/internal/config"
	"github.com/STTM-NSU/trading-app/internal/logger"
	"github.com/STTM-NSU/trading-app/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStub(t *testing.T) (*Backend, *api.Client) {
	t.Helper()
	b := NewBackend(logger.NewNopLogger())
	b.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }

	srv := httptest.NewServer(b.Router())
	t.Cleanup(srv.Close)

	c := api.New(config.BackendConfig{Address: srv.URL}, logger.NewNopLogger())
	t.Cleanup(func() { _ = c.Close() })
	return b, c
}

func connect(t *testing.T, c *api.Client, userID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, c.SaveMT5Account(ctx, model.MT5AccountSaveRequest{UserID: userID, Login: "1001", Password: "p", Server: "Demo"}))
	require.NoError(t, c.ActivateLicense(ctx, model.LicenseActivateRequest{UserID: userID, LicenseKey: "KEY-1"}))
}

func TestHealth(t *testing.T) {
	_, c := newStub(t)

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
}

func TestUserIDRequired(t *testing.T) {
	_, c := newStub(t)

	_, err := c.DashboardSummary(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, "user_id is required", err.Error())
}

func TestMT5ConnectTest(t *testing.T) {
	_, c := newStub(t)
	ctx := context.Background()

	resp, err := c.TestMT5Connection(ctx, model.MT5ConnectTestRequest{Login: "1", Password: "p", Server: "s"})
	require.NoError(t, err)
	assert.Equal(t, model.MT5Validated, resp.Status)

	resp, err = c.TestMT5Connection(ctx, model.MT5ConnectTestRequest{Login: "1", Password: "invalid", Server: "s"})
	require.NoError(t, err)
	assert.Equal(t, model.MT5Failed, resp.Status)
	assert.Equal(t, "invalid credentials", resp.Message)

	resp, err = c.TestMT5Connection(ctx, model.MT5ConnectTestRequest{Login: "1", Password: "p", Server: "offline"})
	require.NoError(t, err)
	assert.Equal(t, model.MT5ProviderUnavailable, resp.Status)

	_, err = c.TestMT5Connection(ctx, model.MT5ConnectTestRequest{Login: "1"})
	require.Error(t, err)
	assert.Equal(t, "login, password and server are required", err.Error())
}

func TestBotLifecycle(t *testing.T) {
	_, c := newStub(t)
	ctx := context.Background()

	_, err := c.StartBot(ctx, DemoUserID)
	require.Error(t, err)
	assert.Equal(t, "an active license is required to start the bot", err.Error())

	connect(t, c, DemoUserID)

	status, err := c.StartBot(ctx, DemoUserID)
	require.NoError(t, err)
	assert.True(t, status.Running)
	require.NotNil(t, status.StartedAt)
	assert.Equal(t, "2026-10-19T12:00:00Z", *status.StartedAt)

	_, err = c.StartBot(ctx, DemoUserID)
	require.Error(t, err)
	assert.Equal(t, "bot is already running", err.Error())

	open, err := c.OpenTrades(ctx, DemoUserID)
	require.NoError(t, err)
	require.Len(t, open, 1)

	summary, err := c.DashboardSummary(ctx, DemoUserID)
	require.NoError(t, err)
	assert.True(t, summary.BotRunning)
	assert.Equal(t, 1.5, summary.DailyUnrealizedPnl)

	status, err = c.StopBot(ctx, DemoUserID)
	require.NoError(t, err)
	assert.False(t, status.Running)
	require.NotNil(t, status.StopReason)

	closed, err := c.ClosedTrades(ctx, DemoUserID, 10)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, open[0].ID, closed[0].ID)
	assert.Equal(t, "manual_stop", closed[0].CloseReason)

	pnl, err := c.DailyPnl(ctx, DemoUserID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, pnl.RealizedPnl)
	assert.Equal(t, 4.5, pnl.TotalPnl)

	legacy, err := c.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10004.5, legacy.Balance)
}

func TestClosedTradesMostRecentFirst(t *testing.T) {
	_, c := newStub(t)
	ctx := context.Background()
	connect(t, c, "u1")

	for i := 0; i < 3; i++ {
		_, err := c.StartBot(ctx, "u1")
		require.NoError(t, err)
		_, err = c.StopBot(ctx, "u1")
		require.NoError(t, err)
	}

	closed, err := c.ClosedTrades(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, closed, 2)
	assert.Greater(t, closed[0].ID, closed[1].ID)
}

func TestNotificationsInAppOnly(t *testing.T) {
	_, c := newStub(t)
	ctx := context.Background()
	connect(t, c, "u2")
	_, err := c.StartBot(ctx, "u2")
	require.NoError(t, err)

	n, err := c.Notifications(ctx, "u2", 0)
	require.NoError(t, err)
	require.NotEmpty(t, n)
	for _, item := range n {
		assert.Equal(t, model.InAppChannel, item.Channel)
	}
	assert.Equal(t, "bot_started", n[0].EventType)

	limited, err := c.Notifications(ctx, "u2", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestConfigValidation(t *testing.T) {
	_, c := newStub(t)
	ctx := context.Background()

	err := c.SaveTradingConfig(ctx, model.TradingConfigRequest{UserID: "u"})
	require.Error(t, err)
	assert.Equal(t, "symbols and a positive lot_size are required", err.Error())

	require.NoError(t, c.SaveRiskConfig(ctx, model.RiskConfigRequest{UserID: "u", MaxDailyLoss: 10, MaxOpenTrades: 1}))

	err = c.SaveSessionConfig(ctx, model.SessionConfigRequest{UserID: "u"})
	require.Error(t, err)

	err = c.ActivateLicense(ctx, model.LicenseActivateRequest{UserID: "u", LicenseKey: "invalid-123"})
	require.Error(t, err)
	assert.Equal(t, "license key is not valid", err.Error())
}

func TestLatencyMetrics(t *testing.T) {
	_, c := newStub(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := c.Health(ctx)
		require.NoError(t, err)
	}

	m, err := c.LatencyMetrics(ctx)
	require.NoError(t, err)
	require.Contains(t, m, "/health")
	assert.Equal(t, int64(3), m["/health"].Count)
	assert.LessOrEqual(t, m["/health"].P50, m["/health"].P99)
}

func TestPercentile(t *testing.T) {
	samples := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, 5.0, percentile(samples, 50))
	assert.Equal(t, 10.0, percentile(samples, 95))
	assert.Equal(t, 10.0, percentile(samples, 99))
	assert.Equal(t, 0.0, percentile(nil, 50))
}

func TestNotFoundUsesDetail(t *testing.T) {
	b := NewBackend(logger.NewNopLogger())
	rec := httptest.NewRecorder()
	b.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"not found"}`, rec.Body.String())
}
