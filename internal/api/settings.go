package api

import (
	"context"

	"github.com/STTM-NSU/trading-app/internal/model"
)

const (
	_mt5ConnectTestURL = "/mt5/connect-test"
	_mt5AccountURL     = "/mt5/account"
	_tradingConfigURL  = "/trading/config"
	_riskConfigURL     = "/risk/config"
	_sessionConfigURL  = "/session/config"
)

// TestMT5Connection validates broker credentials without persisting them.
// A "failed" status is a successful call: callers must inspect Status.
func (c *Client) TestMT5Connection(ctx context.Context, req model.MT5ConnectTestRequest) (model.MT5ConnectTestResponse, error) {
	var resp model.MT5ConnectTestResponse
	err := c.post(ctx, "mt5 connect test", _mt5ConnectTestURL, nil, req, &resp)
	return resp, err
}

func (c *Client) SaveMT5Account(ctx context.Context, req model.MT5AccountSaveRequest) error {
	return c.put(ctx, "mt5 account save", _mt5AccountURL, req)
}

func (c *Client) SaveTradingConfig(ctx context.Context, req model.TradingConfigRequest) error {
	return c.put(ctx, "trading config save", _tradingConfigURL, req)
}

func (c *Client) SaveRiskConfig(ctx context.Context, req model.RiskConfigRequest) error {
	return c.put(ctx, "risk config save", _riskConfigURL, req)
}

func (c *Client) SaveSessionConfig(ctx context.Context, req model.SessionConfigRequest) error {
	return c.put(ctx, "session config save", _sessionConfigURL, req)
}
