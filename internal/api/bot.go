package api

import (
	"context"

	"github.com/STTM-NSU/trading-app/internal/model"
)

const (
	_botStatusURL = "/bot/status"
	_botStartURL  = "/bot/start"
	_botStopURL   = "/bot/stop"
)

func (c *Client) BotStatus(ctx context.Context, userID string) (model.BotStatus, error) {
	var s model.BotStatus
	err := c.get(ctx, "bot status", _botStatusURL, userQuery(userID), &s)
	return s, err
}

func (c *Client) StartBot(ctx context.Context, userID string) (model.BotStatus, error) {
	var s model.BotStatus
	err := c.post(ctx, "start bot", _botStartURL, userQuery(userID), nil, &s)
	return s, err
}

func (c *Client) StopBot(ctx context.Context, userID string) (model.BotStatus, error) {
	var s model.BotStatus
	err := c.post(ctx, "stop bot", _botStopURL, userQuery(userID), nil, &s)
	return s, err
}
