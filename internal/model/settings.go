package model

type TradingConfigRequest struct {
	UserID  string   `json:"user_id"`
	Symbols []string `json:"symbols"`
	LotSize float64  `json:"lot_size"`
}

type RiskConfigRequest struct {
	UserID        string  `json:"user_id"`
	MaxDailyLoss  float64 `json:"max_daily_loss"`
	MaxOpenTrades int     `json:"max_open_trades"`
}

type SessionConfigRequest struct {
	UserID          string `json:"user_id"`
	DurationMinutes int    `json:"duration_minutes"`
}
