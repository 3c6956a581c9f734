package model

type DashboardSummary struct {
	UserID             string  `json:"user_id"`
	Balance            float64 `json:"balance"`
	Equity             float64 `json:"equity"`
	Margin             float64 `json:"margin"`
	DailyRealizedPnl   float64 `json:"daily_realized_pnl"`
	DailyUnrealizedPnl float64 `json:"daily_unrealized_pnl"`
	BotRunning         bool    `json:"bot_running"`
}

type DailyPnl struct {
	UserID        string  `json:"user_id"`
	RealizedPnl   float64 `json:"realized_pnl"`
	UnrealizedPnl float64 `json:"unrealized_pnl"`
	TotalPnl      float64 `json:"total_pnl"`
}

type Health struct {
	Status string `json:"status"`
}

// LatencyMetrics is keyed by metric name.
type LatencyMetrics map[string]LatencyMetricStats

type LatencyMetricStats struct {
	Count int64   `json:"count"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
}
