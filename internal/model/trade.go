package model

type TradeSide string

const (
	Buy  TradeSide = "buy"
	Sell TradeSide = "sell"
)

type OpenTrade struct {
	ID         int64     `json:"id"`
	Symbol     string    `json:"symbol"`
	Side       TradeSide `json:"side"`
	Quantity   float64   `json:"quantity"`
	EntryPrice float64   `json:"entry_price"`
	OpenedAt   string    `json:"opened_at,omitempty"`
}

type ClosedTrade struct {
	ID          int64     `json:"id"`
	Symbol      string    `json:"symbol"`
	Side        TradeSide `json:"side"`
	Quantity    float64   `json:"quantity"`
	EntryPrice  float64   `json:"entry_price"`
	ClosePrice  float64   `json:"close_price"`
	Pnl         float64   `json:"pnl"`
	CloseReason string    `json:"close_reason"`
	OpenedAt    string    `json:"opened_at,omitempty"`
	ClosedAt    string    `json:"closed_at"`
}
