package model

type BotStatus struct {
	UserID                  string  `json:"user_id"`
	Running                 bool    `json:"running"`
	StartedAt               *string `json:"started_at,omitempty"`
	TradesOpenedThisSession int     `json:"trades_opened_this_session"`
	StopReason              *string `json:"stop_reason,omitempty"`
}
