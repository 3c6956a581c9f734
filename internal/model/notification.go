package model

const InAppChannel = "in_app"

type Notification struct {
	ID        int64  `json:"id"`
	EventType string `json:"event_type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Channel   string `json:"channel"`
	CreatedAt string `json:"created_at"`
}
