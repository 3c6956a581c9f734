package model

type MT5ConnectStatus string

const (
	MT5Validated           MT5ConnectStatus = "validated"
	MT5Failed              MT5ConnectStatus = "failed"
	MT5ProviderUnavailable MT5ConnectStatus = "provider_unavailable"
)

type MT5ConnectTestRequest struct {
	Login     string `json:"login"`
	Password  string `json:"password"`
	Server    string `json:"server"`
	TimeoutMs *int   `json:"timeout_ms,omitempty"`
}

type MT5ConnectTestResponse struct {
	Status    MT5ConnectStatus `json:"status"`
	Provider  string           `json:"provider"`
	LatencyMs float64          `json:"latency_ms"`
	Message   string           `json:"message"`
}

type MT5AccountSaveRequest struct {
	UserID   string `json:"user_id"`
	Login    string `json:"login"`
	Password string `json:"password"`
	Server   string `json:"server"`
}
