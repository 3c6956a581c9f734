package app

import (
	"maps"
	"slices"
	"time"

	"github.com/STTM-NSU/trading-app/internal/model"
)

type Stage int

const (
	StageLogin Stage = iota
	StageOnboarding
	StageBrokerConnect
	StageConfiguration
	StageHome
)

func (s Stage) String() string {
	switch s {
	case StageLogin:
		return "login"
	case StageOnboarding:
		return "onboarding"
	case StageBrokerConnect:
		return "broker-connect"
	case StageConfiguration:
		return "configuration"
	case StageHome:
		return "home"
	default:
		return "unknown"
	}
}

type BrokerForm struct {
	Login     string
	Password  string
	Server    string
	TimeoutMs int // 0 leaves the probe timeout to the server
}

type SettingsForm struct {
	Symbols        []string
	LotSize        float64
	MaxDailyLoss   float64
	MaxOpenTrades  int
	SessionMinutes int
	LicenseKey     string // optional
}

// Dashboard is replaced as a whole on every successful refresh.
type Dashboard struct {
	License       model.LicenseStatus
	Summary       model.DashboardSummary
	Bot           model.BotStatus
	Pnl           model.DailyPnl
	OpenTrades    []model.OpenTrade
	ClosedTrades  []model.ClosedTrade
	Notifications []model.Notification
	Latency       model.LatencyMetrics
	UpdatedAt     time.Time
}

type State struct {
	Stage   Stage
	Session *model.AuthSession

	// LastProbe is the most recent broker connection test result.
	LastProbe *model.MT5ConnectTestResponse

	Dashboard Dashboard
	Loaded    bool

	Loading bool
	Err     string
}

func (s State) clone() State {
	out := s
	if s.Session != nil {
		session := *s.Session
		out.Session = &session
	}
	if s.LastProbe != nil {
		probe := *s.LastProbe
		out.LastProbe = &probe
	}
	out.Dashboard.OpenTrades = slices.Clone(s.Dashboard.OpenTrades)
	out.Dashboard.ClosedTrades = slices.Clone(s.Dashboard.ClosedTrades)
	out.Dashboard.Notifications = slices.Clone(s.Dashboard.Notifications)
	out.Dashboard.Latency = maps.Clone(s.Dashboard.Latency)
	return out
}
