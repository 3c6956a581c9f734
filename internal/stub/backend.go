package stub

import (
	"slices"
	"sync"
	"time"

	"github.com/STTM-NSU/trading-app/internal/logger"
	"github.com/STTM-NSU/trading-app/internal/model"
)

const (
	DemoUserID = "demo-user"

	_startBalance      = 10000.0
	_unrealizedPerLot  = 1.5
	_licenseValidity   = 30 * 24 * time.Hour
	_connectLatencyMs  = 12
	_demoSymbol        = "XAUUSD"
	_demoEntryPrice    = 1900.5
	_demoClosePriceGap = 4.5
)

type account struct {
	license model.LicenseStatus
	bot     model.BotStatus

	mt5     *model.MT5AccountSaveRequest
	trading *model.TradingConfigRequest
	risk    *model.RiskConfigRequest
	session *model.SessionConfigRequest

	open          []model.OpenTrade
	closed        []model.ClosedTrade // oldest first
	notifications []model.Notification
}

// Backend keeps per-user demo state in memory. It exists to run the front-end locally.
type Backend struct {
	mu       sync.Mutex
	accounts map[string]*account
	nextID   int64
	latency  map[string][]float64 // route -> samples, ms

	now    func() time.Time
	logger logger.Logger
}

func NewBackend(logger logger.Logger) *Backend {
	return &Backend{
		accounts: make(map[string]*account),
		latency:  make(map[string][]float64),
		now:      time.Now,
		logger:   logger,
	}
}

func (b *Backend) id() int64 {
	b.nextID++
	return b.nextID
}

func (b *Backend) timestamp() string {
	return b.now().UTC().Format(time.RFC3339)
}

// account must be called with mu held.
func (b *Backend) account(userID string) *account {
	a, ok := b.accounts[userID]
	if !ok {
		a = &account{
			license: model.LicenseStatus{
				UserID:  userID,
				Message: "no license activated",
			},
			bot: model.BotStatus{UserID: userID},
		}
		b.accounts[userID] = a
	}
	return a
}

func (b *Backend) notify(a *account, channel, eventType, title, message string) {
	a.notifications = append(a.notifications, model.Notification{
		ID:        b.id(),
		EventType: eventType,
		Title:     title,
		Message:   message,
		Channel:   channel,
		CreatedAt: b.timestamp(),
	})
}

func (b *Backend) summary(userID string) model.DashboardSummary {
	a := b.account(userID)
	pnl := b.pnl(userID)

	var margin float64
	for _, t := range a.open {
		margin += t.Quantity * t.EntryPrice / 100
	}

	balance := _startBalance + pnl.RealizedPnl
	return model.DashboardSummary{
		UserID:             userID,
		Balance:            balance,
		Equity:             balance + pnl.UnrealizedPnl,
		Margin:             margin,
		DailyRealizedPnl:   pnl.RealizedPnl,
		DailyUnrealizedPnl: pnl.UnrealizedPnl,
		BotRunning:         a.bot.Running,
	}
}

func (b *Backend) pnl(userID string) model.DailyPnl {
	a := b.account(userID)

	var realized, unrealized float64
	for _, t := range a.closed {
		realized += t.Pnl
	}
	for _, t := range a.open {
		unrealized += _unrealizedPerLot * t.Quantity
	}

	return model.DailyPnl{
		UserID:        userID,
		RealizedPnl:   realized,
		UnrealizedPnl: unrealized,
		TotalPnl:      realized + unrealized,
	}
}

func (b *Backend) startBot(userID string) (model.BotStatus, string) {
	a := b.account(userID)
	switch {
	case a.bot.Running:
		return a.bot, "bot is already running"
	case !a.license.Valid:
		return a.bot, "an active license is required to start the bot"
	case a.mt5 == nil:
		return a.bot, "broker account is not connected"
	}

	started := b.timestamp()
	qty := 1.0
	if a.trading != nil && a.trading.LotSize > 0 {
		qty = a.trading.LotSize
	}
	symbol := _demoSymbol
	if a.trading != nil && len(a.trading.Symbols) > 0 {
		symbol = a.trading.Symbols[0]
	}

	a.open = append(a.open, model.OpenTrade{
		ID:         b.id(),
		Symbol:     symbol,
		Side:       model.Buy,
		Quantity:   qty,
		EntryPrice: _demoEntryPrice,
		OpenedAt:   started,
	})
	a.bot = model.BotStatus{
		UserID:                  userID,
		Running:                 true,
		StartedAt:               &started,
		TradesOpenedThisSession: 1,
	}
	b.notify(a, model.InAppChannel, "bot_started", "Bot started", "Trading bot is running")
	b.notify(a, "email", "bot_started", "Bot started", "Trading bot is running")

	return a.bot, ""
}

func (b *Backend) stopBot(userID string) (model.BotStatus, string) {
	a := b.account(userID)
	if !a.bot.Running {
		return a.bot, "bot is not running"
	}

	closedAt := b.timestamp()
	for _, t := range a.open {
		a.closed = append(a.closed, model.ClosedTrade{
			ID:          t.ID,
			Symbol:      t.Symbol,
			Side:        t.Side,
			Quantity:    t.Quantity,
			EntryPrice:  t.EntryPrice,
			ClosePrice:  t.EntryPrice + _demoClosePriceGap,
			Pnl:         _demoClosePriceGap * t.Quantity,
			CloseReason: "manual_stop",
			OpenedAt:    t.OpenedAt,
			ClosedAt:    closedAt,
		})
	}
	a.open = nil

	reason := "user_requested"
	a.bot.Running = false
	a.bot.StopReason = &reason
	b.notify(a, model.InAppChannel, "bot_stopped", "Bot stopped", "Trading bot was stopped by the user")

	return a.bot, ""
}

func (b *Backend) activateLicense(req model.LicenseActivateRequest) {
	a := b.account(req.UserID)

	status := "active"
	key := req.LicenseKey
	expires := b.now().Add(_licenseValidity).UTC().Format(time.RFC3339)
	a.license = model.LicenseStatus{
		UserID:     req.UserID,
		HasLicense: true,
		Valid:      true,
		Status:     &status,
		Message:    "license is active",
		LicenseKey: &key,
		ExpiresAt:  &expires,
	}
	b.notify(a, model.InAppChannel, "license_activated", "License activated", "Your license is active")
}

// closedTrades returns the most recent first.
func (b *Backend) closedTrades(userID string, limit int) []model.ClosedTrade {
	a := b.account(userID)
	out := slices.Clone(a.closed)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []model.ClosedTrade{}
	}
	return out
}

func (b *Backend) notificationsFor(userID, channel string, limit int) []model.Notification {
	a := b.account(userID)
	out := make([]model.Notification, 0, len(a.notifications))
	for i := len(a.notifications) - 1; i >= 0; i-- {
		n := a.notifications[i]
		if channel != "" && n.Channel != channel {
			continue
		}
		out = append(out, n)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
