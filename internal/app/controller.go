package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/STTM-NSU/trading-app/internal/config"
	"github.com/STTM-NSU/trading-app/internal/logger"
	"github.com/STTM-NSU/trading-app/internal/model"
)

var (
	ErrWrongStage    = errors.New("action is not available at this stage")
	ErrNotLoggedIn   = errors.New("not logged in")
	ErrBrokerFailure = errors.New("broker connection was not validated")
)

// BrokerError is returned when the connection probe answered but did not validate the account.
// Its text is the server message so it can be shown as is.
type BrokerError struct {
	Status  model.MT5ConnectStatus
	Message string
}

func (e *BrokerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", ErrBrokerFailure, e.Status)
}

func (e *BrokerError) Unwrap() error {
	return ErrBrokerFailure
}

// Backend is the subset of the API client the controller drives.
type Backend interface {
	Login(email, password string) (model.AuthSession, error)

	LicenseStatus(ctx context.Context, userID string) (model.LicenseStatus, error)
	ActivateLicense(ctx context.Context, req model.LicenseActivateRequest) error

	DashboardSummary(ctx context.Context, userID string) (model.DashboardSummary, error)
	DailyPnl(ctx context.Context, userID string) (model.DailyPnl, error)
	OpenTrades(ctx context.Context, userID string) ([]model.OpenTrade, error)
	ClosedTrades(ctx context.Context, userID string, limit int) ([]model.ClosedTrade, error)
	Notifications(ctx context.Context, userID string, limit int) ([]model.Notification, error)
	LatencyMetrics(ctx context.Context) (model.LatencyMetrics, error)

	BotStatus(ctx context.Context, userID string) (model.BotStatus, error)
	StartBot(ctx context.Context, userID string) (model.BotStatus, error)
	StopBot(ctx context.Context, userID string) (model.BotStatus, error)

	TestMT5Connection(ctx context.Context, req model.MT5ConnectTestRequest) (model.MT5ConnectTestResponse, error)
	SaveMT5Account(ctx context.Context, req model.MT5AccountSaveRequest) error
	SaveTradingConfig(ctx context.Context, req model.TradingConfigRequest) error
	SaveRiskConfig(ctx context.Context, req model.RiskConfigRequest) error
	SaveSessionConfig(ctx context.Context, req model.SessionConfigRequest) error
}

// Controller holds the UI state and turns user actions into backend calls.
// A failed action leaves the stage unchanged and records the message in State.Err.
type Controller struct {
	backend Backend
	cfg     config.AppConfig
	logger  logger.Logger

	now func() time.Time

	mu    sync.RWMutex
	state State
}

func NewController(backend Backend, cfg config.AppConfig, logger logger.Logger) *Controller {
	return &Controller{
		backend: backend,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

func (c *Controller) Stage() Stage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Stage
}

// DefaultSettings pre-fills the configuration form.
func (c *Controller) DefaultSettings() SettingsForm {
	d := c.cfg.Defaults
	return SettingsForm{
		Symbols:        []string{d.Symbol},
		LotSize:        d.LotSize,
		MaxDailyLoss:   d.MaxDailyLoss,
		MaxOpenTrades:  d.MaxOpenTrades,
		SessionMinutes: d.SessionMinutes,
	}
}

// begin checks the stage and marks the controller busy. It returns the user id of the session.
func (c *Controller) begin(action string, stages ...Stage) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	allowed := false
	for _, s := range stages {
		if c.state.Stage == s {
			allowed = true
			break
		}
	}
	if !allowed {
		err := fmt.Errorf("%w: %s at %s", ErrWrongStage, action, c.state.Stage)
		c.state.Err = err.Error()
		return "", err
	}

	var userID string
	if c.state.Stage != StageLogin {
		if c.state.Session == nil {
			c.state.Err = ErrNotLoggedIn.Error()
			return "", ErrNotLoggedIn
		}
		userID = c.state.Session.UserID
	}

	c.state.Loading = true
	c.state.Err = ""
	return userID, nil
}

// finish clears the busy flag and records err; apply runs under the lock only on success.
func (c *Controller) finish(err error, apply func(s *State)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Loading = false
	if err != nil {
		c.state.Err = err.Error()
		return err
	}
	if apply != nil {
		apply(&c.state)
	}
	return nil
}

func (c *Controller) transition(s *State, to Stage) {
	c.logger.Infof("stage %s -> %s", s.Stage, to)
	s.Stage = to
}

func (c *Controller) Login(_ context.Context, email, password string) error {
	if _, err := c.begin("login", StageLogin); err != nil {
		return err
	}

	session, err := c.backend.Login(email, password)
	return c.finish(err, func(s *State) {
		if session.Mocked {
			c.logger.Warnf("session for %s is mocked locally", session.UserID)
		}
		s.Session = &session
		c.transition(s, StageOnboarding)
	})
}

func (c *Controller) CompleteOnboarding() error {
	if _, err := c.begin("complete onboarding", StageOnboarding); err != nil {
		return err
	}
	return c.finish(nil, func(s *State) {
		c.transition(s, StageBrokerConnect)
	})
}

// Back returns to the previous setup stage.
func (c *Controller) Back() error {
	if _, err := c.begin("back", StageBrokerConnect, StageConfiguration); err != nil {
		return err
	}
	return c.finish(nil, func(s *State) {
		c.transition(s, s.Stage-1)
	})
}

func (c *Controller) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger.Infof("stage %s -> %s", c.state.Stage, StageLogin)
	c.state = State{}
}

// ConnectBroker probes the credentials and saves the account only when the probe validated them.
func (c *Controller) ConnectBroker(ctx context.Context, form BrokerForm) error {
	userID, err := c.begin("connect broker", StageBrokerConnect)
	if err != nil {
		return err
	}

	probeReq := model.MT5ConnectTestRequest{
		Login:    strings.TrimSpace(form.Login),
		Password: form.Password,
		Server:   strings.TrimSpace(form.Server),
	}
	if form.TimeoutMs > 0 {
		timeout := form.TimeoutMs
		probeReq.TimeoutMs = &timeout
	}

	probe, err := c.backend.TestMT5Connection(ctx, probeReq)
	if err != nil {
		return c.finish(err, nil)
	}

	c.mu.Lock()
	c.state.LastProbe = &probe
	c.mu.Unlock()

	if probe.Status != model.MT5Validated {
		return c.finish(&BrokerError{Status: probe.Status, Message: probe.Message}, nil)
	}

	err = c.backend.SaveMT5Account(ctx, model.MT5AccountSaveRequest{
		UserID:   userID,
		Login:    probeReq.Login,
		Password: probeReq.Password,
		Server:   probeReq.Server,
	})
	return c.finish(err, func(s *State) {
		c.transition(s, StageConfiguration)
	})
}

// SaveConfiguration persists trading, risk and session settings in order, then the
// optional license key. Each write runs only if the previous one succeeded.
func (c *Controller) SaveConfiguration(ctx context.Context, form SettingsForm) error {
	userID, err := c.begin("save configuration", StageConfiguration)
	if err != nil {
		return err
	}

	steps := []func() error{
		func() error {
			return c.backend.SaveTradingConfig(ctx, model.TradingConfigRequest{
				UserID:  userID,
				Symbols: form.Symbols,
				LotSize: form.LotSize,
			})
		},
		func() error {
			return c.backend.SaveRiskConfig(ctx, model.RiskConfigRequest{
				UserID:        userID,
				MaxDailyLoss:  form.MaxDailyLoss,
				MaxOpenTrades: form.MaxOpenTrades,
			})
		},
		func() error {
			return c.backend.SaveSessionConfig(ctx, model.SessionConfigRequest{
				UserID:          userID,
				DurationMinutes: form.SessionMinutes,
			})
		},
	}
	if key := strings.TrimSpace(form.LicenseKey); key != "" {
		steps = append(steps, func() error {
			return c.backend.ActivateLicense(ctx, model.LicenseActivateRequest{UserID: userID, LicenseKey: key})
		})
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return c.finish(err, nil)
		}
	}

	if err := c.finish(nil, func(s *State) { c.transition(s, StageHome) }); err != nil {
		return err
	}

	return c.Refresh(ctx)
}
