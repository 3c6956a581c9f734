package config

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	_addressDefault            = "http://127.0.0.1:8000"
	_closedTradesLimitDefault  = 10
	_notificationsLimitDefault = 20
	_logLevelDefault           = "info"
	_stubPortDefault           = "8000"

	_symbolDefault         = "XAUUSD"
	_lotSizeDefault        = 0.01
	_maxDailyLossDefault   = 100
	_maxOpenTradesDefault  = 3
	_sessionMinutesDefault = 240
)

const (
	AddressEnv  = "TRADING_API_ADDRESS"
	TimeoutEnv  = "TRADING_API_TIMEOUT"
	LogLevelEnv = "TRADING_LOG_LEVEL"
	StubPortEnv = "STUB_BACKEND_PORT"
)

type BackendConfig struct {
	Address           string        `yaml:"address"`
	Timeout           time.Duration `yaml:"timeout"`             // 0 keeps the transport default
	RequestsPerMinute int           `yaml:"requests_per_minute"` // 0 is unlimited
}

func (c *BackendConfig) Setup() error {
	c.Address = cmp.Or(c.Address, _addressDefault)

	u, err := url.Parse(c.Address)
	if err != nil {
		return fmt.Errorf("%w: can't parse backend address", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend address %q must be http or https", c.Address)
	}

	if c.Timeout < 0 {
		c.Timeout = 0
	}
	if c.RequestsPerMinute < 0 {
		c.RequestsPerMinute = 0
	}

	return nil
}

type DashboardConfig struct {
	ClosedTradesLimit  int `yaml:"closed_trades_limit"`
	NotificationsLimit int `yaml:"notifications_limit"`
}

func (c *DashboardConfig) Setup() {
	if c.ClosedTradesLimit <= 0 {
		c.ClosedTradesLimit = _closedTradesLimitDefault
	}
	if c.NotificationsLimit <= 0 {
		c.NotificationsLimit = _notificationsLimitDefault
	}
}

// FormDefaults pre-fill the configuration stage.
type FormDefaults struct {
	Symbol         string  `yaml:"symbol"`
	LotSize        float64 `yaml:"lot_size"`
	MaxDailyLoss   float64 `yaml:"max_daily_loss"`
	MaxOpenTrades  int     `yaml:"max_open_trades"`
	SessionMinutes int     `yaml:"session_minutes"`
}

func (c *FormDefaults) Setup() {
	c.Symbol = cmp.Or(c.Symbol, _symbolDefault)
	if c.LotSize <= 0 {
		c.LotSize = _lotSizeDefault
	}
	if c.MaxDailyLoss <= 0 {
		c.MaxDailyLoss = _maxDailyLossDefault
	}
	if c.MaxOpenTrades <= 0 {
		c.MaxOpenTrades = _maxOpenTradesDefault
	}
	if c.SessionMinutes <= 0 {
		c.SessionMinutes = _sessionMinutesDefault
	}
}

type StubConfig struct {
	Port string `yaml:"port"`
}

type AppConfig struct {
	LogLevel  string          `yaml:"log_level"`
	Backend   BackendConfig   `yaml:"backend"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Defaults  FormDefaults    `yaml:"defaults"`
	Stub      StubConfig      `yaml:"stub"`
}

func (c *AppConfig) ValidateAndSetup() error {
	c.LogLevel = cmp.Or(c.LogLevel, _logLevelDefault)

	if err := c.Backend.Setup(); err != nil {
		return fmt.Errorf("%w: can't setup backend", err)
	}

	c.Dashboard.Setup()
	c.Defaults.Setup()

	c.Stub.Port = cmp.Or(c.Stub.Port, _stubPortDefault)
	if _, err := strconv.Atoi(c.Stub.Port); err != nil {
		return fmt.Errorf("%w: invalid stub port %q", err, c.Stub.Port)
	}

	return nil
}

// ApplyEnv overrides file values with the non-empty environment variables.
func (c *AppConfig) ApplyEnv() error {
	c.Backend.Address = cmp.Or(os.Getenv(AddressEnv), c.Backend.Address)
	c.LogLevel = cmp.Or(os.Getenv(LogLevelEnv), c.LogLevel)
	c.Stub.Port = cmp.Or(os.Getenv(StubPortEnv), c.Stub.Port)

	if v := os.Getenv(TimeoutEnv); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: can't parse %s", err, TimeoutEnv)
		}
		c.Backend.Timeout = d
	}

	return nil
}

// LoadAppConfig reads filename when it exists, applies the environment and fills defaults.
func LoadAppConfig(filename string) (AppConfig, error) {
	var cfg AppConfig

	input, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("%w: can't read file", err)
	default:
		if err := yaml.Unmarshal(input, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: can't unmarshal config", err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return cfg, fmt.Errorf("%w: can't apply env", err)
	}

	if err := cfg.ValidateAndSetup(); err != nil {
		return cfg, fmt.Errorf("%w: can't setup cfg", err)
	}

	return cfg, nil
}
