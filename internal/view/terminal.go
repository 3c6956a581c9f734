package view

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/STTM-NSU/trading-app/internal/app"
	"github.com/STTM-NSU/trading-app/internal/logger"
	"github.com/shopspring/decimal"
)

const (
	_cmdQuit    = "quit"
	_cmdBack    = "back"
	_cmdRefresh = "refresh"
	_cmdStart   = "start"
	_cmdStop    = "stop"
	_cmdLogout  = "logout"
)

var errQuit = errors.New("quit")

// Terminal is a line-based front-end over the controller.
type Terminal struct {
	ctrl   *app.Controller
	in     *bufio.Scanner
	out    io.Writer
	logger logger.Logger

	// input problems that never reached the controller
	inputErr string
}

func NewTerminal(ctrl *app.Controller, in io.Reader, out io.Writer, logger logger.Logger) *Terminal {
	return &Terminal{
		ctrl:   ctrl,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger,
	}
}

// Run renders the current stage and reads the next action until quit, end of input or ctx is done.
func (t *Terminal) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		state := t.ctrl.State()
		if t.inputErr != "" {
			state.Err = t.inputErr
			t.inputErr = ""
		}
		if err := Render(t.out, state); err != nil {
			return fmt.Errorf("%w: can't render", err)
		}

		err := t.step(ctx, state.Stage)
		switch {
		case errors.Is(err, errQuit):
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		case err != nil:
			// already stored in the controller state or inputErr
			t.logger.Debugf("%s: action failed", err)
		}
		fmt.Fprintln(t.out)
	}
}

func (t *Terminal) step(ctx context.Context, stage app.Stage) error {
	switch stage {
	case app.StageLogin:
		return t.login(ctx)
	case app.StageOnboarding:
		if _, err := t.ask("press enter to continue"); err != nil {
			return err
		}
		return t.ctrl.CompleteOnboarding()
	case app.StageBrokerConnect:
		return t.broker(ctx)
	case app.StageConfiguration:
		return t.configuration(ctx)
	case app.StageHome:
		return t.home(ctx)
	default:
		return fmt.Errorf("unknown stage %d", stage)
	}
}

func (t *Terminal) login(ctx context.Context) error {
	email, err := t.ask("email")
	if err != nil {
		return err
	}
	password, err := t.ask("password")
	if err != nil {
		return err
	}
	return t.ctrl.Login(ctx, email, password)
}

func (t *Terminal) broker(ctx context.Context) error {
	login, err := t.ask("mt5 login (back to return)")
	if err != nil {
		return err
	}
	if login == _cmdBack {
		return t.ctrl.Back()
	}

	var form app.BrokerForm
	form.Login = login
	if form.Password, err = t.ask("mt5 password"); err != nil {
		return err
	}
	if form.Server, err = t.ask("mt5 server"); err != nil {
		return err
	}

	timeout, err := t.askDefault("probe timeout ms", "0")
	if err != nil {
		return err
	}
	if form.TimeoutMs, err = t.parseInt("probe timeout ms", timeout); err != nil {
		return err
	}

	return t.ctrl.ConnectBroker(ctx, form)
}

func (t *Terminal) configuration(ctx context.Context) error {
	form := t.ctrl.DefaultSettings()

	symbols, err := t.askDefault("symbols (back to return)", strings.Join(form.Symbols, ","))
	if err != nil {
		return err
	}
	if symbols == _cmdBack {
		return t.ctrl.Back()
	}
	form.Symbols = splitSymbols(symbols)

	fields := []struct {
		label string
		def   string
		set   func(string) error
	}{
		{"lot size", Quantity(form.LotSize), func(s string) (err error) {
			form.LotSize, err = t.parseAmount("lot size", s)
			return err
		}},
		{"max daily loss", Money(form.MaxDailyLoss), func(s string) (err error) {
			form.MaxDailyLoss, err = t.parseAmount("max daily loss", s)
			return err
		}},
		{"max open trades", strconv.Itoa(form.MaxOpenTrades), func(s string) (err error) {
			form.MaxOpenTrades, err = t.parseInt("max open trades", s)
			return err
		}},
		{"session minutes", strconv.Itoa(form.SessionMinutes), func(s string) (err error) {
			form.SessionMinutes, err = t.parseInt("session minutes", s)
			return err
		}},
	}
	for _, f := range fields {
		v, err := t.askDefault(f.label, f.def)
		if err != nil {
			return err
		}
		if err := f.set(v); err != nil {
			return err
		}
	}

	if form.LicenseKey, err = t.ask("license key (optional)"); err != nil {
		return err
	}

	return t.ctrl.SaveConfiguration(ctx, form)
}

func (t *Terminal) home(ctx context.Context) error {
	cmd, err := t.askDefault("command: refresh, start, stop, logout, quit", _cmdRefresh)
	if err != nil {
		return err
	}

	switch cmd {
	case _cmdRefresh:
		return t.ctrl.Refresh(ctx)
	case _cmdStart:
		return t.ctrl.StartBot(ctx)
	case _cmdStop:
		return t.ctrl.StopBot(ctx)
	case _cmdLogout:
		t.ctrl.Logout()
		return nil
	default:
		t.inputErr = fmt.Sprintf("unknown command %q", cmd)
		return errors.New(t.inputErr)
	}
}

// ask returns the trimmed line; quit and end of input both end the session.
func (t *Terminal) ask(label string) (string, error) {
	if _, err := fmt.Fprintf(t.out, "%s: ", label); err != nil {
		return "", err
	}
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", fmt.Errorf("%w: can't read input", err)
		}
		return "", errQuit
	}

	line := strings.TrimSpace(t.in.Text())
	if strings.EqualFold(line, _cmdQuit) {
		return "", errQuit
	}
	return line, nil
}

func (t *Terminal) askDefault(label, def string) (string, error) {
	v, err := t.ask(fmt.Sprintf("%s [%s]", label, def))
	if err != nil {
		return "", err
	}
	if v == "" {
		return def, nil
	}
	return strings.ToLower(v), nil
}

func (t *Terminal) parseAmount(label, s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.inputErr = fmt.Sprintf("%s must be a number", label)
		return 0, fmt.Errorf("%w: can't parse %s", err, label)
	}
	return d.InexactFloat64(), nil
}

func (t *Terminal) parseInt(label, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		t.inputErr = fmt.Sprintf("%s must be a whole number", label)
		return 0, fmt.Errorf("%w: can't parse %s", err, label)
	}
	return n, nil
}

func splitSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToUpper(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
