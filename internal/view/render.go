package view

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/STTM-NSU/trading-app/internal/app"
	"github.com/STTM-NSU/trading-app/internal/model"
)

// Render writes the screen for the current stage.
func Render(w io.Writer, s app.State) error {
	p := &printer{w: w}

	p.line("== %s ==", s.Stage)
	if s.Session != nil {
		suffix := ""
		if s.Session.Mocked {
			suffix = " (local session)"
		}
		p.line("signed in as %s%s", s.Session.Email, suffix)
	}

	switch s.Stage {
	case app.StageLogin:
		p.line("enter your email and password")
	case app.StageOnboarding:
		p.line("the bot trades on your MetaTrader 5 account within the risk limits you set")
		p.line("next: connect your broker account")
	case app.StageBrokerConnect:
		p.line("enter MT5 login, password and server")
		if s.LastProbe != nil {
			renderProbe(p, *s.LastProbe)
		}
	case app.StageConfiguration:
		p.line("set symbols, lot size, risk limits, session length and an optional license key")
	case app.StageHome:
		if s.Loaded {
			renderDashboard(p, s.Dashboard)
		} else {
			p.line("dashboard not loaded")
		}
	}

	if s.Err != "" {
		p.line("")
		p.line("error: %s", s.Err)
	}

	return p.err
}

func renderProbe(p *printer, probe model.MT5ConnectTestResponse) {
	p.line("last check: %s via %s in %s", probe.Status, cmp.Or(probe.Provider, "-"), Millis(probe.LatencyMs))
	if probe.Message != "" {
		p.line("  %s", probe.Message)
	}
}

func renderDashboard(p *printer, d app.Dashboard) {
	license := "inactive"
	if d.License.Valid {
		license = "active until " + Timestamp(optional(d.License.ExpiresAt))
	}
	bot := "stopped"
	if d.Bot.Running {
		bot = "running since " + Timestamp(optional(d.Bot.StartedAt))
	} else if d.Bot.StopReason != nil {
		bot = "stopped: " + *d.Bot.StopReason
	}

	p.line("license: %s", license)
	if d.License.Message != "" && !d.License.Valid {
		p.line("  %s", d.License.Message)
	}
	p.line("bot: %s", bot)
	p.line("")

	p.table(func(tw io.Writer) {
		fmt.Fprintf(tw, "balance\t%s\tequity\t%s\tmargin\t%s\n",
			Money(d.Summary.Balance), Money(d.Summary.Equity), Money(d.Summary.Margin))
		fmt.Fprintf(tw, "realized\t%s\tunrealized\t%s\ttotal\t%s\n",
			Signed(d.Pnl.RealizedPnl), Signed(d.Pnl.UnrealizedPnl), Signed(d.Pnl.TotalPnl))
	})

	p.line("")
	p.line("open trades (%d)", len(d.OpenTrades))
	if len(d.OpenTrades) > 0 {
		p.table(func(tw io.Writer) {
			fmt.Fprintln(tw, "id\tsymbol\tside\tqty\tentry\topened")
			for _, t := range d.OpenTrades {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Symbol, t.Side, Quantity(t.Quantity), Money(t.EntryPrice), Timestamp(t.OpenedAt))
			}
		})
	}

	p.line("")
	p.line("closed trades (%d)", len(d.ClosedTrades))
	if len(d.ClosedTrades) > 0 {
		p.table(func(tw io.Writer) {
			fmt.Fprintln(tw, "id\tsymbol\tside\tqty\tentry\tclose\tpnl\treason\tclosed")
			for _, t := range d.ClosedTrades {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Symbol, t.Side, Quantity(t.Quantity), Money(t.EntryPrice), Money(t.ClosePrice),
					Signed(t.Pnl), t.CloseReason, Timestamp(t.ClosedAt))
			}
		})
	}

	p.line("")
	p.line("notifications (%d)", len(d.Notifications))
	for _, n := range d.Notifications {
		p.line("  [%s] %s: %s", Timestamp(n.CreatedAt), n.Title, n.Message)
	}

	if len(d.Latency) > 0 {
		p.line("")
		p.line("latency")
		p.table(func(tw io.Writer) {
			fmt.Fprintln(tw, "route\tcount\tp50\tp95\tp99")
			routes := make([]string, 0, len(d.Latency))
			for r := range d.Latency {
				routes = append(routes, r)
			}
			slices.Sort(routes)
			for _, r := range routes {
				m := d.Latency[r]
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", r, m.Count, Millis(m.P50), Millis(m.P95), Millis(m.P99))
			}
		})
	}

	if !d.UpdatedAt.IsZero() {
		p.line("")
		p.line("updated %s", d.UpdatedAt.Format("15:04:05"))
	}
}

// printer remembers the first write error so rendering code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) table(fill func(tw io.Writer)) {
	if p.err != nil {
		return
	}
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fill(tw)
	if p.err = tw.Flush(); p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, b.String())
}
