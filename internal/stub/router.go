package stub

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/STTM-NSU/trading-app/internal/model"
	"github.com/bytedance/sonic"
	"github.com/gorilla/mux"
)

func (b *Backend) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(b.latencyMiddleware)

	r.HandleFunc("/health", b.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/summary", b.handleSummary).Methods(http.MethodGet)
	r.HandleFunc("/dashboard/summary", b.handleDashboardSummary).Methods(http.MethodGet)
	r.HandleFunc("/license/status", b.handleLicenseStatus).Methods(http.MethodGet)
	r.HandleFunc("/license/activate", b.handleLicenseActivate).Methods(http.MethodPost)

	r.HandleFunc("/bot/status", b.handleBotStatus).Methods(http.MethodGet)
	r.HandleFunc("/bot/start", b.handleBotStart).Methods(http.MethodPost)
	r.HandleFunc("/bot/stop", b.handleBotStop).Methods(http.MethodPost)

	r.HandleFunc("/pnl/daily", b.handleDailyPnl).Methods(http.MethodGet)
	r.HandleFunc("/trades/open", b.handleOpenTrades).Methods(http.MethodGet)
	r.HandleFunc("/trades/closed", b.handleClosedTrades).Methods(http.MethodGet)
	r.HandleFunc("/notifications", b.handleNotifications).Methods(http.MethodGet)
	r.HandleFunc("/metrics/latency", b.handleLatencyMetrics).Methods(http.MethodGet)

	r.HandleFunc("/mt5/connect-test", b.handleMT5ConnectTest).Methods(http.MethodPost)
	r.HandleFunc("/mt5/account", b.handleMT5Account).Methods(http.MethodPut)
	r.HandleFunc("/trading/config", b.handleTradingConfig).Methods(http.MethodPut)
	r.HandleFunc("/risk/config", b.handleRiskConfig).Methods(http.MethodPut)
	r.HandleFunc("/session/config", b.handleSessionConfig).Methods(http.MethodPut)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

func (b *Backend) latencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		route := r.URL.Path
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		b.observe(route, time.Since(start))
		b.logger.Debugf("stub %s %s in %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, model.ErrorResponse{Detail: detail})
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return false
	}
	return true
}

func requireUser(w http.ResponseWriter, userID string) bool {
	if strings.TrimSpace(userID) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "user_id is required")
		return false
	}
	return true
}

func queryUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.URL.Query().Get("user_id")
	return userID, requireUser(w, userID)
}

func queryLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(v)
	if err != nil || limit < 0 {
		writeDetail(w, http.StatusUnprocessableEntity, "limit must be a non-negative integer")
		return 0, false
	}
	return limit, true
}

func (b *Backend) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.Health{Status: "ok"})
}

func (b *Backend) handleSummary(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.summary(DemoUserID))
}

func (b *Backend) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUser(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.summary(userID))
}

func (b *Backend) handleLicenseStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUser(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.account(userID).license)
}

func (b *Backend) handleLicenseActivate(w http.ResponseWriter, r *http.Request) {
	var req model.LicenseActivateRequest
	if !readJSON(w, r, &req) || !requireUser(w, req.UserID) {
		return
	}
	key := strings.TrimSpace(req.LicenseKey)
	switch {
	case key == "":
		writeDetail(w, http.StatusUnprocessableEntity, "license_key is required")
		return
	case strings.HasPrefix(strings.ToUpper(key), "INVALID"):
		writeDetail(w, http.StatusBadRequest, "license key is not valid")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.activateLicense(req)
	writeJSON(w, http.StatusOK, b.account(req.UserID).license)
}

func (b *Backend) handleBotStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUser(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.account(userID).bot)
}

func (b *Backend) handleBotStart(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUser(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	status, reject := b.startBot(userID)
	if reject != "" {
		writeDetail(w, http.StatusConflict, reject)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (b *Backend) handleBotStop(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUser(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	status, reject := b.stopBot(userID)
	if reject != "" {
		writeDetail(w, http.StatusConflict, reject)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (b *Backend) handleDailyPnl(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUser(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.pnl(userID))
}

func (b *Backend) handleOpenTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUser(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	trades := b.account(userID).open
	if trades == nil {
		trades = []model.OpenTrade{}
	}
	writeJSON(w, http.StatusOK, trades)
}

func (b *Backend) handleClosedTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUser(w, r)
	if !ok {
		return
	}
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.closedTrades(userID, limit))
}

func (b *Backend) handleNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUser(w, r)
	if !ok {
		return
	}
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.notificationsFor(userID, r.URL.Query().Get("channel"), limit))
}

func (b *Backend) handleLatencyMetrics(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.latencyStats())
}

func (b *Backend) handleMT5ConnectTest(w http.ResponseWriter, r *http.Request) {
	var req model.MT5ConnectTestRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Login == "" || req.Password == "" || req.Server == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "login, password and server are required")
		return
	}

	resp := model.MT5ConnectTestResponse{
		Status:    model.MT5Validated,
		Provider:  "mt5",
		LatencyMs: _connectLatencyMs,
		Message:   "connection validated",
	}
	switch {
	case strings.EqualFold(req.Server, "offline"):
		resp.Status = model.MT5ProviderUnavailable
		resp.Message = "broker provider is unavailable"
	case req.Password == "invalid":
		resp.Status = model.MT5Failed
		resp.Message = "invalid credentials"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *Backend) handleMT5Account(w http.ResponseWriter, r *http.Request) {
	var req model.MT5AccountSaveRequest
	if !readJSON(w, r, &req) || !requireUser(w, req.UserID) {
		return
	}
	if req.Login == "" || req.Password == "" || req.Server == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "login, password and server are required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	a := b.account(req.UserID)
	a.mt5 = &req
	b.notify(a, model.InAppChannel, "broker_connected", "Broker connected", "MT5 account "+req.Login+" saved")
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func (b *Backend) handleTradingConfig(w http.ResponseWriter, r *http.Request) {
	var req model.TradingConfigRequest
	if !readJSON(w, r, &req) || !requireUser(w, req.UserID) {
		return
	}
	if len(req.Symbols) == 0 || req.LotSize <= 0 {
		writeDetail(w, http.StatusUnprocessableEntity, "symbols and a positive lot_size are required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.account(req.UserID).trading = &req
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func (b *Backend) handleRiskConfig(w http.ResponseWriter, r *http.Request) {
	var req model.RiskConfigRequest
	if !readJSON(w, r, &req) || !requireUser(w, req.UserID) {
		return
	}
	if req.MaxDailyLoss <= 0 || req.MaxOpenTrades <= 0 {
		writeDetail(w, http.StatusUnprocessableEntity, "max_daily_loss and max_open_trades must be positive")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.account(req.UserID).risk = &req
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func (b *Backend) handleSessionConfig(w http.ResponseWriter, r *http.Request) {
	var req model.SessionConfigRequest
	if !readJSON(w, r, &req) || !requireUser(w, req.UserID) {
		return
	}
	if req.DurationMinutes <= 0 {
		writeDetail(w, http.StatusUnprocessableEntity, "duration_minutes must be positive")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.account(req.UserID).session = &req
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}
