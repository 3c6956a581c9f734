package api

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/STTM-NSU/trading-app/internal/config"
	"github.com/STTM-NSU/trading-app/internal/httplog"
	"github.com/STTM-NSU/trading-app/internal/logger"
	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const DefaultBaseURL = "http://127.0.0.1:8000"

// Client is a stateless mapping of backend endpoints to typed calls.
// Nothing it holds changes after New, so it is safe for concurrent use.
type Client struct {
	c       *resty.Client
	baseURL string

	rateLimiter ratelimit.Limiter
	validate    *validator.Validate
	tokenKey    []byte

	logger logger.Logger
}

func New(cfg config.BackendConfig, logger logger.Logger) *Client {
	client := resty.New().
		SetLogger(logger).
		SetTransport(httplog.Wrap(httplog.DefaultTransport(), httplog.Logging(logger))).
		AddContentTypeEncoder("json", encodeJSON)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	limiter := ratelimit.NewUnlimited()
	if cfg.RequestsPerMinute > 0 {
		limiter = ratelimit.New(cfg.RequestsPerMinute, ratelimit.Per(time.Minute))
	}

	return &Client{
		c:           client,
		baseURL:     normalizeBaseURL(cfg.Address),
		rateLimiter: limiter,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		tokenKey:    []byte(uuid.NewString()),
		logger:      logger,
	}
}

// normalizeBaseURL strips exactly one trailing slash.
func normalizeBaseURL(s string) string {
	if s == "" {
		return DefaultBaseURL
	}
	return strings.TrimSuffix(s, "/")
}

func encodeJSON(w io.Writer, v any) error {
	return sonic.ConfigDefault.NewEncoder(w).Encode(v)
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Close() error {
	c.c.Client().CloseIdleConnections()
	return c.c.Close()
}

func (c *Client) get(ctx context.Context, op, path string, query map[string]string, result any) error {
	return c.do(ctx, http.MethodGet, op, path, query, nil, result)
}

func (c *Client) post(ctx context.Context, op, path string, query map[string]string, body, result any) error {
	return c.do(ctx, http.MethodPost, op, path, query, body, result)
}

func (c *Client) put(ctx context.Context, op, path string, body any) error {
	return c.do(ctx, http.MethodPut, op, path, nil, body, nil)
}

// do performs one call. A nil result means the operation is write-only and the body is ignored.
func (c *Client) do(ctx context.Context, method, op, path string, query map[string]string, body, result any) error {
	c.rateLimiter.Take()

	req := c.c.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, c.baseURL+path)
	if err != nil {
		return newError("%s request failed: %s", op, err)
	}
	defer resp.Body.Close()

	c.logger.Debugf("got response %s status: %s, %s", resp.Request.URL, resp.Status(), resp.Duration())

	if !resp.IsSuccess() {
		return normalizeError(resp.StatusCode(), resp.Bytes(), op)
	}
	if result == nil {
		return nil
	}

	data := resp.Bytes()
	if len(data) == 0 {
		return newError("%s: can't decode response: empty body", op)
	}
	if err := sonic.Unmarshal(data, result); err != nil {
		return newError("%s: can't decode response: %s", op, err)
	}

	return nil
}

func userQuery(userID string) map[string]string {
	return map[string]string{"user_id": userID}
}
