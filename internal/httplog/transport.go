package httplog

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/STTM-NSU/trading-app/internal/logger"
)

func DefaultTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Middleware wraps an http.RoundTripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// Wrap applies middlewares so that the first one is the outermost.
func Wrap(base http.RoundTripper, middlewares ...Middleware) http.RoundTripper {
	for i := len(middlewares) - 1; i >= 0; i-- {
		base = middlewares[i](base)
	}
	return base
}

// Logging writes one debug line per round trip. Bodies are never logged: they carry broker passwords.
func Logging(l logger.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			duration := time.Since(start)

			if err != nil {
				l.Debugf("%s %s failed after %s: %s", req.Method, req.URL.Redacted(), duration, err)
				return resp, err
			}

			l.Debugf("%s %s -> %d in %s headers=%s", req.Method, req.URL.Redacted(), resp.StatusCode, duration, redactHeaders(req.Header))
			return resp, nil
		})
	}
}

var _sensitiveHeaders = map[string]struct{}{
	"authorization": {},
	"cookie":        {},
	"set-cookie":    {},
	"x-api-key":     {},
	"x-auth-token":  {},
}

func isSensitiveHeader(name string) bool {
	_, ok := _sensitiveHeaders[strings.ToLower(name)]
	return ok
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if isSensitiveHeader(k) {
			out[k] = "[REDACTED]"
			continue
		}
		out[k] = strings.Join(v, ", ")
	}
	return out
}
