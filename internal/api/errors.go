package api

import (
	"bytes"
	"fmt"

	"github.com/STTM-NSU/trading-app/internal/model"
	"github.com/bytedance/sonic"
)

// Error is the only failure the client returns. Callers get a message and nothing else.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// normalizeError prefers the backend's string "detail" and otherwise names the operation and status.
func normalizeError(status int, body []byte, op string) error {
	fallback := &Error{Message: fmt.Sprintf("%s failed with status %d", op, status)}

	if len(bytes.TrimSpace(body)) == 0 {
		return fallback
	}

	var resp model.ErrorResponse
	if err := sonic.Unmarshal(body, &resp); err != nil {
		return fallback
	}

	detail, ok := resp.Detail.(string)
	if !ok || detail == "" {
		return fallback
	}

	return &Error{Message: detail}
}
