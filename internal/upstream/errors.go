package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const maxDetailLength = 500

// ErrNotFound is returned when the upstream answers 404.
var ErrNotFound = errors.New("upstream: not found")

// Error describes a non-2xx upstream answer.
type Error struct {
	StatusCode int
	Body       string
	Detail     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Detail)
}

// Is reports 404 answers as ErrNotFound.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

func newError(status int, body []byte) *Error {
	raw := string(body)
	return &Error{StatusCode: status, Body: raw, Detail: extractDetail(raw)}
}

// extractDetail understands {"detail": "..."}, {"detail": [{"msg": ...}]} and
// bare [{"msg": ...}] validation lists. Anything else is returned truncated.
func extractDetail(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return http.StatusText(http.StatusBadGateway)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
		if detail, ok := obj["detail"]; ok {
			var s string
			if err := json.Unmarshal(detail, &s); err == nil {
				return s
			}
			if msgs := messages(detail); msgs != "" {
				return msgs
			}
		}
	}
	if msgs := messages(json.RawMessage(trimmed)); msgs != "" {
		return msgs
	}
	return truncate(trimmed, maxDetailLength)
}

func messages(raw json.RawMessage) string {
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return ""
	}
	msgs := make([]string, 0, len(items))
	for _, item := range items {
		if item.Msg != "" {
			msgs = append(msgs, item.Msg)
		}
	}
	return strings.Join(msgs, "\n")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
