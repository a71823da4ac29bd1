package wire

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Decode parses a response body into one of the fixed shapes.
func Decode[T any](body []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &v, nil
}

// StatusOK reports whether a status field carries the platform's success
// sentinel. The comparison is case-insensitive; the server has returned
// both "ok" and "OK" historically.
func StatusOK(status string) bool {
	return strings.EqualFold(status, "ok")
}

// ErrorMessage pulls a human-readable complaint out of an error body
// without requiring the body to match any fixed shape.
func ErrorMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "message").String(); msg != "" {
		return msg
	}
	if msg := gjson.GetBytes(body, "error_title").String(); msg != "" {
		return msg
	}
	msg := string(body)
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
