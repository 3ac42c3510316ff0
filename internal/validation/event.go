package validation

import (
	"errors"
	"strings"
)

var ErrEmptyEvent = errors.New("event must be a non-empty string")

// NormalizeEvent trims surrounding whitespace and rejects events that
// are empty afterwards. Rejection happens here, at the boundary; the
// store never sees a malformed event.
func NormalizeEvent(event string) (string, error) {
	trimmed := strings.TrimSpace(event)
	if trimmed == "" {
		return "", ErrEmptyEvent
	}
	return trimmed, nil
}

// OrEmpty normalizes an optional label to the empty string. Both the
// store and the Prometheus view must see the same normalized value.
func OrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
