package validators

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

// QueryInt reads an integer query parameter bounded by min and max.
func QueryInt(c *fiber.Ctx, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &Error{Message: "query parameter must be numeric", Details: map[string]string{key: "must be numeric"}}
	}
	if value < min || value > max {
		return 0, &Error{Message: "query parameter out of range", Details: map[string]string{key: fmt.Sprintf("must be between %d and %d", min, max)}}
	}
	return value, nil
}

// QueryTime reads a date (YYYY-MM-DD) or RFC 3339 timestamp. A bare date used
// as an upper bound extends to the end of that day.
func QueryTime(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, &Error{Message: "invalid date", Details: map[string]string{key: "must be YYYY-MM-DD or RFC 3339"}}
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// QueryList splits a comma separated query parameter, dropping blanks.
func QueryList(c *fiber.Ctx, key string) []string {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
