package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Truthy reports whether a decoded JSON value counts as present for field
// resolution. Empty strings, zero numbers, false and nil lose; objects and
// arrays always win.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	default:
		return true
	}
}

// pick returns the first present-and-truthy value among the candidate keys
func pick(raw map[string]any, keys ...string) any {
	if raw == nil {
		return nil
	}
	for _, key := range keys {
		if v, ok := raw[key]; ok && Truthy(v) {
			return v
		}
	}
	return nil
}

// str renders a scalar candidate as a string; identifiers arrive both as
// strings and as JSON numbers
func str(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// FixURL validates an image candidate: only absolute http(s) string URLs
// pass, everything else resolves to the empty string so the caller can
// substitute the fallback asset.
func FixURL(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	return ""
}

// firstURL runs each candidate key through FixURL and returns the first hit
func firstURL(raw map[string]any, keys ...string) string {
	if raw == nil {
		return ""
	}
	for _, key := range keys {
		if u := FixURL(raw[key]); u != "" {
			return u
		}
	}
	return ""
}

// ParseNumber coerces a scalar to a float64, stripping everything that is
// not a digit or decimal point from strings ("1,234 ETH" parses as 1234).
// The second return is false when nothing numeric can be recovered.
func ParseNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		var b strings.Builder
		for _, r := range val {
			if (r >= '0' && r <= '9') || r == '.' {
				b.WriteRune(r)
			}
		}
		n, err := strconv.ParseFloat(b.String(), 64)
		if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// ToNumber is the tolerant coercion used for sorting and display counters;
// unparseable input collapses to 0
func ToNumber(v any) float64 {
	n, ok := ParseNumber(v)
	if !ok {
		return 0
	}
	return n
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ToMillis normalizes the many end-time encodings to epoch milliseconds.
// Numbers below 1e12 are unix seconds, larger numbers already milliseconds;
// strings are parsed as dates. Anything else yields nil (no countdown).
func ToMillis(v any) *int64 {
	switch val := v.(type) {
	case float64:
		if val == 0 {
			return nil
		}
		ms := int64(val)
		if val < 1e12 {
			ms = int64(val * 1000)
		}
		return &ms
	case string:
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, val); err == nil {
				ms := ts.UnixMilli()
				return &ms
			}
		}
		return nil
	default:
		return nil
	}
}
