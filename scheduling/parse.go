package scheduling

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Tried in order, first match wins.
var (
	dateLayouts = []string{
		"2006-1-2",
		"2 January 2006",
		"2 Jan 2006",
	}
	timeLayouts = []string{
		"15:04:05",
		"15:04",
		"3:04 PM",
	}
)

// ParseDate accepts YYYY-MM-DD, "DD Month YYYY" and "DD Mon YYYY".
func ParseDate(text string) (time.Time, error) {
	value := strings.TrimSpace(text)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date %q", ErrInvalidFormat, text)
}

// ParseTime accepts HH:MM:SS, HH:MM and "HH:MM AM/PM". The result carries only the clock
// fields; its date part is the zero date.
func ParseTime(text string) (time.Time, error) {
	value := strings.ToUpper(strings.TrimSpace(text))
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized time %q", ErrInvalidFormat, text)
}

// ParseUserID coerces a caller-supplied identifier into a nonnegative integer. Strings,
// JSON numbers and Go integers are accepted; anything lossy is rejected.
func ParseUserID(value any) (int64, error) {
	var (
		id  int64
		err error
	)

	switch v := value.(type) {
	case string:
		id, err = strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	case json.Number:
		id, err = strconv.ParseInt(v.String(), 10, 64)
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || v > 1<<53 {
			err = fmt.Errorf("not an integer: %v", v)
		}
		id = int64(v)
	case int:
		id = int64(v)
	case int32:
		id = int64(v)
	case int64:
		id = v
	case nil:
		err = fmt.Errorf("missing")
	default:
		err = fmt.Errorf("unsupported type %T", value)
	}

	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidIdentifier, err)
	}
	if id < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrInvalidIdentifier, id)
	}
	return id, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}
