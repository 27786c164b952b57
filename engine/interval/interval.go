package interval

import (
	"strings"
	"time"

	str2duration "github.com/xhit/go-str2duration/v2"
)

// Spec is the normalized recurrence for a sync: a canonical interval plus a
// phase offset that anchors periodic execution to wall-clock boundaries, so
// two builds run at different times but with the same interval converge on
// the same schedule.
type Spec struct {
	Interval     time.Duration
	OffsetMillis int64
}

// MinInterval is the shortest cadence the runtime accepts.
const MinInterval = 5 * time.Minute

// namedCadences maps the supported human-readable cadences to their canonical
// durations.
var namedCadences = map[string]time.Duration{
	"every half day":     12 * time.Hour,
	"every half hour":    30 * time.Minute,
	"every quarter hour": 15 * time.Minute,
	"every hour":         time.Hour,
	"every day":          24 * time.Hour,
	"every month":        30 * 24 * time.Hour,
	"every week":         7 * 24 * time.Hour,
}

// Resolve converts cadence text into a normalized interval plus the phase
// offset of now within the current interval window. Free-form text follows
// the shape "every <duration>" with an integer-and-unit duration such as
// "45m" or "3h".
func Resolve(cadence string, now time.Time) (*Spec, error) {
	text := strings.TrimSpace(cadence)
	interval, ok := namedCadences[text]
	if !ok {
		rest := strings.TrimSpace(strings.Replace(text, "every ", "", 1))
		parsed, err := str2duration.ParseDuration(rest)
		if err != nil {
			return nil, NewInvalidError(cadence)
		}
		interval = parsed
	}
	if interval < MinInterval {
		return nil, NewTooShortError(cadence)
	}
	return &Spec{Interval: interval, OffsetMillis: offsetWithin(interval, now)}, nil
}

// offsetWithin positions now inside the current interval window. Only the
// minute-of-hour, second and millisecond components feed the modulus.
func offsetWithin(interval time.Duration, now time.Time) int64 {
	ms := interval.Milliseconds()
	if ms == 0 {
		return 0
	}
	elapsed := int64(now.Minute())*60_000 + int64(now.Second())*1_000 + int64(now.Nanosecond()/1e6)
	return elapsed % ms
}
