// Package sessiongate decides whether a student's chat window is still open.
//
// The window starts when the prompt is created and is never persisted as a
// flag: it is recomputed from the start time on every request.
package sessiongate

import (
	"fmt"
	"strings"
	"time"
)

// DefaultLimit is the chat window granted to every access key.
const DefaultLimit = 30 * time.Minute

// IsExpired reports whether more than limit has elapsed between start and now.
// Exactly limit is still inside the window.
func IsExpired(start, now time.Time, limit time.Duration) bool {
	return now.Sub(start) > limit
}

// Status is the gate's view of one session at a point in time.
type Status struct {
	Start     time.Time
	End       time.Time
	Remaining time.Duration
	Expired   bool
}

// Gate evaluates sessions against a fixed limit and clock.
type Gate struct {
	Limit time.Duration
	Now   func() time.Time
}

// New returns a Gate using the wall clock. A non-positive limit means DefaultLimit.
func New(limit time.Duration) *Gate {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Gate{Limit: limit, Now: func() time.Time { return time.Now().UTC() }}
}

// Check evaluates a session that started at start. A zero start is treated
// as a session that starts now.
func (g *Gate) Check(start time.Time) Status {
	now := g.Now()
	if start.IsZero() {
		start = now
	}
	end := start.Add(g.Limit)
	remaining := end.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		Start:     start,
		End:       end,
		Remaining: remaining,
		Expired:   IsExpired(start, now, g.Limit),
	}
}

// layouts accepted for timestamps persisted as text. Naive values are UTC.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses a session start stored as text.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised session timestamp %q", raw)
}
