package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lshigami/tutorkeys/internal/sessiongate"
	"github.com/rs/zerolog/log"
)

// SessionTime is a session start timestamp that tolerates rows written as
// text by older deployments. A value that cannot be parsed scans as unset
// rather than failing the query.
type SessionTime struct {
	Time  time.Time
	Valid bool
}

func NewSessionTime(t time.Time) SessionTime {
	return SessionTime{Time: t.UTC(), Valid: true}
}

func (SessionTime) GormDataType() string {
	return "time"
}

func (st *SessionTime) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*st = SessionTime{}
	case time.Time:
		// Some drivers hand back the zero time for unparseable text columns.
		if v.IsZero() {
			*st = SessionTime{}
			return nil
		}
		*st = NewSessionTime(v)
	case string:
		st.scanText(v)
	case []byte:
		st.scanText(string(v))
	default:
		return fmt.Errorf("cannot scan %T into SessionTime", value)
	}
	return nil
}

func (st *SessionTime) scanText(raw string) {
	t, err := sessiongate.ParseTimestamp(raw)
	if err != nil {
		log.Warn().Err(err).Msg("Unparseable session_start_time, treating session as freshly started")
		*st = SessionTime{}
		return
	}
	*st = SessionTime{Time: t, Valid: true}
}

func (st SessionTime) Value() (driver.Value, error) {
	if !st.Valid {
		return nil, nil
	}
	return st.Time.UTC(), nil
}

// OrNow returns the stored time, or now when the value is unset.
func (st SessionTime) OrNow(now time.Time) time.Time {
	if !st.Valid {
		return now
	}
	return st.Time
}

func (st SessionTime) MarshalJSON() ([]byte, error) {
	if !st.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(st.Time.Format(time.RFC3339))
}
