package coach

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPathID is the NeetCode 150 path, used when a user has not picked one.
var DefaultPathID = uuid.MustParse("11111111-1111-1111-1111-111111111150")

// DateLayout is the storage format of calendar-date columns.
const DateLayout = "2006-01-02"

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// DateKey formats t as a UTC calendar date.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// StartOfDay truncates t to UTC midnight.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
