package stay

import "time"

// Status is the display classification of a day
type Status string

const (
	StatusPastPresent Status = "past-present"
	StatusPast        Status = "past"
	StatusOverPresent Status = "over-present"
	StatusOver        Status = "over"
	StatusPresent     Status = "present"
	StatusFree        Status = "free"
)

// Classify maps a record to its display status relative to today.
// Days before today are frozen history and never shown as violations.
func Classify(r DayRecord, today time.Time) Status {
	switch {
	case r.Date.Before(Date(today)):
		if r.Present {
			return StatusPastPresent
		}
		return StatusPast
	case r.OverLimit:
		if r.Present {
			return StatusOverPresent
		}
		return StatusOver
	case r.Present:
		return StatusPresent
	default:
		return StatusFree
	}
}
