package stay

import (
	"sort"
	"time"
)

// WindowConfig describes an "N days out of M days" rule
type WindowConfig struct {
	WindowLength int `json:"windowLength"`
	MaxAllowed   int `json:"maxAllowed"`
}

// Preset names
const (
	PresetDefault  = "default"
	PresetHalfYear = "half-year"
	PresetQuarter  = "quarter"
)

// Presets are the rule variants the tracker has been run with
var Presets = map[string]WindowConfig{
	PresetDefault:  {WindowLength: 180, MaxAllowed: 42},
	PresetHalfYear: {WindowLength: 183, MaxAllowed: 41},
	PresetQuarter:  {WindowLength: 91, MaxAllowed: 41},
}

// DefaultConfig returns the 180/42 rule
func DefaultConfig() WindowConfig {
	return Presets[PresetDefault]
}

// PresetNames returns the preset names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the window length and the limit
func (c WindowConfig) Validate() error {
	if c.WindowLength < 1 {
		return &InvalidConfigError{Field: "windowLength", Value: c.WindowLength, Reason: "must be at least 1"}
	}
	if c.MaxAllowed < 0 {
		return &InvalidConfigError{Field: "maxAllowed", Value: c.MaxAllowed, Reason: "must not be negative"}
	}
	return nil
}

// DayRecord is the computed state of one calendar day
type DayRecord struct {
	Date        time.Time `json:"date"`
	Present     bool      `json:"present"`
	WindowCount int       `json:"windowCount"`
	OverLimit   bool      `json:"overLimit"`
}

// Compute returns one DayRecord per day in [start, end], ascending.
//
// WindowCount for day d is the number of present dates in
// [d-WindowLength+1, d]. Presence outside the range still counts for the
// in-range days whose window reaches it. The count is carried forward day by
// day: the entering day is added and the day falling out of the window is
// subtracted.
func Compute(presence *PresenceSet, cfg WindowConfig, start, end time.Time) ([]DayRecord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start, end = Date(start), Date(end)
	if end.Before(start) {
		return nil, &InvalidRangeError{Start: start, End: end}
	}

	// seed with the history preceding start: [start-W+1, start-1]
	count := 0
	for i := cfg.WindowLength - 1; i >= 1; i-- {
		if presence.Contains(start.AddDate(0, 0, -i)) {
			count++
		}
	}

	records := make([]DayRecord, 0, DaysBetween(start, end)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		present := presence.Contains(d)
		if present {
			count++
		}
		if presence.Contains(d.AddDate(0, 0, -cfg.WindowLength)) && !d.Equal(start) {
			count--
		}
		records = append(records, DayRecord{
			Date:        d,
			Present:     present,
			WindowCount: count,
			OverLimit:   count > cfg.MaxAllowed,
		})
	}
	return records, nil
}

// CountAt counts present dates in the window ending on d by direct scan
func CountAt(presence *PresenceSet, cfg WindowConfig, d time.Time) int {
	d = Date(d)
	from := d.AddDate(0, 0, -(cfg.WindowLength - 1))
	n := 0
	for _, p := range presence.Dates() {
		if !p.Before(from) && !p.After(d) {
			n++
		}
	}
	return n
}

// Headroom returns the smallest remaining allowance across records.
// A negative value means the limit is exceeded somewhere.
func Headroom(cfg WindowConfig, records []DayRecord) int {
	if len(records) == 0 {
		return cfg.MaxAllowed
	}
	least := cfg.MaxAllowed - records[0].WindowCount
	for _, r := range records[1:] {
		if left := cfg.MaxAllowed - r.WindowCount; left < least {
			least = left
		}
	}
	return least
}

// Violations returns the records that exceed the limit
func Violations(records []DayRecord) []DayRecord {
	var out []DayRecord
	for _, r := range records {
		if r.OverLimit {
			out = append(out, r)
		}
	}
	return out
}

// Peak returns the record with the highest window count (first on ties)
func Peak(records []DayRecord) (DayRecord, bool) {
	if len(records) == 0 {
		return DayRecord{}, false
	}
	best := records[0]
	for _, r := range records[1:] {
		if r.WindowCount > best.WindowCount {
			best = r
		}
	}
	return best, true
}
