package app

// DayCell is one cell of a month grid.
// Leading cells before the 1st of the month have Day == 0 and no date.
type DayCell struct {
	Day         int    `json:"day,omitempty"`
	Date        string `json:"date,omitempty"`
	Present     bool   `json:"present"`
	Accumulated int    `json:"accumulated"`
	Category    string `json:"category"`
	Warning     bool   `json:"warning"`
	Past        bool   `json:"past"`
	Status      string `json:"status,omitempty"`
	Holiday     string `json:"holiday,omitempty"`
}

// MonthView is a Monday-first month grid
type MonthView struct {
	Name string    `json:"name"`
	Days []DayCell `json:"days"`
}

// CalendarData maps year -> month number -> grid
type CalendarData map[int]map[int]*MonthView

// Summary reports the headline numbers of a calendar computation
type Summary struct {
	WindowLength int    `json:"windowLength"`
	MaxAllowed   int    `json:"maxAllowed"`
	PresentDays  int    `json:"presentDays"`
	Violations   int    `json:"violations"`
	Headroom     int    `json:"headroom"`
	PeakCount    int    `json:"peakCount"`
	PeakDate     string `json:"peakDate,omitempty"`
}

// CalendarResponse is returned by the calendar and mutation endpoints
type CalendarResponse struct {
	Success      bool         `json:"success"`
	CalendarData CalendarData `json:"calendar_data"`
	Summary      Summary      `json:"summary"`
}

// DayRecordView is the wire form of a stay.DayRecord
type DayRecordView struct {
	Date        string `json:"date"`
	Present     bool   `json:"present"`
	Category    string `json:"category,omitempty"`
	WindowCount int    `json:"windowCount"`
	OverLimit   bool   `json:"overLimit"`
}
