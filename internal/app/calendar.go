package app

import (
	"time"

	"github.com/klabast/wb-services/dk-days/internal/stay"
)

// CalendarYears returns the years shown around today
func CalendarYears(cfg Config, today time.Time) []int {
	years := make([]int, 0, cfg.YearsBack+cfg.YearsAhead+1)
	for y := today.Year() - cfg.YearsBack; y <= today.Year()+cfg.YearsAhead; y++ {
		years = append(years, y)
	}
	return years
}

// ComputeYears runs the window computation over every displayed year
func ComputeYears(cfg Config, presence *stay.PresenceSet, today time.Time) ([]stay.DayRecord, error) {
	years := CalendarYears(cfg, today)
	start := stay.NewDate(years[0], time.January, 1)
	end := stay.NewDate(years[len(years)-1], time.December, 31)
	return ComputeRange(cfg.Window, presence, start, end)
}

// BuildCalendar renders records into Monday-first month grids, one per month of each year
func BuildCalendar(cfg Config, presence *stay.PresenceSet, records []stay.DayRecord, today time.Time) CalendarData {
	byDate := make(map[time.Time]stay.DayRecord, len(records))
	for _, r := range records {
		byDate[r.Date] = r
	}
	today = stay.Date(today)

	data := make(CalendarData)
	for _, year := range CalendarYears(cfg, today) {
		holidays := GetDanishHolidays(year)
		data[year] = make(map[int]*MonthView, 12)

		for month := time.January; month <= time.December; month++ {
			first := stay.NewDate(year, month, 1)
			view := &MonthView{Name: month.String()}

			// Monday=0 ... Sunday=6
			lead := (int(first.Weekday()) + 6) % 7
			for i := 0; i < lead; i++ {
				view.Days = append(view.Days, DayCell{Category: "none"})
			}

			for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
				key := stay.FormatDate(d)
				cell := DayCell{
					Day:      d.Day(),
					Date:     key,
					Category: "none",
					Past:     d.Before(today),
					Holiday:  holidays[key],
				}
				if r, ok := byDate[d]; ok {
					cell.Present = r.Present
					cell.Accumulated = r.WindowCount
					cell.Warning = r.OverLimit
					cell.Status = string(stay.Classify(r, today))
				}
				if cat, ok := presence.Category(d); ok {
					cell.Category = cat
				}
				view.Days = append(view.Days, cell)
			}
			data[year][int(month)] = view
		}
	}
	return data
}

// Summarize collects the headline numbers shown above the calendar
func Summarize(cfg Config, presence *stay.PresenceSet, records []stay.DayRecord) Summary {
	s := Summary{
		WindowLength: cfg.Window.WindowLength,
		MaxAllowed:   cfg.Window.MaxAllowed,
		PresentDays:  presence.Len(),
		Violations:   len(stay.Violations(records)),
		Headroom:     stay.Headroom(cfg.Window, records),
	}
	if peak, ok := stay.Peak(records); ok {
		s.PeakCount = peak.WindowCount
		s.PeakDate = stay.FormatDate(peak.Date)
	}
	return s
}

// RecordViews converts records to their wire form
func RecordViews(presence *stay.PresenceSet, records []stay.DayRecord) []DayRecordView {
	out := make([]DayRecordView, 0, len(records))
	for _, r := range records {
		v := DayRecordView{
			Date:        stay.FormatDate(r.Date),
			Present:     r.Present,
			WindowCount: r.WindowCount,
			OverLimit:   r.OverLimit,
		}
		if cat, ok := presence.Category(r.Date); ok {
			v.Category = cat
		}
		out = append(out, v)
	}
	return out
}
