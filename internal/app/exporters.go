package app

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/klabast/wb-services/dk-days/internal/stay"
)

// CSV column names
const (
	CSVColumnDate     = "date"
	CSVColumnCategory = "category"
	ExportBaseName    = "denmark_schedule"
)

// ImportError reports a rejected CSV row
type ImportError struct {
	Line int
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// WriteScheduleCSV writes the presence set as date,category rows
func WriteScheduleCSV(w io.Writer, presence *stay.PresenceSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{CSVColumnDate, CSVColumnCategory}); err != nil {
		return err
	}
	for _, d := range presence.Dates() {
		category, _ := presence.Category(d)
		if err := cw.Write([]string{stay.FormatDate(d), category}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadScheduleCSV parses date,category rows into a new presence set.
// The header must name a date column; the category column is optional.
// Any malformed row fails the whole read.
func ReadScheduleCSV(r io.Reader) (*stay.PresenceSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ImportError{Line: 1, Err: errors.New("empty file")}
		}
		return nil, &ImportError{Line: 1, Err: err}
	}

	dateCol, categoryCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case CSVColumnDate:
			dateCol = i
		case CSVColumnCategory:
			categoryCol = i
		}
	}
	if dateCol < 0 {
		return nil, &ImportError{Line: 1, Err: errors.New("missing date column")}
	}

	presence := stay.NewPresenceSet()
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, &ImportError{Line: parseErr.Line, Err: parseErr.Err}
			}
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if dateCol >= len(row) || strings.TrimSpace(row[dateCol]) == "" {
			return nil, &ImportError{Line: line, Err: errors.New("missing date")}
		}
		d, err := stay.ParseDate(row[dateCol])
		if err != nil {
			return nil, &ImportError{Line: line, Err: err}
		}
		category := stay.DefaultCategory
		if categoryCol >= 0 && categoryCol < len(row) && strings.TrimSpace(row[categoryCol]) != "" {
			category = strings.TrimSpace(row[categoryCol])
		}
		if err := CheckCategory(category); err != nil {
			return nil, &ImportError{Line: line, Err: err}
		}
		presence.Add(d, category)
	}
	return presence, nil
}

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`, "\r", `\n`)

// icsText escapes a value for an iCalendar TEXT property
func icsText(s string) string {
	return icsEscaper.Replace(s)
}

// GenerateCSV sends the schedule as a CSV download
func GenerateCSV(w http.ResponseWriter, presence *stay.PresenceSet) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", ExportBaseName))
	if err := WriteScheduleCSV(w, presence); err != nil {
		log.Printf("Error writing CSV export: %v", err)
	}
}

// GenerateJSON sends the schedule with its computed records as a JSON download
func GenerateJSON(w http.ResponseWriter, cfg Config, presence *stay.PresenceSet, records []stay.DayRecord) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.json", ExportBaseName))

	var present []DayRecordView
	for _, v := range RecordViews(presence, records) {
		if v.Present || v.OverLimit {
			present = append(present, v)
		}
	}

	data := map[string]interface{}{
		"windowLength": cfg.Window.WindowLength,
		"maxAllowed":   cfg.Window.MaxAllowed,
		"days":         present,
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON export: %v", err)
		http.Error(w, ErrFailedToGenerateJSON, http.StatusInternalServerError)
	}
}

// GenerateICS sends present days as all-day iCalendar events.
// Query params reminderDays and reminderTime add a display alarm before each day.
func GenerateICS(w http.ResponseWriter, r *http.Request, cfg Config, presence *stay.PresenceSet, records []stay.DayRecord) {
	reminderTime := r.URL.Query().Get("reminderTime")
	reminderDays, err := strconv.Atoi(r.URL.Query().Get("reminderDays"))
	if err != nil {
		reminderDays = -1
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.ics", ExportBaseName))

	fmt.Fprintln(w, "BEGIN:VCALENDAR")
	fmt.Fprintln(w, "VERSION:2.0")
	fmt.Fprintf(w, "PRODID:%s\n", ICSProductID)
	fmt.Fprintf(w, "X-WR-CALNAME:Days in Denmark (%d/%d)\n", cfg.Window.MaxAllowed, cfg.Window.WindowLength)
	fmt.Fprintf(w, "X-WR-TIMEZONE:%s\n", ICSTimezone)
	fmt.Fprintln(w, "CALSCALE:GREGORIAN")

	stamp := time.Now().UTC().Format("20060102T150405Z")
	for _, rec := range records {
		if !rec.Present {
			continue
		}
		category, _ := presence.Category(rec.Date)
		label := Categories[category]
		if label == "" {
			label = category
		}
		summary := fmt.Sprintf("In Denmark (%s)", label)
		if rec.OverLimit {
			summary += " - OVER LIMIT"
		}

		fmt.Fprintln(w, "BEGIN:VEVENT")
		fmt.Fprintf(w, "UID:%s-%s@dkdays\n", stay.FormatDate(rec.Date), icsText(category))
		fmt.Fprintf(w, "DTSTAMP:%s\n", stamp)
		fmt.Fprintf(w, "DTSTART;VALUE=DATE:%s\n", rec.Date.Format("20060102"))
		fmt.Fprintf(w, "DTEND;VALUE=DATE:%s\n", rec.Date.AddDate(0, 0, 1).Format("20060102"))
		fmt.Fprintf(w, "SUMMARY:%s\n", icsText(summary))
		fmt.Fprintf(w, "DESCRIPTION:%d of %d allowed days in the last %d days\n",
			rec.WindowCount, cfg.Window.MaxAllowed, cfg.Window.WindowLength)
		fmt.Fprintf(w, "CATEGORIES:%s\n", icsText(strings.ToUpper(category)))

		if reminderDays >= 0 && reminderTime != "" {
			AddAlarm(w, rec.Date, reminderDays, reminderTime, summary)
		}

		fmt.Fprintln(w, "END:VEVENT")
	}

	fmt.Fprintln(w, "END:VCALENDAR")
}

// AddAlarm adds a display alarm at alarmTime (HH:MM) daysBefore the event day
func AddAlarm(w io.Writer, eventDate time.Time, daysBefore int, alarmTime string, description string) {
	parts := strings.Split(alarmTime, ":")
	if len(parts) != 2 {
		return
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return
	}

	// trigger is relative to 00:00 on the event day
	alarmDate := eventDate.AddDate(0, 0, -daysBefore)
	alarmAt := time.Date(alarmDate.Year(), alarmDate.Month(), alarmDate.Day(), hour, minute, 0, 0, time.UTC)
	eventStart := time.Date(eventDate.Year(), eventDate.Month(), eventDate.Day(), 0, 0, 0, 0, time.UTC)

	totalMinutes := int(alarmAt.Sub(eventStart).Minutes())
	sign := ""
	if totalMinutes < 0 {
		sign = "-"
		totalMinutes = -totalMinutes
	}
	days := totalMinutes / (24 * 60)
	hours := (totalMinutes % (24 * 60)) / 60
	minutes := totalMinutes % 60

	fmt.Fprintln(w, "BEGIN:VALARM")
	fmt.Fprintln(w, "ACTION:DISPLAY")
	fmt.Fprintf(w, "DESCRIPTION:Reminder: %s\n", icsText(description))
	fmt.Fprintf(w, "TRIGGER:%sP%dDT%dH%dM\n", sign, days, hours, minutes)
	fmt.Fprintln(w, "END:VALARM")
}
