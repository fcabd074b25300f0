package app

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/klabast/wb-services/dk-days/internal/stay"
)

const (
	// Max upload size for CSV imports
	maxImportBytes = 1 << 20
	// Longest span /api/days computes in one request
	maxRangeDays = 3660
)

// Server holds the dependencies of the HTTP handlers
type Server struct {
	Config    Config
	Sessions  *SessionStore
	Auth      *Authenticator
	IndexHTML []byte

	// Now is replaced in tests
	Now func() time.Time
}

// NewServer wires a server with a fresh session store seeded from seed
func NewServer(cfg Config, seed *stay.PresenceSet, auth *Authenticator, indexHTML []byte) *Server {
	if auth == nil {
		auth = &Authenticator{}
	}
	return &Server{
		Config:    cfg,
		Sessions:  NewSessionStore(cfg.CookieName, seed),
		Auth:      auth,
		IndexHTML: indexHTML,
		Now:       time.Now,
	}
}

func (s *Server) today() time.Time {
	return stay.Date(s.Now())
}

// ServeIndex serves the calendar HTML
func (s *Server) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(s.IndexHTML); err != nil {
		log.Printf("Error writing index HTML: %v", err)
	}
}

// GetConfig returns the window rule, displayed years and holidays
func (s *Server) GetConfig(w http.ResponseWriter, r *http.Request) {
	today := s.today()
	years := CalendarYears(s.Config, today)

	holidays := make(map[string]string)
	for _, y := range years {
		for date, name := range GetDanishHolidays(y) {
			holidays[date] = name
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"windowLength": s.Config.Window.WindowLength,
		"maxAllowed":   s.Config.Window.MaxAllowed,
		"preset":       s.Config.Preset,
		"presets":      stay.Presets,
		"categories":   Categories,
		"years":        years,
		"currentYear":  today.Year(),
		"today":        stay.FormatDate(today),
		"authEnabled":  s.Auth.Enabled(),
		"holidays":     holidays,
	})
}

// HandleCalendar returns the month grids for every displayed year
func (s *Server) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	s.respondCalendar(w, s.Sessions.Snapshot(r))
}

// HandleDays returns raw day records for ?start=&end= (defaults: displayed years)
func (s *Server) HandleDays(w http.ResponseWriter, r *http.Request) {
	today := s.today()
	years := CalendarYears(s.Config, today)

	start, err := dateParam(r, "start", stay.NewDate(years[0], time.January, 1))
	if err != nil {
		writeStayError(w, err)
		return
	}
	end, err := dateParam(r, "end", stay.NewDate(years[len(years)-1], time.December, 31))
	if err != nil {
		writeStayError(w, err)
		return
	}

	if end.After(stay.AddDays(start, maxRangeDays-1)) {
		http.Error(w, ErrInvalidRange, http.StatusBadRequest)
		return
	}

	presence := s.Sessions.Snapshot(r)
	records, err := ComputeRange(s.Config.Window, presence, start, end)
	if err != nil {
		writeStayError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"windowLength": s.Config.Window.WindowLength,
		"maxAllowed":   s.Config.Window.MaxAllowed,
		"days":         RecordViews(presence, records),
	})
}

// HandleToggle toggles one date in the session's presence set
func (s *Server) HandleToggle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date     string `json:"date"`
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrInvalidRequest, http.StatusBadRequest)
		return
	}
	if req.Category == "" {
		req.Category = stay.DefaultCategory
	}
	if err := CheckCategory(req.Category); err != nil {
		http.Error(w, ErrInvalidCategory, http.StatusBadRequest)
		return
	}

	session := s.Sessions.Get(w, r)
	var present bool
	snapshot, err := session.Update(func(p *stay.PresenceSet) error {
		var err error
		present, err = p.ToggleString(req.Date, req.Category)
		return err
	})
	if err != nil {
		writeStayError(w, err)
		return
	}

	state := "removed"
	if present {
		state = "present"
	}
	ToggleTotal.WithLabelValues(state).Inc()

	s.respondCalendar(w, snapshot)
}

// HandleReset clears the session's presence set
func (s *Server) HandleReset(w http.ResponseWriter, r *http.Request) {
	session := s.Sessions.Get(w, r)
	snapshot, _ := session.Update(func(p *stay.PresenceSet) error {
		p.Clear()
		return nil
	})
	s.respondCalendar(w, snapshot)
}

// HandleExport downloads the schedule as csv (default), ics or json
func (s *Server) HandleExport(w http.ResponseWriter, r *http.Request) {
	presence := s.Sessions.Snapshot(r)

	format := r.URL.Query().Get("format")
	if format == "" || format == "csv" {
		GenerateCSV(w, presence)
		return
	}

	records, err := ComputeYears(s.Config, presence, s.today())
	if err != nil {
		writeStayError(w, err)
		return
	}

	switch format {
	case "ics":
		GenerateICS(w, r, s.Config, presence, records)
	case "json":
		GenerateJSON(w, s.Config, presence, records)
	default:
		http.Error(w, ErrInvalidFormat, http.StatusBadRequest)
	}
}

// HandleImport merges an uploaded date,category CSV into the session.
// A malformed row rejects the whole file and leaves the set unchanged.
func (s *Server) HandleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, ErrInvalidUpload, http.StatusBadRequest)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("Error closing upload: %v", err)
		}
	}()

	imported, err := ReadScheduleCSV(file)
	if err != nil {
		var importErr *ImportError
		if errors.As(err, &importErr) {
			http.Error(w, ErrInvalidUpload+": "+importErr.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error reading import: %v", err)
		http.Error(w, ErrInvalidUpload, http.StatusBadRequest)
		return
	}

	session := s.Sessions.Get(w, r)
	snapshot, _ := session.Update(func(p *stay.PresenceSet) error {
		for _, d := range imported.Dates() {
			category, _ := imported.Category(d)
			p.Add(d, category)
		}
		return nil
	})
	ImportRowsTotal.Add(float64(imported.Len()))
	log.Printf("Imported %d days into session %s", imported.Len(), session.ID)

	s.respondCalendar(w, snapshot)
}

// HandleSave writes the session's schedule to the data directory
func (s *Server) HandleSave(w http.ResponseWriter, r *http.Request) {
	path := s.Config.ScheduleFile()
	if err := SaveSchedule(path, s.Sessions.Snapshot(r), s.Config.Window); err != nil {
		log.Printf("Error saving schedule: %v", err)
		http.Error(w, ErrFailedToSave, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "file": path})
}

func (s *Server) respondCalendar(w http.ResponseWriter, presence *stay.PresenceSet) {
	today := s.today()
	records, err := ComputeYears(s.Config, presence, today)
	if err != nil {
		writeStayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CalendarResponse{
		Success:      true,
		CalendarData: BuildCalendar(s.Config, presence, records, today),
		Summary:      Summarize(s.Config, presence, records),
	})
}
