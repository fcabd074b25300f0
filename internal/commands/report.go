package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/klabast/wb-services/dk-days/internal/app"
	"github.com/klabast/wb-services/dk-days/internal/stay"
)

// Exit codes of the report subcommand
const (
	ExitOK        = 0
	ExitError     = 1
	ExitViolation = 2
)

// ANSI background colours per status
var statusColors = map[stay.Status]string{
	stay.StatusPastPresent: "\033[100m",      // dark gray
	stay.StatusPast:        "\033[47;30m",    // light gray
	stay.StatusOverPresent: "\033[44;97m",    // blue
	stay.StatusOver:        "\033[48;5;209m", // salmon
	stay.StatusPresent:     "\033[42;30m",    // green
	stay.StatusFree:        "",
}

// Plain-text markers when colour is off
var statusMarkers = map[stay.Status]string{
	stay.StatusPastPresent: "+",
	stay.StatusPast:        " ",
	stay.StatusOverPresent: "#",
	stay.StatusOver:        "!",
	stay.StatusPresent:     "*",
	stay.StatusFree:        " ",
}

const ansiReset = "\033[0m"

// ReportOptions controls RenderReport
type ReportOptions struct {
	Window stay.WindowConfig
	Today  time.Time
	Color  bool
}

// Report handles the report subcommand and returns the process exit code
func Report(args []string) int {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	schedule := fs.String("schedule", "", "Schedule file (.json as saved by the server, or .csv date,category)")
	from := fs.String("from", "", "First day shown (YYYY-MM-DD, default: Jan 1 last year)")
	to := fs.String("to", "", "Last day shown (YYYY-MM-DD, default: Dec 31 next year)")
	preset := fs.String("preset", stay.PresetDefault, "Window preset: "+strings.Join(stay.PresetNames(), ", "))
	window := fs.Int("window", 0, "Window length in days (overrides preset)")
	maxAllowed := fs.Int("max", -1, "Maximum days allowed in the window (overrides preset)")
	color := fs.String("color", "auto", "Colour output: auto, always, never")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: dk-days report -schedule FILE [OPTIONS]\n\n")
		fmt.Fprintf(os.Stderr, "Prints a month grid of days in Denmark and flags days over the limit.\n")
		fmt.Fprintf(os.Stderr, "Exits with status 2 if a day from today onwards is over the limit.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return ExitError
	}
	if *schedule == "" {
		fs.Usage()
		return ExitError
	}

	cfg, ok := stay.Presets[*preset]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown preset %q\n", *preset)
		return ExitError
	}
	if *window > 0 {
		cfg.WindowLength = *window
	}
	if *maxAllowed >= 0 {
		cfg.MaxAllowed = *maxAllowed
	}

	presence, err := loadScheduleAny(*schedule)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	today := stay.Date(time.Now())
	start := stay.NewDate(today.Year()-1, time.January, 1)
	end := stay.NewDate(today.Year()+1, time.December, 31)
	if *from != "" {
		if start, err = stay.ParseDate(*from); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
	}
	if *to != "" {
		if end, err = stay.ParseDate(*to); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
	}

	records, err := app.ComputeRange(cfg, presence, start, end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	opts := ReportOptions{Window: cfg, Today: today}
	switch *color {
	case "always":
		opts.Color = true
	case "never":
	default:
		opts.Color = term.IsTerminal(int(os.Stdout.Fd()))
	}

	if RenderReport(os.Stdout, presence, records, opts) {
		return ExitViolation
	}
	return ExitOK
}

// RenderReport writes month grids followed by a summary.
// It reports whether any day from opts.Today onwards is over the limit.
func RenderReport(w io.Writer, presence *stay.PresenceSet, records []stay.DayRecord, opts ReportOptions) bool {
	today := stay.Date(opts.Today)

	var month time.Month
	col := 0
	for _, r := range records {
		if r.Date.Month() != month {
			if month != 0 {
				if col != 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintln(w)
			}
			month = r.Date.Month()
			fmt.Fprintf(w, "%s %d\n", month, r.Date.Year())
			fmt.Fprintln(w, " Mo  Tu  We  Th  Fr  Sa  Su")
			col = (int(r.Date.Weekday()) + 6) % 7
			fmt.Fprint(w, strings.Repeat("    ", col))
		}

		status := stay.Classify(r, today)
		cell := fmt.Sprintf("%3d", r.Date.Day())
		if opts.Color && statusColors[status] != "" {
			fmt.Fprintf(w, "%s%s%s ", statusColors[status], cell, ansiReset)
		} else {
			fmt.Fprintf(w, "%s%s", cell, statusMarkers[status])
		}

		col++
		if col == 7 {
			fmt.Fprintln(w)
			col = 0
		}
	}
	if col != 0 {
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)

	return writeSummary(w, presence, records, opts.Window, today, opts.Color)
}

func writeSummary(w io.Writer, presence *stay.PresenceSet, records []stay.DayRecord, cfg stay.WindowConfig, today time.Time, color bool) bool {
	fmt.Fprintf(w, "Rule: at most %d days in any %d-day window\n", cfg.MaxAllowed, cfg.WindowLength)
	fmt.Fprintf(w, "Days in Denmark: %d\n", presence.Len())
	if peak, ok := stay.Peak(records); ok {
		fmt.Fprintf(w, "Peak: %d days (window ending %s)\n", peak.WindowCount, stay.FormatDate(peak.Date))
	}

	var upcoming []stay.DayRecord
	for _, r := range stay.Violations(records) {
		if !r.Date.Before(today) {
			upcoming = append(upcoming, r)
		}
	}
	if len(upcoming) == 0 {
		fmt.Fprintln(w, "No upcoming days over the limit")
		if !color {
			fmt.Fprintln(w, "Legend: * present, + past present, ! over limit, # present and over limit")
		}
		return false
	}

	fmt.Fprintf(w, "Over the limit on %d upcoming days:\n", len(upcoming))
	for _, r := range upcoming {
		fmt.Fprintf(w, "  %s  %d/%d\n", stay.FormatDate(r.Date), r.WindowCount, cfg.MaxAllowed)
	}
	if !color {
		fmt.Fprintln(w, "Legend: * present, + past present, ! over limit, # present and over limit")
	}
	return true
}

// loadScheduleAny reads a schedule in JSON or CSV form, chosen by extension
func loadScheduleAny(path string) (*stay.PresenceSet, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		presence, err := app.ReadScheduleCSV(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return presence, nil
	}
	return app.LoadSchedule(path)
}
