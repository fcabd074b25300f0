package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/joho/godotenv"

	"github.com/klabast/wb-services/dk-days/internal/stay"
)

// Constants
const (
	DefaultScheduleFile = "schedule.json"
	DefaultAuthFile     = "auth.secret"
	DefaultCookieName   = "dkdays_session"
	MaxCategoryLength   = 32
	PresetCustom        = "custom"
	BackupSuffix        = ".backup"
	TmpSuffix           = ".tmp"
	FilePermissions     = 0644

	// Error messages
	ErrInvalidDateFormat    = "Invalid date format"
	ErrInvalidRange         = "Invalid date range"
	ErrInvalidCategory      = "Invalid category"
	ErrInvalidFormat        = "Invalid format"
	ErrInvalidRequest       = "Invalid request body"
	ErrInvalidUpload        = "Invalid upload"
	ErrInternalServer       = "Internal server error"
	ErrFailedToSave         = "Failed to save schedule"
	ErrFailedToGenerateJSON = "Failed to generate JSON"

	// ICS constants
	ICSProductID = "-//DK Days//Residency Tracker//EN"
	ICSTimezone  = "Europe/Copenhagen"
)

// Categories a present day can be tagged with
var Categories = map[string]string{
	"work":     "Work",
	"personal": "Personal",
}

// CheckCategory rejects categories that are too long or contain control characters
func CheckCategory(category string) error {
	if utf8.RuneCountInString(category) > MaxCategoryLength {
		return fmt.Errorf("category longer than %d characters", MaxCategoryLength)
	}
	for _, r := range category {
		if unicode.IsControl(r) {
			return fmt.Errorf("category %q contains control characters", category)
		}
	}
	return nil
}

// Config is the runtime configuration of the web app
type Config struct {
	Port       int
	DataDir    string
	Window     stay.WindowConfig
	Preset     string
	YearsBack  int
	YearsAhead int
	AuthFile   string
	CookieName string
	SeedFile   string
}

// ScheduleFile returns the path schedules are saved to
func (c Config) ScheduleFile() string {
	return filepath.Join(c.DataDir, DefaultScheduleFile)
}

// LoadConfig reads configuration from the environment, after loading .env if present.
// WINDOW_LENGTH and MAX_ALLOWED override the values of WINDOW_PRESET.
func LoadConfig() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{
		Port:       8080,
		Preset:     stay.PresetDefault,
		YearsBack:  1,
		YearsAhead: 1,
		AuthFile:   os.Getenv("AUTH_FILE"),
		CookieName: os.Getenv("SESSION_COOKIE"),
		SeedFile:   os.Getenv("SEED_FILE"),
		DataDir:    os.Getenv("DATA_DIR"),
	}

	if cfg.DataDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.DataDir = cwd
		}
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.AuthFile == "" {
		cfg.AuthFile = defaultAuthPath()
	}

	var err error
	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return cfg, err
	}
	if cfg.YearsBack, err = envInt("YEARS_BACK", cfg.YearsBack); err != nil {
		return cfg, err
	}
	if cfg.YearsAhead, err = envInt("YEARS_AHEAD", cfg.YearsAhead); err != nil {
		return cfg, err
	}

	if p := os.Getenv("WINDOW_PRESET"); p != "" {
		cfg.Preset = p
	}
	window, ok := stay.Presets[cfg.Preset]
	if !ok {
		return cfg, fmt.Errorf("unknown window preset %q", cfg.Preset)
	}
	if window.WindowLength, err = envInt("WINDOW_LENGTH", window.WindowLength); err != nil {
		return cfg, err
	}
	if window.MaxAllowed, err = envInt("MAX_ALLOWED", window.MaxAllowed); err != nil {
		return cfg, err
	}
	cfg.SetWindow(window)

	return cfg, cfg.Validate()
}

// SetWindow replaces the window rule. The preset name becomes PresetCustom
// when the rule no longer matches the named preset.
func (c *Config) SetWindow(window stay.WindowConfig) {
	c.Window = window
	if preset, ok := stay.Presets[c.Preset]; !ok || preset != window {
		c.Preset = PresetCustom
	}
}

// Validate checks the window rule and the calendar span
func (c Config) Validate() error {
	if err := c.Window.Validate(); err != nil {
		return err
	}
	if c.YearsBack < 0 || c.YearsAhead < 0 {
		return fmt.Errorf("years back/ahead must not be negative")
	}
	return nil
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

// defaultAuthPath places auth.secret next to the binary
func defaultAuthPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return DefaultAuthFile
	}
	return filepath.Join(filepath.Dir(execPath), DefaultAuthFile)
}
