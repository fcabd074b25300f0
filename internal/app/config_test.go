package app

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/klabast/wb-services/dk-days/internal/stay"
)

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DATA_DIR", "WINDOW_PRESET", "WINDOW_LENGTH", "MAX_ALLOWED",
		"YEARS_BACK", "YEARS_AHEAD", "AUTH_FILE", "SESSION_COOKIE", "SEED_FILE"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	clearConfigEnv(t)

	t.Run("Defaults", func(t *testing.T) {
		chdir(t, t.TempDir())
		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() failed: %v", err)
		}
		if cfg.Window != stay.DefaultConfig() {
			t.Errorf("Window = %+v, want default", cfg.Window)
		}
		if cfg.Port != 8080 || cfg.CookieName != DefaultCookieName || cfg.YearsBack != 1 || cfg.YearsAhead != 1 {
			t.Errorf("Unexpected defaults %+v", cfg)
		}
	})

	t.Run("Preset with override", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("WINDOW_PRESET", stay.PresetQuarter)
		t.Setenv("MAX_ALLOWED", "30")
		t.Setenv("PORT", "9090")
		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() failed: %v", err)
		}
		if cfg.Window.WindowLength != 91 || cfg.Window.MaxAllowed != 30 {
			t.Errorf("Window = %+v, want 91/30", cfg.Window)
		}
		if cfg.Preset != PresetCustom {
			t.Errorf("Preset = %q, want %q after override", cfg.Preset, PresetCustom)
		}
		if cfg.Port != 9090 {
			t.Errorf("Port = %d, want 9090", cfg.Port)
		}
	})

	t.Run("Override matching preset keeps its name", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("WINDOW_PRESET", stay.PresetQuarter)
		t.Setenv("WINDOW_LENGTH", "91")
		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() failed: %v", err)
		}
		if cfg.Preset != stay.PresetQuarter {
			t.Errorf("Preset = %q, want %q", cfg.Preset, stay.PresetQuarter)
		}
	})

	t.Run("Unknown preset", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("WINDOW_PRESET", "schengen")
		if _, err := LoadConfig(); err == nil {
			t.Error("Expected error for unknown preset")
		}
	})

	t.Run("Invalid window", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("WINDOW_LENGTH", "0")
		_, err := LoadConfig()
		var cfgErr *stay.InvalidConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("Expected InvalidConfigError, got %v", err)
		}
	})

	t.Run("Non-numeric value", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("YEARS_AHEAD", "two")
		if _, err := LoadConfig(); err == nil {
			t.Error("Expected error for non-numeric YEARS_AHEAD")
		}
	})
}

func TestConfigSetWindow(t *testing.T) {
	cfg := Config{Preset: stay.PresetDefault, Window: stay.DefaultConfig()}

	cfg.SetWindow(stay.DefaultConfig())
	if cfg.Preset != stay.PresetDefault {
		t.Errorf("Unchanged rule should keep preset, got %q", cfg.Preset)
	}

	cfg.SetWindow(stay.WindowConfig{WindowLength: 91, MaxAllowed: 41})
	if cfg.Preset != PresetCustom || cfg.Window.WindowLength != 91 {
		t.Errorf("Changed rule should be custom, got %q %+v", cfg.Preset, cfg.Window)
	}
}

func TestCheckCategory(t *testing.T) {
	for _, ok := range []string{"work", "personal", "Ferie på Fanø", strings.Repeat("x", MaxCategoryLength)} {
		if err := CheckCategory(ok); err != nil {
			t.Errorf("CheckCategory(%q) = %v, want nil", ok, err)
		}
	}
	for _, bad := range []string{"a\nb", "a\rb", "a\x00b", strings.Repeat("x", MaxCategoryLength+1)} {
		if err := CheckCategory(bad); err == nil {
			t.Errorf("CheckCategory(%q) should fail", bad)
		}
	}
}
