package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klabast/wb-services/dk-days/internal/stay"
)

func TestSaveAndLoadSchedule(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultScheduleFile)
	rule := stay.DefaultConfig()

	presence := stay.NewPresenceSet()
	presence.Add(stay.NewDate(2024, time.February, 18), "work")
	presence.Add(stay.NewDate(2024, time.December, 24), "personal")

	if err := SaveSchedule(path, presence, rule); err != nil {
		t.Fatalf("SaveSchedule() failed: %v", err)
	}
	if _, err := os.Stat(path + TmpSuffix); !os.IsNotExist(err) {
		t.Error("Temp file should be renamed away")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read schedule: %v", err)
	}
	var file ScheduleFile
	if err := json.Unmarshal(raw, &file); err != nil {
		t.Fatalf("Schedule is not valid JSON: %v", err)
	}
	if file.Days["2024-12-24"] != "personal" {
		t.Errorf("Expected personal on 2024-12-24, got %v", file.Days)
	}
	if file.Metadata[MetadataRule] != "42/180" {
		t.Errorf("Rule metadata = %q, want 42/180", file.Metadata[MetadataRule])
	}

	loaded, err := LoadSchedule(path)
	if err != nil {
		t.Fatalf("LoadSchedule() failed: %v", err)
	}
	if loaded.Len() != 2 || !loaded.Contains(stay.NewDate(2024, time.February, 18)) {
		t.Errorf("Loaded schedule mismatch: %v", loaded.Dates())
	}

	// a second save keeps the first as backup
	presence.Remove(stay.NewDate(2024, time.February, 18))
	if err := SaveSchedule(path, presence, rule); err != nil {
		t.Fatalf("Second SaveSchedule() failed: %v", err)
	}
	if _, err := os.Stat(path + BackupSuffix); err != nil {
		t.Fatalf("Expected backup file: %v", err)
	}

	if err := RestoreBackup(path); err != nil {
		t.Fatalf("RestoreBackup() failed: %v", err)
	}
	restored, err := LoadSchedule(path)
	if err != nil {
		t.Fatalf("LoadSchedule() after restore failed: %v", err)
	}
	if restored.Len() != 2 {
		t.Errorf("Restored schedule should have 2 days, got %d", restored.Len())
	}
	if err := RestoreBackup(path); err == nil {
		t.Error("Restoring twice should fail: backup already consumed")
	}
}

func TestLoadScheduleErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadSchedule(filepath.Join(dir, "missing.json")); !os.IsNotExist(err) {
		t.Errorf("Expected not-exist error, got %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"days":{"2025-13-01":"work"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSchedule(bad); err == nil {
		t.Error("Expected error for invalid date")
	}

	injected := filepath.Join(dir, "injected.json")
	if err := os.WriteFile(injected, []byte(`{"days":{"2025-01-01":"work\nEND:VEVENT"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSchedule(injected); err == nil {
		t.Error("Expected error for control characters in category")
	}

	garbled := filepath.Join(dir, "garbled.json")
	if err := os.WriteFile(garbled, []byte(`{"days":`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSchedule(garbled); err == nil {
		t.Error("Expected error for truncated JSON")
	}
}
