package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/klabast/wb-services/dk-days/internal/stay"
)

// Metadata keys
const (
	MetadataSavedAt = "saved_at"
	MetadataRule    = "rule"
)

// ScheduleFile is the on-disk form of a presence set
type ScheduleFile struct {
	Days     map[string]string `json:"days"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// LoadSchedule reads a schedule file into a presence set
func LoadSchedule(path string) (*stay.PresenceSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file ScheduleFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode schedule %s: %w", path, err)
	}

	presence := stay.NewPresenceSet()
	for date, category := range file.Days {
		d, err := stay.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("schedule %s: %w", path, err)
		}
		if err := CheckCategory(category); err != nil {
			return nil, fmt.Errorf("schedule %s: %s: %w", path, date, err)
		}
		presence.Add(d, category)
	}
	return presence, nil
}

// SaveSchedule writes the presence set to path, keeping the previous file as a backup
func SaveSchedule(path string, presence *stay.PresenceSet, rule stay.WindowConfig) error {
	file := ScheduleFile{
		Days: make(map[string]string, presence.Len()),
		Metadata: map[string]string{
			MetadataSavedAt: time.Now().UTC().Format(time.RFC3339),
			MetadataRule:    fmt.Sprintf("%d/%d", rule.MaxAllowed, rule.WindowLength),
		},
	}
	for _, d := range presence.Dates() {
		category, _ := presence.Category(d)
		file.Days[stay.FormatDate(d)] = category
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file first
	tmpFile := path + TmpSuffix
	if err := os.WriteFile(tmpFile, data, FilePermissions); err != nil {
		return err
	}

	// Create backup
	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+BackupSuffix); err != nil {
			log.Printf("Warning: failed to create backup: %v", err)
		}
	}

	return os.Rename(tmpFile, path)
}

// RestoreBackup replaces path with its backup copy
func RestoreBackup(path string) error {
	backup := path + BackupSuffix
	if _, err := os.Stat(backup); os.IsNotExist(err) {
		return fmt.Errorf("no backup to restore for %s", path)
	}
	if err := os.Rename(backup, path); err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}
	log.Printf("Schedule restored from %s", backup)
	return nil
}
