package app

import "testing"

func TestGetDanishHolidays(t *testing.T) {
	tests := []struct {
		year int
		date string
		want string
	}{
		{2024, "2024-03-31", "Påskedag"},
		{2024, "2024-03-28", "Skærtorsdag"},
		{2024, "2024-03-29", "Langfredag"},
		{2024, "2024-05-09", "Kristi himmelfartsdag"},
		{2024, "2024-05-20", "2. pinsedag"},
		{2025, "2025-04-20", "Påskedag"},
		{2025, "2025-06-05", "Grundlovsdag"},
		{2025, "2025-12-26", "2. juledag"},
		{2023, "2023-05-05", "Store bededag"},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got := GetDanishHolidays(tt.year)[tt.date]
			if got != tt.want {
				t.Errorf("GetDanishHolidays(%d)[%s] = %q, want %q", tt.year, tt.date, got, tt.want)
			}
		})
	}

	t.Run("Store bededag abolished", func(t *testing.T) {
		for date, name := range GetDanishHolidays(2024) {
			if name == "Store bededag" {
				t.Errorf("Store bededag should not be listed for 2024 (found on %s)", date)
			}
		}
	})
}
