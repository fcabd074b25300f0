package app

import (
	"time"

	"github.com/klabast/wb-services/dk-days/internal/stay"
)

// GetDanishHolidays returns the Danish public holidays for the given year
func GetDanishHolidays(year int) map[string]string {
	holidays := make(map[string]string)

	// Fixed holidays
	holidays[formatDate(year, 1, 1)] = "Nytårsdag"
	holidays[formatDate(year, 6, 5)] = "Grundlovsdag"
	holidays[formatDate(year, 12, 24)] = "Juleaften"
	holidays[formatDate(year, 12, 25)] = "1. juledag"
	holidays[formatDate(year, 12, 26)] = "2. juledag"

	easter := calculateEaster(year)
	movable := []struct {
		offset int
		name   string
	}{
		{-7, "Palmesøndag"},
		{-3, "Skærtorsdag"},
		{-2, "Langfredag"},
		{0, "Påskedag"},
		{1, "2. påskedag"},
		{39, "Kristi himmelfartsdag"},
		{49, "Pinsedag"},
		{50, "2. pinsedag"},
	}
	for _, h := range movable {
		holidays[stay.FormatDate(easter.AddDate(0, 0, h.offset))] = h.name
	}

	// Store bededag was abolished from 2024
	if year <= 2023 {
		holidays[stay.FormatDate(easter.AddDate(0, 0, 26))] = "Store bededag"
	}

	return holidays
}

// calculateEaster calculates Easter Sunday using the Meeus/Jones/Butcher algorithm
func calculateEaster(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return stay.NewDate(year, time.Month(month), day)
}

func formatDate(year, month, day int) string {
	return stay.FormatDate(stay.NewDate(year, time.Month(month), day))
}
