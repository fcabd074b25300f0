package stay

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceSet_Toggle(t *testing.T) {
	d := NewDate(2025, time.May, 18)

	t.Run("absent date is added", func(t *testing.T) {
		p := NewPresenceSet()
		assert.True(t, p.Toggle(d, "work"))
		cat, ok := p.Category(d)
		require.True(t, ok)
		assert.Equal(t, "work", cat)
	})

	t.Run("same category removes", func(t *testing.T) {
		p := NewPresenceSet()
		p.Toggle(d, "work")
		assert.False(t, p.Toggle(d, "work"))
		assert.False(t, p.Contains(d))
		assert.Zero(t, p.Len())
	})

	t.Run("different category recategorises", func(t *testing.T) {
		p := NewPresenceSet()
		p.Toggle(d, "work")
		assert.True(t, p.Toggle(d, "personal"))
		cat, _ := p.Category(d)
		assert.Equal(t, "personal", cat)
		assert.Equal(t, 1, p.Len())
	})

	t.Run("empty category defaults to work", func(t *testing.T) {
		p := NewPresenceSet()
		p.Toggle(d, "")
		assert.False(t, p.Toggle(d, DefaultCategory))
	})
}

func TestPresenceSet_ToggleString(t *testing.T) {
	p := NewPresenceSet()

	present, err := p.ToggleString("2024-02-29", "work")
	require.NoError(t, err)
	assert.True(t, present)
	assert.True(t, p.Contains(NewDate(2024, time.February, 29)))

	_, err = p.ToggleString("2025-02-29", "work")
	var dateErr *InvalidDateError
	require.True(t, errors.As(err, &dateErr))
	assert.Equal(t, "2025-02-29", dateErr.Value)
	assert.Equal(t, 1, p.Len(), "failed toggle leaves the set untouched")

	_, err = p.ToggleString("18/05/2025", "work")
	assert.Error(t, err)
}

func TestPresenceSet_DatesSortedAndClone(t *testing.T) {
	a := NewDate(2025, time.March, 1)
	b := NewDate(2024, time.December, 24)
	c := NewDate(2025, time.January, 5)
	p := NewPresenceSet(a, b, c)

	assert.Equal(t, []time.Time{b, c, a}, p.Dates())

	snap := p.Clone()
	p.Remove(a)
	assert.True(t, snap.Contains(a))
	assert.False(t, p.Contains(a))

	p.Clear()
	assert.Zero(t, p.Len())
	assert.Equal(t, 3, snap.Len())
}

func TestPresenceSet_NilReceiver(t *testing.T) {
	var p *PresenceSet
	d := NewDate(2025, time.January, 1)
	assert.False(t, p.Contains(d))
	assert.Zero(t, p.Len())
	assert.Nil(t, p.Dates())
	assert.Zero(t, p.Clone().Len())

	assert.NotPanics(t, func() {
		assert.False(t, p.Remove(d))
		p.Clear()
	})
}

func TestPresenceSet_ZeroValue(t *testing.T) {
	var p PresenceSet
	d := NewDate(2025, time.January, 1)
	assert.True(t, p.Toggle(d, "work"))
	assert.Equal(t, 1, p.Len())
	p.Clear()
	assert.False(t, p.Contains(d))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2025-07-01 ")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2025, time.July, 1), d)
	assert.Equal(t, "2025-07-01", FormatDate(d))

	_, err = ParseDate("")
	var dateErr *InvalidDateError
	assert.True(t, errors.As(err, &dateErr))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 366, DaysBetween(NewDate(2024, time.January, 1), NewDate(2025, time.January, 1)))
	assert.Equal(t, -1, DaysBetween(NewDate(2024, time.March, 1), NewDate(2024, time.February, 29)))
}

func TestClassify(t *testing.T) {
	today := NewDate(2025, time.June, 10)
	yesterday := AddDays(today, -1)

	tests := []struct {
		name   string
		record DayRecord
		want   Status
	}{
		{"past present", DayRecord{Date: yesterday, Present: true, OverLimit: true}, StatusPastPresent},
		{"past free", DayRecord{Date: yesterday, OverLimit: true}, StatusPast},
		{"violating present", DayRecord{Date: today, Present: true, OverLimit: true}, StatusOverPresent},
		{"violating free", DayRecord{Date: today, OverLimit: true}, StatusOver},
		{"present", DayRecord{Date: today, Present: true}, StatusPresent},
		{"free", DayRecord{Date: today}, StatusFree},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.record, today))
		})
	}
}
