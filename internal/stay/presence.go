package stay

import (
	"sort"
	"time"
)

// DefaultCategory is used when a date is marked without a category
const DefaultCategory = "work"

// PresenceSet holds the dates spent in the jurisdiction.
// Each date carries an opaque category that never affects counting.
// A PresenceSet is not safe for concurrent mutation; callers serialize writes.
// A nil *PresenceSet reads as empty, and Remove and Clear on it are no-ops.
// Add and Toggle need a non-nil set.
type PresenceSet struct {
	days map[time.Time]string
}

// NewPresenceSet creates a set holding the given dates under DefaultCategory
func NewPresenceSet(dates ...time.Time) *PresenceSet {
	p := &PresenceSet{days: make(map[time.Time]string, len(dates))}
	for _, d := range dates {
		p.Add(d, DefaultCategory)
	}
	return p
}

// Add marks a date present, replacing any previous category
func (p *PresenceSet) Add(d time.Time, category string) {
	if p.days == nil {
		p.days = make(map[time.Time]string)
	}
	if category == "" {
		category = DefaultCategory
	}
	p.days[Date(d)] = category
}

// Remove unmarks a date. It reports whether the date was present.
func (p *PresenceSet) Remove(d time.Time) bool {
	if p == nil {
		return false
	}
	key := Date(d)
	if _, ok := p.days[key]; !ok {
		return false
	}
	delete(p.days, key)
	return true
}

// Contains reports whether the date is present
func (p *PresenceSet) Contains(d time.Time) bool {
	if p == nil {
		return false
	}
	_, ok := p.days[Date(d)]
	return ok
}

// Category returns the category stored for a date
func (p *PresenceSet) Category(d time.Time) (string, bool) {
	if p == nil {
		return "", false
	}
	c, ok := p.days[Date(d)]
	return c, ok
}

// Len returns the number of present dates
func (p *PresenceSet) Len() int {
	if p == nil {
		return 0
	}
	return len(p.days)
}

// Dates returns all present dates in ascending order
func (p *PresenceSet) Dates() []time.Time {
	if p == nil {
		return nil
	}
	out := make([]time.Time, 0, len(p.days))
	for d := range p.days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Clone returns an independent copy, used as a snapshot for Compute
func (p *PresenceSet) Clone() *PresenceSet {
	c := &PresenceSet{days: make(map[time.Time]string, p.Len())}
	if p == nil {
		return c
	}
	for d, cat := range p.days {
		c.days[d] = cat
	}
	return c
}

// Clear removes every date
func (p *PresenceSet) Clear() {
	if p == nil {
		return
	}
	p.days = make(map[time.Time]string)
}

// Toggle flips a date's membership and reports whether it is present afterwards.
//
// An absent date is added. A date present under the same category is removed.
// A date present under a different category keeps its presence and takes the
// new category.
func (p *PresenceSet) Toggle(d time.Time, category string) bool {
	if category == "" {
		category = DefaultCategory
	}
	if current, ok := p.Category(d); ok && current == category {
		p.Remove(d)
		return false
	}
	p.Add(d, category)
	return true
}

// ToggleString parses a YYYY-MM-DD date and toggles it
func (p *PresenceSet) ToggleString(s, category string) (bool, error) {
	d, err := ParseDate(s)
	if err != nil {
		return false, err
	}
	return p.Toggle(d, category), nil
}
