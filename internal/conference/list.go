package conference

import (
	"encoding/json"
	"sort"
	"time"
)

// List holds conference records in ascending date order. Every method that
// mutates the list leaves it sorted: insertions append and re-sort, costing
// O(n log n) each, and removals keep the existing order. Records sharing a date
// keep their insertion order.
type List struct {
	records []*Record
}

// NewList creates a sorted list from records.
func NewList(records ...*Record) *List {
	l := &List{}
	l.Extend(records...)
	return l
}

// Insert adds a record.
func (l *List) Insert(r *Record) {
	if r == nil {
		return
	}
	l.records = append(l.records, r)
	l.sort()
}

// Extend adds several records.
func (l *List) Extend(records ...*Record) {
	for _, r := range records {
		if r != nil {
			l.records = append(l.records, r)
		}
	}
	l.sort()
}

// Merge adds every record of other.
func (l *List) Merge(other *List) {
	if other == nil {
		return
	}
	l.Extend(other.records...)
}

// Remove drops the first record equal to r and reports whether one was found.
func (l *List) Remove(r *Record) bool {
	for i, rec := range l.records {
		if rec.Equal(r) {
			l.records = append(l.records[:i], l.records[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveFunc drops every record for which drop returns true and returns how many
// were removed. Remaining records keep their order.
func (l *List) RemoveFunc(drop func(*Record) bool) int {
	kept := l.records[:0]
	for _, r := range l.records {
		if !drop(r) {
			kept = append(kept, r)
		}
	}
	removed := len(l.records) - len(kept)
	for i := len(kept); i < len(l.records); i++ {
		l.records[i] = nil
	}
	l.records = kept
	return removed
}

// FilterKeywords removes records with fewer than min matched keywords.
func (l *List) FilterKeywords(min int) int {
	return l.RemoveFunc(func(r *Record) bool { return len(r.Keywords) < min })
}

// FilterSpeakers removes records with fewer than min matched speakers.
func (l *List) FilterSpeakers(min int) int {
	return l.RemoveFunc(func(r *Record) bool { return len(r.Speakers) < min })
}

// Clear removes all records.
func (l *List) Clear() {
	l.records = nil
}

// Len returns the number of records.
func (l *List) Len() int {
	return len(l.records)
}

// At returns the i-th record in date order.
func (l *List) At(i int) *Record {
	return l.records[i]
}

// Records returns a copy of the records in date order. The records themselves
// are shared with the list: changing a record's Date does not re-sort it.
func (l *List) Records() []*Record {
	out := make([]*Record, len(l.records))
	copy(out, l.records)
	return out
}

// Contains reports whether a record with the same name is present.
func (l *List) Contains(r *Record) bool {
	for _, rec := range l.records {
		if rec.Equal(r) {
			return true
		}
	}
	return false
}

// Latest returns the date of the last conference.
func (l *List) Latest() (time.Time, bool) {
	if len(l.records) == 0 {
		return time.Time{}, false
	}
	return l.records[len(l.records)-1].Date, true
}

func (l *List) sort() {
	sort.SliceStable(l.records, func(i, j int) bool {
		return l.records[i].Date.Before(l.records[j].Date)
	})
}

// MarshalJSON encodes the list as an array of records.
func (l *List) MarshalJSON() ([]byte, error) {
	if l.records == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.records)
}

// UnmarshalJSON decodes an array of records and restores date order.
func (l *List) UnmarshalJSON(data []byte) error {
	var records []*Record
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	l.records = nil
	l.Extend(records...)
	return nil
}
