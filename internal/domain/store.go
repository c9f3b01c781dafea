package domain

import "fmt"

// Store is the read-only crash table. It is built once at startup and shared
// by every query; nothing mutates it afterwards.
type Store struct {
	records    []CrashRecord
	categories []string
}

// NewStore validates and copies records into a Store.
func NewStore(records []CrashRecord) (*Store, error) {
	owned := make([]CrashRecord, len(records))
	copy(owned, records)

	seen := make(map[string]struct{})
	var categories []string
	for i, r := range owned {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if _, ok := seen[r.Category]; !ok {
			seen[r.Category] = struct{}{}
			categories = append(categories, r.Category)
		}
	}

	return &Store{records: owned, categories: categories}, nil
}

// Len returns the number of loaded records.
func (s *Store) Len() int { return len(s.records) }

// Categories returns the distinct categories in first-appearance order.
func (s *Store) Categories() []string {
	return append([]string(nil), s.categories...)
}

// CategoryOptions returns the dropdown choices: AllCategories followed by
// every distinct category.
func (s *Store) CategoryOptions() []string {
	return append([]string{AllCategories}, s.categories...)
}

// YearSpan returns the smallest and largest year present. ok is false when
// the store is empty.
func (s *Store) YearSpan() (YearRange, bool) {
	if len(s.records) == 0 {
		return YearRange{}, false
	}
	span := YearRange{Start: s.records[0].Year, End: s.records[0].Year}
	for _, r := range s.records[1:] {
		span.Start = min(span.Start, r.Year)
		span.End = max(span.End, r.Year)
	}
	return span, true
}

// selection returns the records matching category whose year satisfies keep.
func (s *Store) selection(category string, keep func(year int) bool) []CrashRecord {
	var out []CrashRecord
	for _, r := range s.records {
		if keep(r.Year) && r.matchesCategory(category) {
			out = append(out, r)
		}
	}
	return out
}
