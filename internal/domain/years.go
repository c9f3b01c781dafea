package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidYearRange is returned when a range starts after it ends.
	ErrInvalidYearRange = errors.New("invalid year range")

	// ErrYearOutOfBounds is returned when a year falls outside the slider bounds.
	ErrYearOutOfBounds = errors.New("year out of bounds")
)

// YearRange is an inclusive [Start, End] span of years.
type YearRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether year lies within the range, inclusive on both ends.
func (r YearRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

// String renders the range the way chart titles show it, e.g. "2013-2024".
func (r YearRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Validate checks ordering and that both ends lie within bounds.
func (r YearRange) Validate(bounds YearRange) error {
	if r.Start > r.End {
		return fmt.Errorf("%w: start %d is after end %d", ErrInvalidYearRange, r.Start, r.End)
	}
	if err := bounds.CheckYear(r.Start); err != nil {
		return err
	}
	return bounds.CheckYear(r.End)
}

// CheckYear returns ErrYearOutOfBounds if year is outside the range.
func (r YearRange) CheckYear(year int) error {
	if !r.Contains(year) {
		return fmt.Errorf("%w: %d not in %s", ErrYearOutOfBounds, year, r)
	}
	return nil
}
