package view

import (
	"fmt"

	"github.com/couchcryptid/crash-map-dashboard/internal/domain"
)

func displayCategory(category string) string {
	if category == domain.AllCategories {
		return "All Causes"
	}
	return category
}

// MapTitle titles a populated map panel.
func MapTitle(category string) string {
	return "Traffic Crashes due to " + displayCategory(category)
}

// SeriesTitle titles a populated time-series panel.
func SeriesTitle(category string) string {
	return fmt.Sprintf("Crash Counts Over Time (%s)", displayCategory(category))
}

// NoDataTitle titles a placeholder with the filter that produced no rows.
// The category is shown as selected, so "All" stays "All".
func NoDataTitle(category, selection string) string {
	return fmt.Sprintf("No data available for %s in %s", category, selection)
}
