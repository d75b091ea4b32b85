package models

import (
	"strings"
	"time"
)

// Filter enum values matching the warehouse dimension vocabulary.
const (
	CategoryAll = "All"
	SegmentAll  = "All"

	SortAscending  = "Ascending"
	SortDescending = "Descending"
)

// ValidCategories lists the selectable product categories.
var ValidCategories = map[string]bool{
	CategoryAll:       true,
	"Furniture":       true,
	"Office Supplies": true,
	"Technology":      true,
}

// ValidSegments lists the selectable customer segments.
var ValidSegments = map[string]bool{
	SegmentAll:    true,
	"Consumer":    true,
	"Corporate":   true,
	"Home Office": true,
}

// SortColumns maps the user-facing sort option to the warehouse column it
// orders by. Only these columns may appear in an ORDER BY clause.
var SortColumns = map[string]string{
	"Sales":      "sales",
	"Profit":     "profit",
	"Order_Date": "order_date",
}

// CanonicalCategory resolves a category spelling to its canonical form,
// matching case-insensitively. Empty input resolves to CategoryAll.
func CanonicalCategory(value string) (string, bool) {
	return canonicalValue(value, ValidCategories, CategoryAll)
}

// CanonicalSegment resolves a segment spelling to its canonical form,
// matching case-insensitively. Empty input resolves to SegmentAll.
func CanonicalSegment(value string) (string, bool) {
	return canonicalValue(value, ValidSegments, SegmentAll)
}

func canonicalValue(value string, valid map[string]bool, all string) (string, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return all, true
	}
	for name := range valid {
		if strings.EqualFold(name, trimmed) {
			return name, true
		}
	}
	return "", false
}

// FilterCriteria represents the user-selected search, filter and sort
// criteria for one dashboard query cycle.
type FilterCriteria struct {
	ProductName   string     `json:"product_name"`   // case-insensitive substring match, empty = no filter
	Category      string     `json:"category"`       // "All" or one of ValidCategories
	Segment       string     `json:"segment"`        // "All" or one of ValidSegments
	StartDate     *time.Time `json:"start_date"`     // inclusive; required together with EndDate
	EndDate       *time.Time `json:"end_date"`       // inclusive
	SortColumn    string     `json:"sort_column"`    // defaults to "Sales"
	SortDirection string     `json:"sort_direction"` // defaults to "Ascending"
}
