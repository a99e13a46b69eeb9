package models

import (
	"fmt"
	"strconv"
)

// Period is one declaration month. Every income, expense and generated
// declaration row is scoped to exactly one period.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// ParsePeriod validates the year/month path segments. Month must fall
// in [1,12]; the year range keeps obvious typos out of the data.
func ParsePeriod(yearStr string, monthStr string) (Period, error) {
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		return Period{}, fmt.Errorf("invalid year: %q", yearStr)
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return Period{}, fmt.Errorf("invalid month: %q", monthStr)
	}
	return Period{Year: year, Month: month}, nil
}

// Key renders the period as YYYY-MM, the sort-friendly form used in
// file names and logs.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
