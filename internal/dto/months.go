package dto

import "time"

const monthLayout = "2006-01"

// MonthRange resolves inclusive YYYY-MM bounds to concrete dates: the first
// day of the start month and the last calendar day of the end month (exact
// month length, leap years included). Blank or unparsable inputs yield nil
// and the corresponding bound is simply not applied.
func MonthRange(start, end string) (from, to *time.Time) {
	if t, err := time.Parse(monthLayout, start); err == nil {
		from = &t
	}
	if t, err := time.Parse(monthLayout, end); err == nil {
		last := t.AddDate(0, 1, -1)
		to = &last
	}
	return from, to
}
