package utils

import "time"

// DayLayout is the yyyyMMdd layout used for daily rotating values.
const DayLayout = "20060102"

// Now is replaced in tests.
var Now = time.Now

// FormatDay renders the UTC calendar day of t.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DayLayout)
}
