package utils

import (
	"strconv"
	"strings"
	"time"
)

// FormatElapsed renders the calendar difference between two timestamps as a
// comma-joined list of non-zero units, e.g. "2 days, 3 hours". Seconds are
// ignored; when every unit is zero (or to is not after from) the result is
// an empty string.
func FormatElapsed(from, to time.Time) string {
	if !to.After(from) {
		return ""
	}

	// Count whole calendar months first, then measure the remainder as an
	// absolute duration. AddDate normalizes month-end overflow, so back off
	// until the anchor no longer passes to.
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	anchor := from.AddDate(0, months, 0)
	for months > 0 && anchor.After(to) {
		months--
		anchor = from.AddDate(0, months, 0)
	}

	years := months / 12
	months %= 12

	remainder := to.Sub(anchor)
	days := int(remainder.Hours()) / 24
	hours := int(remainder.Hours()) % 24
	minutes := int(remainder.Minutes()) % 60

	parts := make([]string, 0, 5)
	appendUnit := func(value int, singular string) {
		if value <= 0 {
			return
		}
		unit := singular
		if value > 1 {
			unit += "s"
		}
		parts = append(parts, strconv.Itoa(value)+" "+unit)
	}

	appendUnit(years, "year")
	appendUnit(months, "month")
	appendUnit(days, "day")
	appendUnit(hours, "hour")
	appendUnit(minutes, "minute")

	return strings.Join(parts, ", ")
}
