// Package dates resolves the partial expense dates users type on claim
// forms ("MM/dd", optionally with a year) into full calendar dates.
package dates

import (
	"strconv"
	"strings"
	"time"

	"claimdesk/pkg/types"
)

// ResolvePartialDate parses "MM/dd" or "MM/dd/yyyy".
//
// When the year is absent it is inferred relative to today: a candidate
// date more than 30 days in the future belongs to the previous year, and
// one more than 335 days in the past belongs to the next year. This lets
// claims submitted near a year boundary omit the year.
//
// Month must be 1-12 and day 1-31; there is deliberately no stricter
// calendar check, so "02/31" normalizes forward rather than failing.
func ResolvePartialDate(input string, today time.Time) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(input), "/")
	if len(parts) != 2 && len(parts) != 3 {
		return time.Time{}, &types.InvalidDateError{Input: input, Reason: "expected MM/dd or MM/dd/yyyy"}
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, &types.InvalidDateError{Input: input, Reason: "month is not a number"}
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, &types.InvalidDateError{Input: input, Reason: "day is not a number"}
	}

	if month < 1 || month > 12 {
		return time.Time{}, &types.InvalidDateError{Input: input, Reason: "month out of range"}
	}
	if day < 1 || day > 31 {
		return time.Time{}, &types.InvalidDateError{Input: input, Reason: "day out of range"}
	}

	if len(parts) == 3 {
		year, err := strconv.Atoi(parts[2])
		if err != nil {
			return time.Time{}, &types.InvalidDateError{Input: input, Reason: "year is not a number"}
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
	}

	base := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	candidate := time.Date(today.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
	daysDiff := int(candidate.Sub(base).Hours() / 24)

	year := today.Year()
	switch {
	case daysDiff > 30:
		year--
	case daysDiff < -335:
		year++
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// ResolvePartialDateOrNow is the best-effort variant used by batch callers:
// any parse failure falls back to today instead of failing the whole run.
func ResolvePartialDateOrNow(input string, today time.Time) time.Time {
	resolved, err := ResolvePartialDate(input, today)
	if err != nil {
		return time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	}
	return resolved
}
