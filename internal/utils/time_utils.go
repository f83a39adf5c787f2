package utils

import (
	"time"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/constants"
)

// ResolveActualDate converts an instant into the partner's business timezone.
// Every date-sensitive decision in the contract core (history timestamps,
// termination dates, CPI anchors) goes through this single function so that a
// partner in Oslo and a partner in Stockholm each see their own calendar.
// An empty or unknown timezone falls back to the platform default.
func ResolveActualDate(timezone string, t time.Time) time.Time {
	if timezone == "" {
		timezone = constants.DefaultPartnerTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		Logger.Warnf("Unknown partner timezone '%s', falling back to %s", timezone, constants.DefaultPartnerTimezone)
		loc, _ = time.LoadLocation(constants.DefaultPartnerTimezone)
	}
	return t.In(loc)
}

// ActualDateOnly truncates a resolved instant to midnight of its calendar day
// in the partner timezone. Contract start/end comparisons are day-granular.
func ActualDateOnly(timezone string, t time.Time) time.Time {
	resolved := ResolveActualDate(timezone, t)
	return time.Date(resolved.Year(), resolved.Month(), resolved.Day(), 0, 0, 0, 0, resolved.Location())
}

// SameOrAfterDay reports whether a falls on the same calendar day as b or later,
// ignoring the time-of-day component.
func SameOrAfterDay(a, b time.Time) bool {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return !ad.Before(bd)
}
