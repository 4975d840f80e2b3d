package services

import (
	"fmt"
	"time"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
)

const dateLayout = "2006-01-02"

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, errs.NewValidationError(fmt.Sprintf("%s must be YYYY-MM-DD", field))
	}
	return t, nil
}

// parseRange checks an inclusive start/end pair; an empty end is allowed.
func parseRange(start, end string) (time.Time, *time.Time, error) {
	s, err := parseDate("startDate", start)
	if err != nil {
		return time.Time{}, nil, err
	}
	if end == "" {
		return s, nil, nil
	}
	e, err := parseDate("endDate", end)
	if err != nil {
		return time.Time{}, nil, err
	}
	if e.Before(s) {
		return time.Time{}, nil, errs.NewValidationError("endDate must not be before startDate")
	}
	return s, &e, nil
}

// today returns the calendar day of now in loc, as a UTC midnight.
func today(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
