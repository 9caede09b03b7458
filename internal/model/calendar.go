package model

import "time"

// CalendarDate marks one non-business date under a named calendar. The
// calendar resolver treats a date as a business day only if no calendar in a
// fund's calendar set lists it (and it is not a weekend).
type CalendarDate struct {
	Calendar string
	Date     time.Time
}
