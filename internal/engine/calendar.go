package engine

import (
	"fmt"
	"time"

	"github.com/ndewijer/Fund-Trading-Backend/internal/apperrors"
)

// dateKey is the canonical day format used for holiday set membership.
const dateKey = "2006-01-02"

// Calendars answers business-day questions for named calendars. It is built
// once per generation run from the stored non-business dates and is read-only
// afterwards, so concurrent runs can share one value.
//
// A date is a business day under a set of calendars only if every calendar in
// the set treats it as one (a fund trading across multiple markets is closed
// when any one market is closed). Saturdays and Sundays are never business
// days regardless of calendar.
type Calendars struct {
	holidays map[string]map[string]struct{}
}

// NewCalendars builds a resolver from per-calendar non-business dates.
func NewCalendars(nonBusinessDates map[string][]time.Time) Calendars {
	holidays := make(map[string]map[string]struct{}, len(nonBusinessDates))
	for name, dates := range nonBusinessDates {
		set := make(map[string]struct{}, len(dates))
		for _, d := range dates {
			set[d.Format(dateKey)] = struct{}{}
		}
		holidays[name] = set
	}
	return Calendars{holidays: holidays}
}

// Known reports whether a calendar has registered dates.
func (c Calendars) Known(name string) bool {
	_, ok := c.holidays[name]
	return ok
}

// IsBusinessDay reports whether date is a business day under the named
// calendar. Returns apperrors.ErrCalendarNotFound for calendars with no
// registered dates.
func (c Calendars) IsBusinessDay(name string, date time.Time) (bool, error) {
	set, ok := c.holidays[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", apperrors.ErrCalendarNotFound, name)
	}
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false, nil
	}
	_, holiday := set[date.Format(dateKey)]
	return !holiday, nil
}

// isBusinessDayAll applies the intersection rule across a calendar set.
func (c Calendars) isBusinessDayAll(names []string, date time.Time) (bool, error) {
	for _, name := range names {
		ok, err := c.IsBusinessDay(name, date)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// AddBusinessDays walks forward (n > 0) or backward (n < 0) from date one
// calendar day at a time, skipping days that are not business days under
// every named calendar, until |n| business-day steps are consumed.
//
// n == 0 returns the input date unchanged even if it is not a business day.
// That is deliberate: callers that need a business-day-normalized date must
// either confirm validity first or ask for an explicit +-1 step.
func (c Calendars) AddBusinessDays(date time.Time, n int, names []string) (time.Time, error) {
	// Surface unknown calendars even for the n == 0 no-op.
	for _, name := range names {
		if !c.Known(name) {
			return time.Time{}, fmt.Errorf("%w: %s", apperrors.ErrCalendarNotFound, name)
		}
	}

	step := 1
	if n < 0 {
		step = -1
		n = -n
	}

	current := date
	for consumed := 0; consumed < n; {
		current = current.AddDate(0, 0, step)
		ok, err := c.isBusinessDayAll(names, current)
		if err != nil {
			return time.Time{}, err
		}
		if ok {
			consumed++
		}
	}
	return current, nil
}
