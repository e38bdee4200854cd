// Package scheduler owns the fire-time arithmetic and the hand-off to the
// delayed-job queue.
package scheduler

import (
	"time"

	errs "finance-notifier/internal/common/errors"
	"finance-notifier/internal/models"
)

// Scheduling defaults applied when neither the entry nor the user carries a
// value.
const (
	DefaultLeadMinutes = 5
	DefaultTimezone    = "America/Sao_Paulo"
)

// TimeCalculator computes the instant a reminder should fire. It is a pure
// function of its inputs: entry due date, lead-time precedence (entry over
// user over default), and the user's time zone.
type TimeCalculator struct {
	defaultLeadMinutes int
	defaultTimezone    string
}

func NewTimeCalculator(defaultLeadMinutes int, defaultTimezone string) *TimeCalculator {
	if defaultLeadMinutes <= 0 {
		defaultLeadMinutes = DefaultLeadMinutes
	}
	if defaultTimezone == "" {
		defaultTimezone = DefaultTimezone
	}
	return &TimeCalculator{
		defaultLeadMinutes: defaultLeadMinutes,
		defaultTimezone:    defaultTimezone,
	}
}

// ScheduledTime resolves the entry's due instant into the user's zone,
// subtracts the lead minutes in wall-clock terms, and returns the result as
// an absolute UTC instant. Subtracting through the zone database means DST
// transitions are handled by the conversion, not by manual offset math.
//
// The only failure mode is an unknown time-zone identifier, which is a
// configuration error.
func (c *TimeCalculator) ScheduledTime(entry models.Entry, user models.User) (time.Time, error) {
	lead := c.defaultLeadMinutes
	if user.NotificationTimeMinutes != nil {
		lead = *user.NotificationTimeMinutes
	}
	if entry.NotificationTimeMinutes != nil {
		lead = *entry.NotificationTimeMinutes
	}

	zone := user.Timezone
	if zone == "" {
		zone = c.defaultTimezone
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, errs.NewInvalidTimezoneError(zone, err)
	}

	local := entry.Date.In(loc)
	fire := time.Date(
		local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute()-lead, local.Second(), local.Nanosecond(),
		loc,
	)

	return fire.UTC(), nil
}
