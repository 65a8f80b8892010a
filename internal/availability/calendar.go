package availability

import (
	"time"

	"github.com/JasonLinn/cryo-booking/internal/domain"
)

// Holiday is a recurring public holiday on a fixed month and day. Movable
// (lunar) holidays have to be listed per year by whoever owns the config.
type Holiday struct {
	Month int    `yaml:"month" validate:"min=1,max=12"`
	Day   int    `yaml:"day" validate:"min=1,max=31"`
	Name  string `yaml:"name"`
}

type monthDay struct {
	month time.Month
	day   int
}

// Day is one calendar date as shown to the booking UI.
type Day struct {
	Date     time.Time
	Bookable bool
	Reason   string
}

// MaxCalendarDays bounds a single Calendar call.
const MaxCalendarDays = 366

// Calendar lists every date from 'from' to 'to' inclusive. Both ends are
// truncated to their wall-clock date.
func (e *Evaluator) Calendar(from, to time.Time) []Day {
	start := dateOf(from)
	end := dateOf(to)
	if end.Before(start) {
		return nil
	}

	n := int(end.Sub(start).Hours()/24) + 1
	if n > MaxCalendarDays {
		n = MaxCalendarDays
	}
	days := make([]Day, 0, n)
	for d := start; !d.After(end) && len(days) < MaxCalendarDays; d = d.AddDate(0, 0, 1) {
		reason := e.closedReason(d)
		days = append(days, Day{Date: d, Bookable: reason == "", Reason: reason})
	}
	return days
}

// Slot is a fixed-length window of a day with its occupancy.
type Slot struct {
	Start time.Time
	End   time.Time
	Free  bool
}

// Slots splits the business hours of date into windows of length step and
// marks the ones covered by an active booking. Non-bookable days return
// every slot as busy.
func (e *Evaluator) Slots(date time.Time, openHour, closeHour int, step time.Duration, existing []domain.Booking) []Slot {
	if step <= 0 || closeHour <= openHour {
		return nil
	}
	y, m, d := date.Date()
	bookable := e.IsBookableDay(time.Date(y, m, d, 0, 0, 0, 0, e.loc))
	// Wall-clock hours, so days with a DST shift keep their opening times.
	open := time.Date(y, m, d, openHour, 0, 0, 0, e.loc)
	closing := time.Date(y, m, d, closeHour, 0, 0, 0, e.loc)

	var slots []Slot
	for s := open; s.Before(closing); s = s.Add(step) {
		end := s.Add(step)
		if end.After(closing) {
			end = closing
		}
		free := bookable
		if free {
			for _, b := range existing {
				if b.Status.Active() && RangesOverlap(s, end, b.StartTime, b.EndTime) {
					free = false
					break
				}
			}
		}
		slots = append(slots, Slot{Start: s, End: end, Free: free})
	}
	return slots
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
