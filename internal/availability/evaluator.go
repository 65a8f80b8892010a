// Package availability decides whether a booking request may be accepted.
// It performs no I/O: callers load the equipment status and the existing
// bookings and must run Validate inside the same transaction that inserts
// the new booking.
package availability

import (
	"time"

	"github.com/JasonLinn/cryo-booking/internal/domain"
)

// Request is a candidate booking. It is never persisted by this package.
type Request struct {
	EquipmentID string
	StartTime   time.Time
	EndTime     time.Time
}

type Evaluator struct {
	holidays map[monthDay]string
	loc      *time.Location
	now      func() time.Time
}

type Option func(*Evaluator)

// WithLocation sets the timezone whose wall-clock date decides bookable days.
func WithLocation(loc *time.Location) Option {
	return func(e *Evaluator) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEvaluator(holidays []Holiday, opts ...Option) *Evaluator {
	e := &Evaluator{
		holidays: make(map[monthDay]string, len(holidays)),
		loc:      time.Local,
		now:      time.Now,
	}
	for _, h := range holidays {
		e.holidays[monthDay{month: time.Month(h.Month), day: h.Day}] = h.Name
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Evaluator) Location() *time.Location {
	return e.loc
}

// IsBookableDay reports whether date is a weekday that is not a configured
// holiday. Only the wall-clock fields of date are used.
func (e *Evaluator) IsBookableDay(date time.Time) bool {
	return e.closedReason(date) == ""
}

// HolidayName returns the configured name of the holiday on date, if any.
func (e *Evaluator) HolidayName(date time.Time) (string, bool) {
	name, ok := e.holidays[monthDay{month: date.Month(), day: date.Day()}]
	return name, ok
}

func (e *Evaluator) closedReason(date time.Time) string {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return "weekend"
	}
	if name, ok := e.HolidayName(date); ok {
		if name == "" {
			return "holiday"
		}
		return name
	}
	return ""
}

// RangesOverlap reports whether the half-open intervals [startA, endA) and
// [startB, endB) share an instant. Touching or empty intervals do not overlap.
func RangesOverlap(startA, endA, startB, endB time.Time) bool {
	if !startA.Before(endA) || !startB.Before(endB) {
		return false
	}
	return startA.Before(endB) && startB.Before(endA)
}

// CanAccept reports whether equipment in this status takes new bookings.
func CanAccept(status domain.EquipmentStatus) bool {
	return status == domain.EquipmentStatusAvailable || status == domain.EquipmentStatusAskAdmin
}

// RequiresAdminApproval is a display hint: the equipment is bookable but a
// human follow-up is expected.
func RequiresAdminApproval(status domain.EquipmentStatus) bool {
	return status == domain.EquipmentStatusAskAdmin
}

// Validate runs the booking checks in a fixed order and returns the first
// failure. Validate is deterministic for a fixed clock.
func (e *Evaluator) Validate(req Request, existing []domain.Booking, status domain.EquipmentStatus) Verdict {
	if !req.StartTime.Before(req.EndTime) {
		return reject(ReasonInvalidRange)
	}
	if req.StartTime.Before(e.now()) {
		return reject(ReasonPastDate)
	}
	if !CanAccept(status) {
		return reject(ReasonEquipmentNotBookable)
	}
	if !e.IsBookableDay(req.StartTime.In(e.loc)) {
		return reject(ReasonNonBookableDay)
	}
	if _, ok := FindConflict(req, existing); ok {
		return reject(ReasonTimeConflict)
	}
	return Verdict{}
}

// FindConflict returns the first active booking of the same equipment that
// overlaps req.
func FindConflict(req Request, existing []domain.Booking) (domain.Booking, bool) {
	for _, b := range existing {
		if b.EquipmentID != req.EquipmentID || !b.Status.Active() {
			continue
		}
		if RangesOverlap(req.StartTime, req.EndTime, b.StartTime, b.EndTime) {
			return b, true
		}
	}
	return domain.Booking{}, false
}
