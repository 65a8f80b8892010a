package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "PENDING"
	BookingStatusApproved BookingStatus = "APPROVED"
	BookingStatusRejected BookingStatus = "REJECTED"
)

// ActiveStatuses are the statuses that hold a time range on the equipment.
var ActiveStatuses = []BookingStatus{BookingStatusPending, BookingStatusApproved}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusApproved, BookingStatusRejected:
		return true
	}
	return false
}

// Active reports whether a booking in this status blocks its time range.
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusApproved
}

// CanTransitionTo reports whether next is reachable from s. APPROVED and
// REJECTED are terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return s == BookingStatusPending && (next == BookingStatusApproved || next == BookingStatusRejected)
}

type Booking struct {
	ID              string
	EquipmentID     string
	UserID          string
	StartTime       time.Time
	EndTime         time.Time
	Purpose         string
	Status          BookingStatus
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Filled by joined reads.
	EquipmentName string
	UserName      string
	UserEmail     string
}
