package domain

import "time"

const (
	EventBookingCreated  = "booking_created"
	EventBookingApproved = "booking_approved"
	EventBookingRejected = "booking_rejected"
)

// BookingEvent is the notification payload published to the broker. It is
// self-contained so consumers never have to query the database.
type BookingEvent struct {
	Type          string    `json:"type"`
	BookingID     string    `json:"booking_id"`
	EquipmentID   string    `json:"equipment_id"`
	EquipmentName string    `json:"equipment_name"`
	UserName      string    `json:"user_name"`
	UserEmail     string    `json:"user_email"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Purpose       string    `json:"purpose,omitempty"`
	Status        string    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
}

func NewBookingEvent(eventType string, b *Booking) BookingEvent {
	return BookingEvent{
		Type:          eventType,
		BookingID:     b.ID,
		EquipmentID:   b.EquipmentID,
		EquipmentName: b.EquipmentName,
		UserName:      b.UserName,
		UserEmail:     b.UserEmail,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Purpose:       b.Purpose,
		Status:        string(b.Status),
		Reason:        b.RejectionReason,
	}
}
