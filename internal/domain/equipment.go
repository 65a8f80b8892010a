package domain

import "time"

type EquipmentStatus string

const (
	EquipmentStatusAvailable   EquipmentStatus = "AVAILABLE"
	EquipmentStatusAskAdmin    EquipmentStatus = "ASK_ADMIN"
	EquipmentStatusPreparing   EquipmentStatus = "PREPARING"
	EquipmentStatusMaintenance EquipmentStatus = "MAINTENANCE"
	EquipmentStatusUnavailable EquipmentStatus = "UNAVAILABLE"
)

func (s EquipmentStatus) Valid() bool {
	switch s {
	case EquipmentStatusAvailable, EquipmentStatusAskAdmin, EquipmentStatusPreparing,
		EquipmentStatusMaintenance, EquipmentStatusUnavailable:
		return true
	}
	return false
}

type Equipment struct {
	ID          string
	Name        string
	Description string
	Location    string
	Color       string
	Status      EquipmentStatus
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Number of approved bookings that have not started yet. Only set by List.
	UpcomingApproved int
}

// EquipmentPatch carries the fields of a partial equipment update; nil fields
// are left untouched.
type EquipmentPatch struct {
	Name        *string
	Description *string
	Location    *string
	Color       *string
	Status      *EquipmentStatus
}

func (p EquipmentPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Location == nil && p.Color == nil && p.Status == nil
}
