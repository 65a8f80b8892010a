package domain

import "errors"

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrEquipmentExists   = errors.New("equipment id already in use")
)

var (
	ErrInvalidTransition = errors.New("booking is not pending")
	ErrBookingOverlap    = errors.New("booking overlaps an existing booking")
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

var (
	ErrValidation = errors.New("validation error")
)
