package model

import "errors"

var (
	// Identity related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrInvalidRole        = errors.New("invalid role")
	ErrLastAdmin          = errors.New("cannot remove the last admin")

	// Token related errors
	ErrInvalidToken = errors.New("invalid token")

	// Permission/Access related errors
	ErrForbidden = errors.New("access forbidden")

	// Appointment related errors
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotConflict        = errors.New("time slot is already booked")
	ErrInvalidStatus       = errors.New("invalid appointment status")

	// Catalog related errors
	ErrServiceNotFound = errors.New("service not found")
)
